package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finops-kb/costgraph/internal/embedder"
	"github.com/finops-kb/costgraph/internal/graph"
)

func TestVectorRetrieverSearch(t *testing.T) {
	t.Run("merges targets sorted by score", func(t *testing.T) {
		client := graph.NewMockClient()
		client.AddReadHandler("service_embedding", graph.QueryResult{
			Records: []map[string]any{
				{"text": "Amazon EC2", "label": "Service", "score": 0.7},
			},
		}, nil)
		client.AddReadHandler("focuscolumn_embedding", graph.QueryResult{
			Records: []map[string]any{
				{"text": "EffectiveCost definition", "label": "FocusColumn", "score": 0.9},
			},
		}, nil)

		v := NewVectorRetriever(client, embedder.NewMockEmbedder(), nil)
		hits, err := v.Search(context.Background(), "what is effective cost", 10)
		require.NoError(t, err)

		require.Len(t, hits, 2)
		assert.Equal(t, "EffectiveCost definition", hits[0].Text)
		assert.Equal(t, "FocusColumn", hits[0].Label)
		assert.Equal(t, HitSourceVector, hits[0].Source)
		assert.Equal(t, "Amazon EC2", hits[1].Text)
	})

	t.Run("probes every configured index once", func(t *testing.T) {
		client := graph.NewMockClient()
		v := NewVectorRetriever(client, embedder.NewMockEmbedder(), nil)

		_, err := v.Search(context.Background(), "anything", 5)
		require.NoError(t, err)
		assert.Len(t, client.Calls(), len(searchTargets()))
	})

	t.Run("failing target is tolerated", func(t *testing.T) {
		client := graph.NewMockClient()
		client.AddReadHandler("service_embedding", graph.QueryResult{}, errors.New("no such index"))
		client.AddReadHandler("charge_embedding", graph.QueryResult{
			Records: []map[string]any{
				{"text": "Data transfer", "label": "Charge", "score": 0.6},
			},
		}, nil)

		v := NewVectorRetriever(client, embedder.NewMockEmbedder(), nil)
		hits, err := v.Search(context.Background(), "transfer charges", 10)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "Data transfer", hits[0].Text)
	})

	t.Run("falls back to description when text property is empty", func(t *testing.T) {
		client := graph.NewMockClient()
		client.AddReadHandler("charge_embedding", graph.QueryResult{
			Records: []map[string]any{
				{"text": "", "description": "fallback text", "label": "Charge", "score": 0.5},
			},
		}, nil)

		v := NewVectorRetriever(client, embedder.NewMockEmbedder(), nil)
		hits, err := v.Search(context.Background(), "q", 10)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "fallback text", hits[0].Text)
	})

	t.Run("truncates to topK after merge", func(t *testing.T) {
		records := make([]map[string]any, 6)
		for i := range records {
			records[i] = map[string]any{
				"text":  "service " + string(rune('a'+i)),
				"label": "Service",
				"score": 0.9 - float64(i)*0.05,
			}
		}
		client := graph.NewMockClient()
		client.AddReadHandler("service_embedding", graph.QueryResult{Records: records}, nil)

		v := NewVectorRetriever(client, embedder.NewMockEmbedder(), nil)
		hits, err := v.Search(context.Background(), "q", 3)
		require.NoError(t, err)
		assert.Len(t, hits, 3)
		assert.Equal(t, "service a", hits[0].Text)
	})

	t.Run("embedding failure is an error", func(t *testing.T) {
		emb := embedder.NewMockEmbedder()
		emb.SetEmbedError(errors.New("provider down"))

		v := NewVectorRetriever(graph.NewMockClient(), emb, nil)
		_, err := v.Search(context.Background(), "q", 5)
		assert.Error(t, err)
	})
}
