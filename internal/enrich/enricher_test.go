package enrich

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finops-kb/costgraph/internal/embedder"
	"github.com/finops-kb/costgraph/internal/graph"
	"github.com/finops-kb/costgraph/internal/schema"
)

func serviceTarget() schema.EmbedTarget {
	return schema.EmbedTarget{Kind: schema.KindService, TextProp: "description"}
}

func pendingResult(n int) graph.QueryResult {
	records := make([]map[string]any, n)
	for i := range records {
		records[i] = map[string]any{
			"nodeId": fmt.Sprintf("4:abc:%d", i),
			"text":   fmt.Sprintf("Service %d (Compute) - aws", i),
		}
	}
	return graph.QueryResult{Records: records}
}

func TestEmbedTarget(t *testing.T) {
	ctx := context.Background()

	t.Run("embeds pending nodes and writes vectors back", func(t *testing.T) {
		client := graph.NewMockClient()
		client.AddReadHandler("MATCH (n:Service)", pendingResult(3), nil)

		enricher := NewEnricher(client, embedder.NewMockEmbedder(), nil)
		count, err := enricher.EmbedTarget(ctx, serviceTarget())
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		writes := client.WriteCalls()
		require.Len(t, writes, 1)
		assert.Contains(t, writes[0].Cypher, "UNWIND $updates")
		assert.Contains(t, writes[0].Cypher, "SET n.embedding")

		updates := writes[0].Params["updates"].([]map[string]any)
		assert.Len(t, updates, 3)
	})

	t.Run("nothing pending is a no-op", func(t *testing.T) {
		client := graph.NewMockClient()
		enricher := NewEnricher(client, embedder.NewMockEmbedder(), nil)

		count, err := enricher.EmbedTarget(ctx, serviceTarget())
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Empty(t, client.WriteCalls())
	})

	t.Run("large sets are batched", func(t *testing.T) {
		client := graph.NewMockClient()
		client.AddReadHandler("MATCH (n:Service)", pendingResult(batchSize+10), nil)

		enricher := NewEnricher(client, embedder.NewMockEmbedder(), nil)
		count, err := enricher.EmbedTarget(ctx, serviceTarget())
		require.NoError(t, err)
		assert.Equal(t, batchSize+10, count)

		writes := client.WriteCalls()
		require.Len(t, writes, 2)
		first := writes[0].Params["updates"].([]map[string]any)
		second := writes[1].Params["updates"].([]map[string]any)
		assert.Len(t, first, batchSize)
		assert.Len(t, second, 10)
	})

	t.Run("embedder failure stops the target", func(t *testing.T) {
		client := graph.NewMockClient()
		client.AddReadHandler("MATCH (n:Service)", pendingResult(2), nil)

		emb := embedder.NewMockEmbedder()
		emb.SetBatchError(errors.New("provider down"))
		enricher := NewEnricher(client, emb, nil)

		_, err := enricher.EmbedTarget(ctx, serviceTarget())
		assert.Error(t, err)
		assert.Empty(t, client.WriteCalls())
	})

	t.Run("selection filters on missing embedding", func(t *testing.T) {
		client := graph.NewMockClient()
		enricher := NewEnricher(client, embedder.NewMockEmbedder(), nil)

		_, err := enricher.EmbedTarget(ctx, serviceTarget())
		require.NoError(t, err)

		calls := client.Calls()
		require.Len(t, calls, 1)
		assert.Contains(t, calls[0].Cypher, "n.embedding IS NULL")
		assert.Contains(t, calls[0].Cypher, "n.description IS NOT NULL")
	})
}

func TestEmbedAll(t *testing.T) {
	client := graph.NewMockClient()
	client.AddReadHandler("MATCH (n:Service)", pendingResult(2), nil)

	enricher := NewEnricher(client, embedder.NewMockEmbedder(), nil)
	summaries, err := enricher.EmbedAll(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, len(schema.EmbedTargets()))

	total := 0
	for _, s := range summaries {
		total += s.Embedded
	}
	assert.Equal(t, 2, total)
}
