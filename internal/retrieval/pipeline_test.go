package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finops-kb/costgraph/internal/embedder"
	"github.com/finops-kb/costgraph/internal/graph"
	"github.com/finops-kb/costgraph/internal/intent"
	"github.com/finops-kb/costgraph/internal/llm"
)

func newTestPipeline(client *graph.MockClient, emb *embedder.MockEmbedder, gen *llm.MockGenerator) *Pipeline {
	return NewPipeline(
		intent.NewClassifier(),
		NewVectorRetriever(client, emb, nil),
		NewGraphRetriever(client, DefaultScores(), nil),
		gen,
		nil,
	)
}

func TestPipelineQuery(t *testing.T) {
	t.Run("happy path produces grounded answer", func(t *testing.T) {
		client := graph.NewMockClient()
		client.AddReadHandler("service_embedding", graph.QueryResult{
			Records: []map[string]any{
				{"text": "Amazon S3", "label": "Service", "score": 0.8},
			},
		}, nil)
		client.AddReadHandler("effectiveCost > 0", graph.QueryResult{
			Records: []map[string]any{{
				"service": "Amazon S3", "category": "Storage", "provider": "aws",
				"totalCost": 7.5, "records": int64(4),
			}},
		}, nil)

		gen := llm.NewMockGenerator()
		gen.SetResponse("S3 dominates storage spend.")
		pipeline := newTestPipeline(client, embedder.NewMockEmbedder(), gen)

		result := pipeline.Query(context.Background(), "Compare storage costs between AWS and Azure", 10)

		assert.Equal(t, "S3 dominates storage spend.", result.Answer)
		assert.Contains(t, result.Intents, intent.IntentCostAnalysis)
		assert.Contains(t, result.Intents, intent.IntentServiceComparison)
		assert.True(t, result.Entities[intent.EntityAWS])
		assert.True(t, result.Entities[intent.EntityAzure])
		assert.Equal(t, "hybrid (vector=1, graph=1)", result.RetrievalMethod)
		assert.Contains(t, result.Context, "Amazon S3")
		assert.Equal(t, []string{"Amazon S3"}, result.Concepts)
		assert.Equal(t, []string{"CostRecord->Resource->Service"}, result.Paths)
		assert.InDelta(t, 0.8, result.Confidence, 1e-9)

		calls := gen.Calls()
		require.Len(t, calls, 1)
		assert.Contains(t, calls[0].System, "FOCUS 1.0")
		assert.Contains(t, calls[0].Prompt, "Compare storage costs between AWS and Azure")
		assert.Contains(t, calls[0].Prompt, result.Context)
	})

	t.Run("vector failure degrades to graph only", func(t *testing.T) {
		client := graph.NewMockClient()
		client.AddReadHandler("INCURRED_BY", graph.QueryResult{
			Records: []map[string]any{{
				"service": "EC2", "category": "Compute", "provider": "aws",
				"totalCost": 1.0, "records": int64(1),
			}},
		}, nil)

		emb := embedder.NewMockEmbedder()
		emb.SetEmbedError(errors.New("provider down"))
		gen := llm.NewMockGenerator()
		pipeline := newTestPipeline(client, emb, gen)

		result := pipeline.Query(context.Background(), "Show the total spend", 10)

		assert.Empty(t, result.VectorHits)
		assert.NotEmpty(t, result.GraphHits)
		assert.Equal(t, "hybrid (vector=0, graph=1)", result.RetrievalMethod)
		assert.InDelta(t, 0.5, result.Confidence, 1e-9)
		assert.Equal(t, "mock answer", result.Answer)
	})

	t.Run("generation failure returns context with explanation", func(t *testing.T) {
		client := graph.NewMockClient()
		client.AddReadHandler("service_embedding", graph.QueryResult{
			Records: []map[string]any{
				{"text": "Amazon EC2", "label": "Service", "score": 0.9},
			},
		}, nil)

		gen := llm.NewMockGenerator()
		gen.SetError(errors.New("rate limited"))
		pipeline := newTestPipeline(client, embedder.NewMockEmbedder(), gen)

		result := pipeline.Query(context.Background(), "Show the total spend", 10)

		assert.Contains(t, result.Answer, "rate limited")
		assert.Contains(t, result.Answer, "Retrieved context")
		assert.Contains(t, result.Answer, "Amazon EC2")
	})

	t.Run("no evidence yields placeholder context", func(t *testing.T) {
		client := graph.NewMockClient()
		gen := llm.NewMockGenerator()
		pipeline := newTestPipeline(client, embedder.NewMockEmbedder(), gen)

		result := pipeline.Query(context.Background(), "hello there", 10)

		assert.Equal(t, emptyContext, result.Context)
		assert.Equal(t, []intent.Intent{intent.IntentGeneral}, result.Intents)
		assert.Equal(t, "hybrid (vector=0, graph=0)", result.RetrievalMethod)
		assert.InDelta(t, 0.5, result.Confidence, 1e-9)
	})

	t.Run("confidence averages top five vector scores", func(t *testing.T) {
		records := make([]map[string]any, 7)
		for i := range records {
			records[i] = map[string]any{
				"text":  "svc " + string(rune('a'+i)),
				"label": "Service",
				"score": 1.0 - float64(i)*0.1,
			}
		}
		client := graph.NewMockClient()
		client.AddReadHandler("service_embedding", graph.QueryResult{Records: records}, nil)

		pipeline := newTestPipeline(client, embedder.NewMockEmbedder(), llm.NewMockGenerator())
		result := pipeline.Query(context.Background(), "hello there", 10)

		// top five scores: 1.0, 0.9, 0.8, 0.7, 0.6
		assert.InDelta(t, 0.8, result.Confidence, 1e-9)
		assert.Len(t, result.Concepts, 5)
	})

	t.Run("zero topK falls back to default", func(t *testing.T) {
		client := graph.NewMockClient()
		pipeline := newTestPipeline(client, embedder.NewMockEmbedder(), llm.NewMockGenerator())

		result := pipeline.Query(context.Background(), "hello there", 0)
		assert.NotNil(t, result.Entities)

		calls := client.Calls()
		require.NotEmpty(t, calls)
		assert.Equal(t, DefaultTopK, calls[0].Params["k"])
	})
}
