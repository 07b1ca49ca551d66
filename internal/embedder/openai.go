package embedder

import (
	"context"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/finops-kb/costgraph/internal/types"
)

// OpenAIEmbedder generates embeddings through the OpenAI embeddings API.
type OpenAIEmbedder struct {
	embedder   embeddings.Embedder
	model      string
	dimensions int
}

// NewOpenAIEmbedder creates an embedder backed by OpenAI.
func NewOpenAIEmbedder(config Config) (*OpenAIEmbedder, error) {
	opts := []openai.Option{
		openai.WithEmbeddingModel(config.Model),
	}
	if config.APIKey != "" {
		opts = append(opts, openai.WithToken(config.APIKey))
	}
	if config.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(config.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, types.WrapError(types.PROVIDER_AUTH_FAILED, "create OpenAI client", err)
	}
	emb, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, types.WrapError(types.EMBED_FAILED, "create OpenAI embedder", err)
	}

	return &OpenAIEmbedder{
		embedder:   emb,
		model:      config.Model,
		dimensions: config.Dimensions,
	}, nil
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	vec, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, types.WrapError(types.EMBED_FAILED, "embed text", err)
	}
	return normalizeVector(toFloat64(vec)), nil
}

func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vecs, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, types.WrapError(types.EMBED_FAILED, "embed batch", err)
	}
	out := make([][]float64, len(vecs))
	for i, v := range vecs {
		out[i] = normalizeVector(toFloat64(v))
	}
	return out, nil
}

func (e *OpenAIEmbedder) Dimensions() int { return e.dimensions }

func (e *OpenAIEmbedder) Model() string { return e.model }

func (e *OpenAIEmbedder) Health(ctx context.Context) types.HealthStatus {
	if _, err := e.Embed(ctx, "health check"); err != nil {
		return types.Unhealthy("OpenAI embedder unreachable: " + err.Error())
	}
	return types.Healthy("OpenAI embedder operational")
}
