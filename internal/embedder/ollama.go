package embedder

import (
	"context"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/finops-kb/costgraph/internal/types"
)

// OllamaEmbedder generates embeddings through a local Ollama server. Useful
// for running the full pipeline without any hosted API.
type OllamaEmbedder struct {
	embedder   embeddings.Embedder
	model      string
	dimensions int
}

// NewOllamaEmbedder creates an embedder backed by a local Ollama instance.
func NewOllamaEmbedder(config Config) (*OllamaEmbedder, error) {
	opts := []ollama.Option{
		ollama.WithModel(config.Model),
	}
	if config.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(config.BaseURL))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, types.WrapError(types.PROVIDER_UNAVAILABLE, "create Ollama client", err)
	}
	emb, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, types.WrapError(types.EMBED_FAILED, "create Ollama embedder", err)
	}

	return &OllamaEmbedder{
		embedder:   emb,
		model:      config.Model,
		dimensions: config.Dimensions,
	}, nil
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	vec, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, types.WrapError(types.EMBED_FAILED, "embed text", err)
	}
	return normalizeVector(toFloat64(vec)), nil
}

func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
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

func (e *OllamaEmbedder) Dimensions() int { return e.dimensions }

func (e *OllamaEmbedder) Model() string { return e.model }

func (e *OllamaEmbedder) Health(ctx context.Context) types.HealthStatus {
	if _, err := e.Embed(ctx, "health check"); err != nil {
		return types.Unhealthy("Ollama embedder unreachable: " + err.Error())
	}
	return types.Healthy("Ollama embedder operational")
}
