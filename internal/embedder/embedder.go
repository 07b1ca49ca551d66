// Package embedder generates embedding vectors for graph node descriptions
// and user queries. Implementations wrap hosted or local embedding models
// behind one interface so the enrichment and retrieval layers never care
// which provider is active.
package embedder

import (
	"context"
	"math"

	"github.com/finops-kb/costgraph/internal/types"
)

// Embedder generates embedding vectors from text content.
// Implementations must be thread-safe for concurrent access.
type Embedder interface {
	// Embed generates an embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float64, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)

	// Dimensions returns the dimensionality of embedding vectors.
	Dimensions() int

	// Model returns the name of the embedding model being used.
	Model() string

	// Health returns the health status of the embedder.
	Health(ctx context.Context) types.HealthStatus
}

// Config holds configuration for embedding providers.
type Config struct {
	// Provider specifies which embedder implementation to use.
	// Options: "openai", "ollama", "mock"
	Provider string `yaml:"provider" json:"provider" mapstructure:"provider"`

	// Model is the specific embedding model to use.
	// For OpenAI: "text-embedding-3-small" (1536 dims).
	// For Ollama: "nomic-embed-text" (768 dims).
	Model string `yaml:"model" json:"model" mapstructure:"model"`

	// APIKey is the provider API key. Can also come from the provider's
	// usual environment variable (e.g. OPENAI_API_KEY).
	APIKey string `yaml:"api_key" json:"api_key" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint. For Ollama this defaults to
	// http://localhost:11434.
	BaseURL string `yaml:"base_url" json:"base_url" mapstructure:"base_url"`

	// Dimensions is the expected vector dimensionality. Must match the
	// vector indexes created at schema setup.
	Dimensions int `yaml:"dimensions" json:"dimensions" mapstructure:"dimensions"`
}

// DefaultConfig returns the default embedder configuration.
func DefaultConfig() Config {
	return Config{
		Provider:   "openai",
		Model:      "text-embedding-3-small",
		Dimensions: 1536,
	}
}

// Validate checks if the Config is usable.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return types.NewError(types.EMBED_FAILED, "embedder provider cannot be empty")
	}
	if c.Model == "" {
		return types.NewError(types.EMBED_FAILED, "embedder model cannot be empty")
	}
	if c.Dimensions <= 0 {
		return types.NewError(types.EMBED_FAILED, "embedder dimensions must be positive")
	}
	return nil
}

// normalizeVector scales a vector to unit length. Zero vectors pass through
// unchanged.
func normalizeVector(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// toFloat64 widens a provider vector to float64.
func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
