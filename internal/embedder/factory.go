package embedder

import (
	"fmt"

	"github.com/finops-kb/costgraph/internal/types"
)

// NewEmbedder creates an embedder for the configured provider.
func NewEmbedder(config Config) (Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	switch config.Provider {
	case "openai":
		return NewOpenAIEmbedder(config)
	case "ollama":
		return NewOllamaEmbedder(config)
	case "mock":
		m := NewMockEmbedder()
		m.SetDimensions(config.Dimensions)
		return m, nil
	default:
		return nil, types.NewError(types.EMBED_FAILED,
			fmt.Sprintf("unknown embedder provider '%s' - must be 'openai', 'ollama', or 'mock'",
				config.Provider))
	}
}
