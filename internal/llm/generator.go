// Package llm wraps text-generation providers behind one small interface.
// The answer pipeline only needs grounded completion from a system prompt
// and a user prompt; provider selection is a configuration concern.
package llm

import (
	"context"

	"github.com/finops-kb/costgraph/internal/types"
)

// Generator produces a grounded natural-language completion.
// Implementations must be safe for concurrent use.
type Generator interface {
	// Generate returns a completion for the given system and user prompts.
	Generate(ctx context.Context, system, prompt string) (string, error)

	// Name returns the provider identifier.
	Name() string

	// Health returns the health status of the provider.
	Health(ctx context.Context) types.HealthStatus
}

// Config holds configuration for generation providers.
type Config struct {
	// Provider selects the implementation.
	// Options: "openai", "anthropic", "ollama", "googleai", "mock"
	Provider string `yaml:"provider" json:"provider" mapstructure:"provider"`

	// Model is the provider-specific model identifier.
	Model string `yaml:"model" json:"model" mapstructure:"model"`

	// APIKey authenticates against hosted providers. Provider environment
	// variables (OPENAI_API_KEY, ANTHROPIC_API_KEY, ...) also work.
	APIKey string `yaml:"api_key" json:"api_key" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint. For Ollama this defaults to
	// http://localhost:11434.
	BaseURL string `yaml:"base_url" json:"base_url" mapstructure:"base_url"`

	// Temperature controls sampling randomness.
	Temperature float64 `yaml:"temperature" json:"temperature" mapstructure:"temperature"`

	// MaxTokens caps completion length.
	MaxTokens int `yaml:"max_tokens" json:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultConfig returns the default generation configuration.
func DefaultConfig() Config {
	return Config{
		Provider:    "openai",
		Model:       "gpt-4o-mini",
		Temperature: 0.2,
		MaxTokens:   1024,
	}
}

// Validate checks if the Config is usable.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return types.NewError(types.GENERATION_FAILED, "llm provider cannot be empty")
	}
	if c.Model == "" && c.Provider != "mock" {
		return types.NewError(types.GENERATION_FAILED, "llm model cannot be empty")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return types.NewError(types.GENERATION_FAILED, "temperature must be between 0 and 2")
	}
	if c.MaxTokens < 0 {
		return types.NewError(types.GENERATION_FAILED, "max_tokens must be non-negative")
	}
	return nil
}
