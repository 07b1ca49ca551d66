package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/finops-kb/costgraph/internal/types"
)

// langchainGenerator adapts any langchaingo model to the Generator
// interface. All hosted and local providers share the generation path and
// differ only in client construction.
type langchainGenerator struct {
	model  llms.Model
	name   string
	config Config
}

// NewGenerator creates a generator for the configured provider.
func NewGenerator(ctx context.Context, config Config) (Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		model llms.Model
		err   error
	)
	switch config.Provider {
	case "openai":
		opts := []openai.Option{openai.WithModel(config.Model)}
		if config.APIKey != "" {
			opts = append(opts, openai.WithToken(config.APIKey))
		}
		if config.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(config.BaseURL))
		}
		model, err = openai.New(opts...)

	case "anthropic":
		opts := []anthropic.Option{anthropic.WithModel(config.Model)}
		if config.APIKey != "" {
			opts = append(opts, anthropic.WithToken(config.APIKey))
		}
		if config.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(config.BaseURL))
		}
		model, err = anthropic.New(opts...)

	case "ollama":
		opts := []ollama.Option{ollama.WithModel(config.Model)}
		if config.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(config.BaseURL))
		}
		model, err = ollama.New(opts...)

	case "googleai":
		opts := []googleai.Option{googleai.WithDefaultModel(config.Model)}
		if config.APIKey != "" {
			opts = append(opts, googleai.WithAPIKey(config.APIKey))
		}
		model, err = googleai.New(ctx, opts...)

	case "mock":
		return NewMockGenerator(), nil

	default:
		return nil, types.NewError(types.GENERATION_FAILED,
			fmt.Sprintf("unknown llm provider '%s'", config.Provider))
	}

	if err != nil {
		return nil, types.WrapError(types.PROVIDER_AUTH_FAILED,
			fmt.Sprintf("create %s client", config.Provider), err)
	}
	return &langchainGenerator{model: model, name: config.Provider, config: config}, nil
}

func (g *langchainGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	opts := []llms.CallOption{llms.WithTemperature(g.config.Temperature)}
	if g.config.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(g.config.MaxTokens))
	}

	resp, err := g.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", types.WrapError(types.GENERATION_FAILED,
			fmt.Sprintf("%s generation failed", g.name), err)
	}
	if len(resp.Choices) == 0 {
		return "", types.NewError(types.GENERATION_FAILED,
			fmt.Sprintf("%s returned no choices", g.name))
	}
	return resp.Choices[0].Content, nil
}

func (g *langchainGenerator) Name() string { return g.name }

func (g *langchainGenerator) Health(ctx context.Context) types.HealthStatus {
	if _, err := g.Generate(ctx, "You are a health probe.", "Reply with OK."); err != nil {
		return types.Unhealthy(fmt.Sprintf("%s provider unreachable: %v", g.name, err))
	}
	return types.Healthy(fmt.Sprintf("%s provider operational", g.name))
}
