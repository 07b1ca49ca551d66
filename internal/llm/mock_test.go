package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGenerator(t *testing.T) {
	ctx := context.Background()

	t.Run("returns configured response and records calls", func(t *testing.T) {
		m := NewMockGenerator()
		m.SetResponse("grounded answer")

		out, err := m.Generate(ctx, "system role", "the question")
		require.NoError(t, err)
		assert.Equal(t, "grounded answer", out)

		calls := m.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "system role", calls[0].System)
		assert.Equal(t, "the question", calls[0].Prompt)
	})

	t.Run("configured error surfaces", func(t *testing.T) {
		m := NewMockGenerator()
		m.SetError(errors.New("quota exceeded"))
		_, err := m.Generate(ctx, "s", "p")
		assert.Error(t, err)
	})

	t.Run("healthy by default", func(t *testing.T) {
		m := NewMockGenerator()
		assert.True(t, m.Health(ctx).IsHealthy())
		assert.Equal(t, "mock", m.Name())
	})
}

func TestGeneratorConfigValidate(t *testing.T) {
	valid := DefaultConfig()
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing provider", func(c *Config) { c.Provider = "" }},
		{"missing model", func(c *Config) { c.Model = "" }},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }},
		{"negative max tokens", func(c *Config) { c.MaxTokens = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	t.Run("mock provider needs no model", func(t *testing.T) {
		cfg := Config{Provider: "mock"}
		assert.NoError(t, cfg.Validate())
	})
}

func TestNewGeneratorUnknownProvider(t *testing.T) {
	_, err := NewGenerator(context.Background(), Config{Provider: "bogus", Model: "m"})
	assert.Error(t, err)
}

func TestNewGeneratorMock(t *testing.T) {
	gen, err := NewGenerator(context.Background(), Config{Provider: "mock"})
	require.NoError(t, err)
	assert.Equal(t, "mock", gen.Name())
}
