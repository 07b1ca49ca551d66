package embedder

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder(t *testing.T) {
	ctx := context.Background()

	t.Run("deterministic for identical text", func(t *testing.T) {
		m := NewMockEmbedder()
		a, err := m.Embed(ctx, "cloud storage costs")
		require.NoError(t, err)
		b, err := m.Embed(ctx, "cloud storage costs")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("different text differs", func(t *testing.T) {
		m := NewMockEmbedder()
		a, _ := m.Embed(ctx, "one")
		b, _ := m.Embed(ctx, "two")
		assert.NotEqual(t, a, b)
	})

	t.Run("vectors are unit length", func(t *testing.T) {
		m := NewMockEmbedder()
		vec, err := m.Embed(ctx, "normalize me")
		require.NoError(t, err)
		require.Len(t, vec, m.Dimensions())

		var sum float64
		for _, x := range vec {
			sum += x * x
		}
		assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-9)
	})

	t.Run("batch matches single embeds", func(t *testing.T) {
		m := NewMockEmbedder()
		batch, err := m.EmbedBatch(ctx, []string{"a", "b"})
		require.NoError(t, err)
		require.Len(t, batch, 2)

		single, _ := m.Embed(ctx, "a")
		assert.Equal(t, single, batch[0])
	})

	t.Run("configured errors surface", func(t *testing.T) {
		m := NewMockEmbedder()
		m.SetEmbedError(errors.New("embed boom"))
		_, err := m.Embed(ctx, "x")
		assert.Error(t, err)

		m.SetBatchError(errors.New("batch boom"))
		_, err = m.EmbedBatch(ctx, []string{"x"})
		assert.Error(t, err)
	})

	t.Run("records calls", func(t *testing.T) {
		m := NewMockEmbedder()
		m.Embed(ctx, "x")
		m.EmbedBatch(ctx, []string{"y"})

		calls := m.Calls()
		require.Len(t, calls, 2)
		assert.Equal(t, "Embed", calls[0].Method)
		assert.Equal(t, "EmbedBatch", calls[1].Method)

		m.Reset()
		assert.Empty(t, m.Calls())
	})

	t.Run("dimension override", func(t *testing.T) {
		m := NewMockEmbedder()
		m.SetDimensions(384)
		vec, err := m.Embed(ctx, "x")
		require.NoError(t, err)
		assert.Len(t, vec, 384)
	})
}

func TestNormalizeVector(t *testing.T) {
	t.Run("zero vector passes through", func(t *testing.T) {
		assert.Equal(t, []float64{0, 0}, normalizeVector([]float64{0, 0}))
	})

	t.Run("scales to unit length", func(t *testing.T) {
		out := normalizeVector([]float64{3, 4})
		assert.InDelta(t, 0.6, out[0], 1e-9)
		assert.InDelta(t, 0.8, out[1], 1e-9)
	})
}

func TestConfigValidate(t *testing.T) {
	valid := Config{Provider: "openai", Model: "text-embedding-3-small", Dimensions: 1536}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing provider", func(c *Config) { c.Provider = "" }},
		{"missing model", func(c *Config) { c.Model = "" }},
		{"zero dimensions", func(c *Config) { c.Dimensions = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewEmbedderFactory(t *testing.T) {
	t.Run("mock provider honors dimensions", func(t *testing.T) {
		emb, err := NewEmbedder(Config{Provider: "mock", Model: "mock", Dimensions: 42})
		require.NoError(t, err)
		assert.Equal(t, 42, emb.Dimensions())
	})

	t.Run("unknown provider rejected", func(t *testing.T) {
		_, err := NewEmbedder(Config{Provider: "bogus", Model: "m", Dimensions: 8})
		assert.Error(t, err)
	})
}
