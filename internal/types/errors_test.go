package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCostGraphError(t *testing.T) {
	t.Run("formats code and message", func(t *testing.T) {
		err := NewError(GRAPH_QUERY_FAILED, "query timed out")
		assert.Equal(t, "[GRAPH_QUERY_FAILED] query timed out", err.Error())
		assert.False(t, err.Retryable)
	})

	t.Run("wrapped cause appears and unwraps", func(t *testing.T) {
		cause := errors.New("socket closed")
		err := WrapError(GRAPH_CONNECTION_FAILED, "connect failed", cause)

		assert.Contains(t, err.Error(), "socket closed")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("errors.As matches by code", func(t *testing.T) {
		err := WrapError(INGEST_ROW_FAILED, "row 3", errors.New("deadlock"))

		var cge *CostGraphError
		require.ErrorAs(t, err, &cge)
		assert.Equal(t, INGEST_ROW_FAILED, cge.Code)
	})

	t.Run("Is compares codes", func(t *testing.T) {
		a := NewError(EMBED_FAILED, "one")
		b := NewError(EMBED_FAILED, "two")
		c := NewError(GENERATION_FAILED, "three")

		assert.True(t, errors.Is(a, b))
		assert.False(t, errors.Is(a, c))
	})

	t.Run("retryable flag", func(t *testing.T) {
		err := NewRetryableError(PROVIDER_UNAVAILABLE, "try again")
		assert.True(t, err.Retryable)
	})
}

func TestHealthStatus(t *testing.T) {
	h := Healthy("all good")
	assert.True(t, h.IsHealthy())
	assert.False(t, h.IsDegraded())
	assert.Equal(t, "all good", h.Message)
	assert.False(t, h.CheckedAt.IsZero())

	d := Degraded("slow")
	assert.True(t, d.IsDegraded())

	u := Unhealthy("down")
	assert.True(t, u.IsUnhealthy())
	assert.Equal(t, "unhealthy", u.State.String())
}
