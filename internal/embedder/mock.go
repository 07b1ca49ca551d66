package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"

	"github.com/finops-kb/costgraph/internal/types"
)

// MockCall represents a recorded method call on the mock embedder.
type MockCall struct {
	Method    string
	Args      []interface{}
	Timestamp time.Time
}

// MockEmbedder is a mock implementation of Embedder for testing.
// It generates deterministic embeddings based on text hash, ensuring
// the same text always produces the same embedding.
type MockEmbedder struct {
	mu           sync.RWMutex
	dimensions   int
	model        string
	calls        []MockCall
	embedError   error
	batchError   error
	healthStatus types.HealthStatus
}

// NewMockEmbedder creates a new mock embedder for testing.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{
		dimensions:   8,
		model:        "mock-embedder",
		calls:        make([]MockCall, 0),
		healthStatus: types.Healthy("mock embedder"),
	}
}

// Embed generates a deterministic embedding for a single text.
func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{
		Method:    "Embed",
		Args:      []interface{}{text},
		Timestamp: time.Now(),
	})

	if m.embedError != nil {
		return nil, m.embedError
	}
	return m.generateEmbedding(text), nil
}

// EmbedBatch generates deterministic embeddings for multiple texts.
func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{
		Method:    "EmbedBatch",
		Args:      []interface{}{texts},
		Timestamp: time.Now(),
	})

	if m.batchError != nil {
		return nil, m.batchError
	}
	embeddings := make([][]float64, len(texts))
	for i, text := range texts {
		embeddings[i] = m.generateEmbedding(text)
	}
	return embeddings, nil
}

// generateEmbedding derives a unit vector from a SHA256 hash of the text so
// identical texts always map to identical vectors.
func (m *MockEmbedder) generateEmbedding(text string) []float64 {
	hash := sha256.Sum256([]byte(text))
	seed := int64(binary.BigEndian.Uint64(hash[:8]))
	rng := rand.New(rand.NewSource(seed))

	embedding := make([]float64, m.dimensions)
	for i := 0; i < m.dimensions; i++ {
		embedding[i] = (rng.Float64() * 2) - 1
	}
	return normalizeVector(embedding)
}

func (m *MockEmbedder) Dimensions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dimensions
}

func (m *MockEmbedder) Model() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.model
}

func (m *MockEmbedder) Health(ctx context.Context) types.HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthStatus
}

// SetDimensions overrides the vector dimensionality.
func (m *MockEmbedder) SetDimensions(d int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dimensions = d
}

// SetEmbedError makes subsequent Embed calls fail with err.
func (m *MockEmbedder) SetEmbedError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedError = err
}

// SetBatchError makes subsequent EmbedBatch calls fail with err.
func (m *MockEmbedder) SetBatchError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchError = err
}

// SetHealthStatus overrides the reported health status.
func (m *MockEmbedder) SetHealthStatus(status types.HealthStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthStatus = status
}

// Calls returns a copy of all recorded calls.
func (m *MockEmbedder) Calls() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	calls := make([]MockCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Reset clears recorded calls and configured errors.
func (m *MockEmbedder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = m.calls[:0]
	m.embedError = nil
	m.batchError = nil
}
