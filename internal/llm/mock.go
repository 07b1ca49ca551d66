package llm

import (
	"context"
	"sync"
	"time"

	"github.com/finops-kb/costgraph/internal/types"
)

// MockCall records one Generate invocation.
type MockCall struct {
	System    string
	Prompt    string
	Timestamp time.Time
}

// MockGenerator is a Generator for testing. It returns a configured
// response and records every call.
type MockGenerator struct {
	mu           sync.RWMutex
	response     string
	err          error
	calls        []MockCall
	healthStatus types.HealthStatus
}

// NewMockGenerator creates a mock generator with a canned response.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{
		response:     "mock answer",
		healthStatus: types.Healthy("mock generator"),
	}
}

func (m *MockGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{System: system, Prompt: prompt, Timestamp: time.Now()})
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *MockGenerator) Name() string { return "mock" }

func (m *MockGenerator) Health(ctx context.Context) types.HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthStatus
}

// SetResponse configures the canned completion.
func (m *MockGenerator) SetResponse(resp string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.response = resp
}

// SetError makes subsequent Generate calls fail with err.
func (m *MockGenerator) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns a copy of all recorded calls.
func (m *MockGenerator) Calls() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	calls := make([]MockCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}
