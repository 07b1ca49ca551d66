package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/finops-kb/costgraph/internal/types"
)

// MockCall records a single Read or Write invocation on the mock client.
type MockCall struct {
	Method string
	Cypher string
	Params map[string]any
}

// ReadHandler produces a canned result for a Read call. Handlers are matched
// against the cypher text with strings.Contains, first match wins.
type ReadHandler struct {
	Match  string
	Result QueryResult
	Err    error
}

// MockClient is an in-memory Client implementation for tests.
//
// Writes are recorded and additionally folded into a distinct-statement set
// keyed by (cypher, params), which models MERGE semantics well enough to
// assert idempotence: replaying the same logical upsert produces an identical
// statement and therefore no new distinct entry.
type MockClient struct {
	mu           sync.Mutex
	calls        []MockCall
	distinct     map[string]struct{}
	readHandlers []ReadHandler
	writeErr     error
	connected    bool
}

// NewMockClient creates a mock client ready for use without Connect().
func NewMockClient() *MockClient {
	return &MockClient{
		distinct:  make(map[string]struct{}),
		connected: true,
	}
}

// Connect marks the mock as connected.
func (m *MockClient) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = true
	return nil
}

// Close marks the mock as disconnected.
func (m *MockClient) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	return nil
}

// Health reports healthy while the mock is connected.
func (m *MockClient) Health(ctx context.Context) types.HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return types.Unhealthy("mock client closed")
	}
	return types.Healthy("mock client")
}

// Read returns the first matching canned result, or an empty result set.
func (m *MockClient) Read(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Method: "Read", Cypher: cypher, Params: params})

	for _, h := range m.readHandlers {
		if strings.Contains(cypher, h.Match) {
			if h.Err != nil {
				return QueryResult{}, h.Err
			}
			return h.Result, nil
		}
	}
	return QueryResult{Records: []map[string]any{}}, nil
}

// Write records the statement and folds it into the distinct-statement set.
func (m *MockClient) Write(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Method: "Write", Cypher: cypher, Params: params})

	if m.writeErr != nil {
		return QueryResult{}, m.writeErr
	}

	m.distinct[statementKey(cypher, params)] = struct{}{}
	return QueryResult{}, nil
}

// AddReadHandler registers a canned result for Read calls whose cypher
// contains the given substring.
func (m *MockClient) AddReadHandler(match string, result QueryResult, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readHandlers = append(m.readHandlers, ReadHandler{Match: match, Result: result, Err: err})
}

// SetWriteError configures Write() to return an error.
func (m *MockClient) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// Calls returns a copy of all recorded calls.
func (m *MockClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]MockCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// WriteCalls returns only the recorded Write calls.
func (m *MockClient) WriteCalls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var writes []MockCall
	for _, c := range m.calls {
		if c.Method == "Write" {
			writes = append(writes, c)
		}
	}
	return writes
}

// DistinctWriteCount returns the number of distinct write statements seen.
// Because every costgraph write is a MERGE keyed by deterministic identity,
// this equals the number of distinct nodes plus relationships the real store
// would hold.
func (m *MockClient) DistinctWriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.distinct)
}

// DistinctWritesMatching counts distinct write statements whose cypher
// contains the given substring.
func (m *MockClient) DistinctWritesMatching(match string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for key := range m.distinct {
		if strings.Contains(key, match) {
			n++
		}
	}
	return n
}

// Reset clears all recorded state.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.distinct = make(map[string]struct{})
	m.readHandlers = nil
	m.writeErr = nil
}

// statementKey builds a stable key from a cypher statement and its parameters.
func statementKey(cypher string, params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(cypher)
	for _, k := range keys {
		fmt.Fprintf(&b, "|%s=%v", k, params[k])
	}
	return b.String()
}
