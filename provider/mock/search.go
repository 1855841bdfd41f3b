package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/waypoint/core"
	"github.com/poiesic/waypoint/provider"
)

// MockSearchProvider is a test double for provider.SearchProvider.
// It allows custom behavior injection via function fields.
type MockSearchProvider struct {
	// SearchFunc is called by Search if set.
	// If nil, filters Places by the request query.
	SearchFunc func(ctx context.Context, req provider.SearchRequest) ([]*core.PlaceCandidate, error)

	// Places is the catalogue used by the default behavior.
	Places []*core.PlaceCandidate

	mu    sync.Mutex
	calls []provider.SearchRequest
}

var _ provider.SearchProvider = (*MockSearchProvider)(nil)

// NewMockSearchProvider creates a mock search provider over the given places.
func NewMockSearchProvider(places ...*core.PlaceCandidate) *MockSearchProvider {
	return &MockSearchProvider{Places: places}
}

// Search records the request and returns the configured result.
func (m *MockSearchProvider) Search(ctx context.Context, req provider.SearchRequest) ([]*core.PlaceCandidate, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	fn := m.SearchFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}

	query := strings.ToLower(strings.TrimPrefix(req.Query, "nearby "))
	results := []*core.PlaceCandidate{}
	for _, p := range m.Places {
		if strings.Contains(strings.ToLower(p.Name), query) {
			results = append(results, p)
		}
	}
	return results, nil
}

// Calls returns a copy of the recorded requests in call order.
func (m *MockSearchProvider) Calls() []provider.SearchRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]provider.SearchRequest(nil), m.calls...)
}

// CallCount returns the number of times Search was called.
func (m *MockSearchProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Reset clears recorded calls and the custom function.
func (m *MockSearchProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.SearchFunc = nil
}
