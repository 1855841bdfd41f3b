package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/waypoint/core"
	"github.com/poiesic/waypoint/provider"
)

// MockSuggester is a test double for provider.Suggester.
type MockSuggester struct {
	// SuggestFunc is called by Suggest if set.
	// If nil, returns Suggestions whose title starts with the fragment.
	SuggestFunc func(ctx context.Context, fragment string, region core.Region) ([]core.Suggestion, error)

	// Suggestions is the catalogue used by the default behavior.
	Suggestions []core.Suggestion

	mu        sync.Mutex
	fragments []string
}

var _ provider.Suggester = (*MockSuggester)(nil)

// NewMockSuggester creates a mock suggester over the given suggestions.
func NewMockSuggester(suggestions ...core.Suggestion) *MockSuggester {
	return &MockSuggester{Suggestions: suggestions}
}

// Suggest records the fragment and returns the configured suggestions.
func (m *MockSuggester) Suggest(ctx context.Context, fragment string, region core.Region) ([]core.Suggestion, error) {
	m.mu.Lock()
	m.fragments = append(m.fragments, fragment)
	fn := m.SuggestFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, fragment, region)
	}

	prefix := strings.ToLower(fragment)
	results := []core.Suggestion{}
	for _, s := range m.Suggestions {
		if strings.HasPrefix(strings.ToLower(s.Title), prefix) {
			results = append(results, s)
		}
	}
	return results, nil
}

// Fragments returns the fragments Suggest was called with, in call order.
func (m *MockSuggester) Fragments() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.fragments...)
}

// CallCount returns the number of times Suggest was called.
func (m *MockSuggester) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fragments)
}
