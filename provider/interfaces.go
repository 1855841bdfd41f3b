package provider

import (
	"context"

	"github.com/poiesic/waypoint/core"
)

// SearchRequest describes a single place search.
type SearchRequest struct {
	// Query is a natural-language phrase, e.g. "nearby pizza".
	Query string

	// Region biases (and for some providers bounds) the search area.
	Region core.Region

	// ResultTypes restricts the categories of returned places.
	ResultTypes core.ResultType
}

// SearchProvider resolves search requests into place candidates.
// Implementations must be thread-safe for concurrent use.
type SearchProvider interface {
	// Search returns the candidates matching the request, in provider order.
	// An empty result is reported as an empty slice and a nil error.
	// Returns an error if the request failed at the transport or provider level.
	Search(ctx context.Context, req SearchRequest) ([]*core.PlaceCandidate, error)
}

// Suggester produces partial-match suggestions for an evolving query fragment.
// Implementations must be thread-safe for concurrent use.
type Suggester interface {
	// Suggest returns ranked suggestions for the fragment within the region,
	// best first. Each suggestion can be resolved with SearchProvider.Search
	// using Suggestion.Query().
	Suggest(ctx context.Context, fragment string, region core.Region) ([]core.Suggestion, error)
}

// Provider aggregates place services for convenient initialization and lifecycle management.
type Provider interface {
	// Searcher returns the place search service.
	Searcher() SearchProvider

	// Suggester returns the completion suggestion service.
	Suggester() Suggester

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}

// NoSuggestions is a Suggester that never suggests anything.
type NoSuggestions struct{}

var _ Suggester = NoSuggestions{}

// Suggest always returns an empty slice.
func (NoSuggestions) Suggest(_ context.Context, _ string, _ core.Region) ([]core.Suggestion, error) {
	return []core.Suggestion{}, nil
}
