// Package mock provides test double implementations of provider interfaces.
//
// This package contains mock implementations of provider.SearchProvider,
// provider.Suggester, and provider.Provider for use in unit tests. The mocks
// allow tests to run without network access and enable controlled,
// deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	p := mock.NewMockProvider()
//	candidates, err := p.Searcher().Search(ctx, provider.SearchRequest{Query: "pizza"})
//
//	// Custom behavior injection
//	search := mock.NewMockSearchProvider()
//	search.SearchFunc = func(ctx context.Context, req provider.SearchRequest) ([]*core.PlaceCandidate, error) {
//	    return nil, errors.New("offline")
//	}
//
//	// Inspect recorded requests
//	calls := search.Calls()
//
// # Default Behavior
//
//   - MockSearchProvider: Returns candidates from Places whose name contains the
//     query (case-insensitive, with a leading "nearby " removed)
//   - MockSuggester: Returns Suggestions whose title starts with the fragment
//   - MockProvider: Aggregates a mock search provider and suggester
//
// All mocks are safe for concurrent use.
package mock
