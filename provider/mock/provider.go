// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import "github.com/poiesic/waypoint/provider"

// MockProvider is a test double for provider.Provider.
// It aggregates mock search and suggestion services.
type MockProvider struct {
	searcher  *MockSearchProvider
	suggester *MockSuggester
	closed    bool
}

// NewMockProvider creates a new mock provider with empty mock services.
//
// Returns provider.Provider for consistency with production constructors.
// Use GetMockSearcher()/GetMockSuggester() to access concrete types for test assertions.
func NewMockProvider() provider.Provider {
	return &MockProvider{
		searcher:  NewMockSearchProvider(),
		suggester: NewMockSuggester(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
func NewMockProviderWithServices(searcher *MockSearchProvider, suggester *MockSuggester) provider.Provider {
	return &MockProvider{
		searcher:  searcher,
		suggester: suggester,
	}
}

// Searcher returns the mock search provider.
func (p *MockProvider) Searcher() provider.SearchProvider {
	return p.searcher
}

// Suggester returns the mock suggester.
func (p *MockProvider) Suggester() provider.Suggester {
	return p.suggester
}

// Close marks the provider closed.
func (p *MockProvider) Close() error {
	p.closed = true
	return nil
}

// Closed reports whether Close was called.
func (p *MockProvider) Closed() bool {
	return p.closed
}

// GetMockSearcher returns the underlying mock search provider for test assertions.
func (p *MockProvider) GetMockSearcher() *MockSearchProvider {
	return p.searcher
}

// GetMockSuggester returns the underlying mock suggester for test assertions.
func (p *MockProvider) GetMockSuggester() *MockSuggester {
	return p.suggester
}
