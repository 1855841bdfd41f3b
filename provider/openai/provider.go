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

package openai

import (
	"log/slog"

	"github.com/poiesic/waypoint/provider"
	"github.com/poiesic/waypoint/provider/nominatim"
)

// Provider implements provider.Provider with Nominatim search and
// OpenAI-compatible suggestions.
type Provider struct {
	config    *provider.Config
	searcher  provider.SearchProvider
	suggester provider.Suggester
	logger    *slog.Logger
}

// NewProvider creates a new place provider.
// The config is validated and normalized before use. When no suggestion host
// is configured the provider's suggester yields nothing.
//
// Returns provider.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to implementation details.
func NewProvider(config *provider.Config, opts ...nominatim.Option) (provider.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	searcher, err := nominatim.NewSearchProvider(config, opts...)
	if err != nil {
		return nil, err
	}

	var suggester provider.Suggester = provider.NoSuggestions{}
	if config.SuggestionsEnabled() {
		// Using internal constructor for concrete type
		s, err := newSuggester(config)
		if err != nil {
			return nil, err
		}
		suggester = s
	}

	return &Provider{
		config:    config,
		searcher:  searcher,
		suggester: suggester,
		logger:    slog.Default().With("component", "place-provider"),
	}, nil
}

// NewSearchOnlyProvider creates a provider that never produces suggestions,
// regardless of the suggestion settings in config.
func NewSearchOnlyProvider(config *provider.Config, opts ...nominatim.Option) (provider.Provider, error) {
	cfg := *config
	cfg.SuggestHost = ""
	return NewProvider(&cfg, opts...)
}

// Searcher returns the place search service.
func (p *Provider) Searcher() provider.SearchProvider {
	return p.searcher
}

// Suggester returns the completion suggestion service.
func (p *Provider) Suggester() provider.Suggester {
	return p.suggester
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing place provider")
	return nil
}
