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


package provider

import (
	"errors"
	"strings"
	"time"
)

// DefaultMaxSuggestions is the number of completion suggestions resolved per update.
const DefaultMaxSuggestions = 5

// Config holds configuration for place service providers.
type Config struct {
	// SearchHost is the Nominatim search endpoint.
	// Example: "https://nominatim.openstreetmap.org/search"
	SearchHost string

	// UserAgent identifies the application to the search service.
	// The public Nominatim usage policy requires a meaningful value.
	UserAgent string

	// RequestsPerSecond caps the rate of search requests.
	// Default: 1 (public Nominatim policy)
	RequestsPerSecond int

	// MaxRetries is the number of attempts for rate-limited or 5xx responses.
	// Default: 3
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff between attempts.
	RetryDelay time.Duration

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// SuggestHost is the base URL of an OpenAI-compatible chat API used for
	// completion suggestions. Empty disables suggestions.
	// Example: "http://localhost:11434/v1"
	SuggestHost string

	// SuggestModel is the chat model identifier used for suggestions.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	SuggestModel string

	// SuggestToken is the API token for the suggestion service.
	// Local OpenAI-compatible servers accept any value.
	SuggestToken string

	// MaxSuggestions caps the suggestions returned per fragment.
	// Default: 5
	MaxSuggestions int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithSearchHost sets the Nominatim search endpoint.
func WithSearchHost(host string) ConfigOption {
	return func(c *Config) {
		c.SearchHost = host
	}
}

// WithUserAgent sets the User-Agent sent to the search service.
func WithUserAgent(agent string) ConfigOption {
	return func(c *Config) {
		c.UserAgent = agent
	}
}

// WithRequestsPerSecond sets the search request rate limit.
func WithRequestsPerSecond(rps int) ConfigOption {
	return func(c *Config) {
		c.RequestsPerSecond = rps
	}
}

// WithRetries sets the retry attempts and base backoff delay.
func WithRetries(maxRetries int, delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = maxRetries
		c.RetryDelay = delay
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithSuggestHost sets the suggestion service host URL.
func WithSuggestHost(host string) ConfigOption {
	return func(c *Config) {
		c.SuggestHost = host
	}
}

// WithSuggestModel sets the suggestion model identifier.
func WithSuggestModel(model string) ConfigOption {
	return func(c *Config) {
		c.SuggestModel = model
	}
}

// WithSuggestToken sets the suggestion service API token.
func WithSuggestToken(token string) ConfigOption {
	return func(c *Config) {
		c.SuggestToken = token
	}
}

// WithMaxSuggestions sets the maximum number of suggestions per fragment.
func WithMaxSuggestions(n int) ConfigOption {
	return func(c *Config) {
		c.MaxSuggestions = n
	}
}

// DefaultConfig returns a Config targeting the public Nominatim service with
// suggestions disabled.
func DefaultConfig() *Config {
	return &Config{
		SearchHost:        "https://nominatim.openstreetmap.org/search",
		UserAgent:         "waypoint/1.0",
		RequestsPerSecond: 1,
		MaxRetries:        3,
		RetryDelay:        500 * time.Millisecond,
		Timeout:           5 * time.Second,
		SuggestToken:      "none",
		MaxSuggestions:    DefaultMaxSuggestions,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithUserAgent("my-app/2.1 (ops@example.com)"),
//	    WithSuggestHost("http://localhost:11434/v1"),
//	    WithSuggestModel("qwen2.5:3b"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// SuggestionsEnabled reports whether a suggestion service is configured.
func (c *Config) SuggestionsEnabled() bool {
	return c.SuggestHost != ""
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to the suggestion host if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.SearchHost = strings.TrimSpace(c.SearchHost)
	if c.SuggestHost != "" && !strings.HasSuffix(c.SuggestHost, "/v1") {
		c.SuggestHost = strings.TrimSuffix(c.SuggestHost, "/")
		c.SuggestHost = c.SuggestHost + "/v1"
	}
	if c.SuggestToken == "" {
		c.SuggestToken = "none"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.SearchHost == "" {
		return errors.New("provider config: SearchHost is required")
	}
	if c.UserAgent == "" {
		return errors.New("provider config: UserAgent is required")
	}
	if c.RequestsPerSecond <= 0 {
		return errors.New("provider config: RequestsPerSecond must be a positive number")
	}
	if c.MaxRetries <= 0 {
		return errors.New("provider config: MaxRetries must be a positive number")
	}
	if c.RetryDelay < 0 {
		return errors.New("provider config: RetryDelay cannot be negative")
	}
	if c.Timeout <= 0 {
		return errors.New("provider config: Timeout must be positive")
	}
	if c.SuggestionsEnabled() && c.SuggestModel == "" {
		return errors.New("provider config: SuggestModel is required when SuggestHost is set")
	}
	if c.MaxSuggestions < 1 || c.MaxSuggestions > 10 {
		return errors.New("provider config: MaxSuggestions must be between 1 and 10")
	}
	return nil
}
