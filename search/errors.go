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

package search

import "errors"

var (
	// ErrSearchProviderRequired is returned when a search provider is not provided.
	ErrSearchProviderRequired = errors.New("search provider required")

	// ErrInvalidDebounceInterval is returned for a negative debounce interval.
	ErrInvalidDebounceInterval = errors.New("debounce interval cannot be negative")

	// ErrInvalidPoolSize is returned when the resolution pool size is not positive.
	ErrInvalidPoolSize = errors.New("pool size must be greater than 0")

	// ErrInvalidSearchTimeout is returned when the search timeout is not positive.
	ErrInvalidSearchTimeout = errors.New("search timeout must be positive")
)
