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


// Package provider defines the place search capabilities consumed by the
// search orchestrator.
//
// The package is designed around three interfaces:
//
//   - SearchProvider: Resolves a natural-language query within a region into
//     place candidates, filtered by result category
//   - Suggester: Produces ranked partial-match suggestions for a query fragment
//   - Provider: Aggregates both services for convenient initialization
//
// # Implementation Packages
//
//   - provider/nominatim: SearchProvider backed by an OSM Nominatim endpoint
//   - provider/openai: Suggester backed by an OpenAI-compatible chat API, and
//     the production Provider that pairs it with nominatim
//   - provider/mock: Test doubles for unit testing without network access
//
// # Constructor Return Type Pattern
//
// Public production constructors return interface types. Mock constructors
// return concrete types so tests can inject behavior and inspect calls:
//
//	search := mock.NewMockSearchProvider()
//	search.SearchFunc = func(ctx context.Context, req provider.SearchRequest) ([]*core.PlaceCandidate, error) {
//	    return nil, nil
//	}
//	calls := search.Calls()
//
// # Errors
//
// Providers report transport failures as errors and "nothing found" as an
// empty slice with a nil error. Callers decide whether either is fatal; the
// search orchestrator treats both as recoverable.
package provider
