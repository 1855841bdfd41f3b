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

// Package storage provides the storage abstraction layer for waypoint.
//
// This package defines repository interfaces that decouple persistence of
// saved locations from the search pipeline. Backends live in subpackages.
//
// # Constructor Return Type Pattern
//
// Public constructors return interfaces, not concrete types:
//
//	repo, err := badger.NewLocationRepository(path)  // returns storage.LocationRepository
//
// Internal constructors (newLocationRepository, openBackend) may return
// concrete types since they're only used within the implementation package.
//
// # Records
//
// Saved locations are encoded with mus-go. Every encoded record starts with a
// format version so older data can be detected on read.
//
// Each owner may save a given place once. A place is identified by
// core.SavedLocation.PlaceKey, which is derived from the name and the
// coordinate when the caller leaves it zero.
//
// # Usage
//
//	repo, err := badger.NewLocationRepository("/path/to/db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
//	saved, err := repo.AddLocations(ctx, loc)
//	if errors.Is(err, storage.ErrDuplicateKey) {
//	    // already saved by this owner
//	}
//
// Use in tests with in-memory storage:
//
//	repo, err := badger.NewMemoryRepository()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
