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


// Package search orchestrates location search for an interactive query box.
//
// The Orchestrator accepts every keystroke through Search and publishes a
// ranked candidate list. Its pipeline:
//   - Debounce: only the last query in a quiet window is dispatched
//   - Dispatch: a primary "nearby" point-of-interest search, with a single
//     widened fallback when the primary fails or finds nothing
//   - Ranking: prefix matches, then substring matches, then by name
//   - Suggestions: completion suggestions are resolved in the background and
//     merged by name, keeping the list free of duplicate names
//
// Provider failures never reach the consumer; they degrade to an empty list
// and are logged. Published state is read through State snapshots or a
// Subscribe channel.
package search
