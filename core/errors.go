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


package core

import "errors"

// Domain validation errors
var (
	// ErrMalformedCandidate indicates a PlaceCandidate cannot be used as a location.
	ErrMalformedCandidate = errors.New("malformed place candidate")

	// ErrMissingName indicates the candidate has no name.
	ErrMissingName = errors.New("name cannot be empty")

	// ErrMissingCoordinate indicates the candidate has no coordinate.
	ErrMissingCoordinate = errors.New("coordinate is missing")

	// ErrInvalidCoordinate indicates a coordinate is outside WGS84 bounds.
	ErrInvalidCoordinate = errors.New("coordinate out of range")

	// ErrInvalidRegion indicates a Region failed validation.
	ErrInvalidRegion = errors.New("invalid region")

	// ErrNegativeSpan indicates a region span is negative.
	ErrNegativeSpan = errors.New("region span cannot be negative")

	// ErrInvalidSavedLocation indicates a SavedLocation failed validation.
	ErrInvalidSavedLocation = errors.New("invalid saved location")

	// ErrMissingID indicates a SavedLocation has a zero UUID.
	ErrMissingID = errors.New("id cannot be empty")
)
