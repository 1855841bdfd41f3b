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

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidateCandidate checks that a candidate can be turned into a SavedLocation.
//
// Validation rules:
//   - Name must not be empty
//   - Coordinate must be present and within bounds
//
// Address and Category are informational and not validated.
func ValidateCandidate(candidate *PlaceCandidate) error {
	if candidate == nil {
		return fmt.Errorf("%w: candidate is nil", ErrMalformedCandidate)
	}

	if candidate.Name == "" {
		return fmt.Errorf("%w: %w", ErrMalformedCandidate, ErrMissingName)
	}

	if candidate.Coordinate == nil {
		return fmt.Errorf("%w: %w", ErrMalformedCandidate, ErrMissingCoordinate)
	}

	if err := ValidateCoordinate(*candidate.Coordinate); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedCandidate, err)
	}

	return nil
}

// ValidateCoordinate checks that a coordinate is finite and within bounds.
func ValidateCoordinate(c Coordinate) error {
	if !c.Valid() {
		return fmt.Errorf("%w: (%f, %f)", ErrInvalidCoordinate, c.Latitude, c.Longitude)
	}
	return nil
}

// ValidateRegion checks that a region has a valid center and non-negative spans.
// A zero span is allowed and means "no bias beyond the center".
func ValidateRegion(r Region) error {
	if err := ValidateCoordinate(r.Center); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRegion, err)
	}
	if r.LatitudeDelta < 0 || r.LongitudeDelta < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRegion, ErrNegativeSpan)
	}
	return nil
}

// ValidateSavedLocation validates a SavedLocation before it is persisted.
//
// Validation rules:
//   - Id must not be the zero UUID
//   - Name must not be empty
//   - Latitude/Longitude must be within bounds
//
// NOT validated:
//   - OwnerId (0 is the anonymous owner)
//   - CreatedAt (set by storage)
func ValidateSavedLocation(loc *SavedLocation) error {
	if loc == nil {
		return fmt.Errorf("%w: location is nil", ErrInvalidSavedLocation)
	}

	if loc.Id == uuid.Nil {
		return fmt.Errorf("%w: %w", ErrInvalidSavedLocation, ErrMissingID)
	}

	if loc.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSavedLocation, ErrMissingName)
	}

	if err := ValidateCoordinate(loc.Coordinate()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSavedLocation, err)
	}

	return nil
}
