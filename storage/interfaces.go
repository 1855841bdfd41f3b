package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/poiesic/waypoint/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// LocationRepository provides operations for managing saved locations.
type LocationRepository interface {
	Repository

	// AddLocations validates and stores one or more saved locations.
	// Sets CreatedAt and, when zero, derives PlaceKey from name and coordinate.
	// Returns ErrDuplicateKey if the owner already saved the same place,
	// including a repeat within the same call. Nothing is stored on error.
	AddLocations(ctx context.Context, locations ...*core.SavedLocation) ([]*core.SavedLocation, error)

	// GetLocation retrieves a single saved location by ID.
	// Returns ErrNotFound if the location doesn't exist.
	GetLocation(ctx context.Context, id uuid.UUID) (*core.SavedLocation, error)

	// FindLocationByPlace returns the owner's location saved for placeKey.
	// Returns ErrNotFound if the owner has not saved that place.
	FindLocationByPlace(ctx context.Context, ownerId int64, placeKey core.ID) (*core.SavedLocation, error)

	// ListLocationsByOwner returns the owner's locations, newest first.
	// A limit <= 0 returns all of them.
	ListLocationsByOwner(ctx context.Context, ownerId int64, limit int) ([]*core.SavedLocation, error)

	// DeleteLocations removes saved locations and their indices.
	// Returns ErrNotFound if any location doesn't exist.
	DeleteLocations(ctx context.Context, ids ...uuid.UUID) error
}
