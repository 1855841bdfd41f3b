package badger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/poiesic/waypoint/core"
	"github.com/poiesic/waypoint/storage"
)

// LocationRepository implements storage.LocationRepository for BadgerDB.
type LocationRepository struct {
	backend *Backend
	logger  *slog.Logger
	now     func() time.Time

	// mu guards lastCreated, which keeps CreatedAt strictly increasing so
	// the owner index orders locations by insertion.
	mu          sync.Mutex
	lastCreated time.Time
}

var _ storage.LocationRepository = (*LocationRepository)(nil)

// Option configures a LocationRepository.
type Option func(*LocationRepository) error

// WithLogger sets a custom logger for the repository and its database.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *LocationRepository) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithClock overrides the source of CreatedAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *LocationRepository) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		r.now = now
		return nil
	}
}

// NewLocationRepository opens (creating if needed) a database directory at
// path and returns a repository that owns it.
//
// Returns storage.LocationRepository interface (not *LocationRepository) to
// enforce abstraction and prevent coupling to implementation details.
func NewLocationRepository(path string, opts ...Option) (storage.LocationRepository, error) {
	if path == "" {
		return nil, errors.New("database path cannot be empty")
	}
	r, err := openLocationRepository(path, false, opts...)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func openLocationRepository(path string, inMemory bool, opts ...Option) (*LocationRepository, error) {
	r := &LocationRepository{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	backend, err := OpenBackend(path, inMemory, r.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	r.backend = backend
	r.logger = r.logger.With("component", "location-repository")
	return r, nil
}

// Close closes the underlying database.
func (r *LocationRepository) Close() error {
	return r.backend.Close()
}

// WithTransaction delegates to the backend.
func (r *LocationRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddLocations adds one or more saved locations to storage.
func (r *LocationRepository) AddLocations(ctx context.Context, locations ...*core.SavedLocation) ([]*core.SavedLocation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, loc := range locations {
		if err := core.ValidateSavedLocation(loc); err != nil {
			return nil, err
		}
	}

	// Callers' structs are only updated once the batch has committed.
	staged := make([]core.SavedLocation, len(locations))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		seen := make(map[string]struct{}, len(locations))
		for i := range locations {
			staged[i] = *locations[i]
			loc := &staged[i]
			if loc.PlaceKey == 0 {
				loc.PlaceKey = loc.DerivePlaceKey()
			}

			placeKey := makePlaceKey(loc.OwnerId, loc.PlaceKey)
			if _, dup := seen[string(placeKey)]; dup {
				return fmt.Errorf("%w: %q saved twice for owner %d", storage.ErrDuplicateKey, loc.Name, loc.OwnerId)
			}
			seen[string(placeKey)] = struct{}{}

			_, err := tx.Get(placeKey)
			if err == nil {
				return fmt.Errorf("%w: %q already saved for owner %d", storage.ErrDuplicateKey, loc.Name, loc.OwnerId)
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}

			key := makeLocationKey(loc.Id)
			if _, err := tx.Get(key); err == nil {
				return fmt.Errorf("%w: location %s", storage.ErrDuplicateKey, loc.Id)
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}

			loc.CreatedAt = r.nextCreatedAt()

			// Store primary record
			if err := tx.Set(key, storage.MarshalLocation(loc)); err != nil {
				return err
			}

			// Update owner and place indices
			idBytes := storage.MarshalUUID(loc.Id)
			if err := tx.Set(makeOwnerKey(loc.OwnerId, loc.CreatedAt, loc.Id), idBytes); err != nil {
				return err
			}
			if err := tx.Set(placeKey, idBytes); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	for i, loc := range locations {
		loc.PlaceKey = staged[i].PlaceKey
		loc.CreatedAt = staged[i].CreatedAt
	}
	r.logger.Debug("saved locations", "count", len(locations))
	return locations, nil
}

// GetLocation retrieves a single saved location by ID.
func (r *LocationRepository) GetLocation(ctx context.Context, id uuid.UUID) (*core.SavedLocation, error) {
	var result *core.SavedLocation
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readLocation(tx, id)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// FindLocationByPlace returns the owner's location saved for placeKey.
func (r *LocationRepository) FindLocationByPlace(ctx context.Context, ownerId int64, placeKey core.ID) (*core.SavedLocation, error) {
	var result *core.SavedLocation
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makePlaceKey(ownerId, placeKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		id, err := readIndexedID(item)
		if err != nil {
			return err
		}
		result, err = readLocation(tx, id)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListLocationsByOwner returns the owner's locations, newest first.
func (r *LocationRepository) ListLocationsByOwner(ctx context.Context, ownerId int64, limit int) ([]*core.SavedLocation, error) {
	results := []*core.SavedLocation{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent locations first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makePartialOwnerKey(ownerId, 0)
		startKey := makePartialOwnerKey(ownerId, 24)
		for i := len(prefix); i < len(startKey); i++ {
			startKey[i] = 0xff
		}

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := iter.Item()
			if !bytes.HasPrefix(item.Key(), prefix) {
				break
			}

			id, err := readIndexedID(item)
			if err != nil {
				return err
			}
			loc, err := readLocation(tx, id)
			if err != nil {
				return err
			}
			if loc == nil {
				r.logger.Warn("owner index points at missing location", "owner", ownerId, "id", id)
				continue
			}
			results = append(results, loc)
			if limit > 0 && len(results) >= limit {
				break
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// DeleteLocations removes saved locations by their IDs.
func (r *LocationRepository) DeleteLocations(ctx context.Context, ids ...uuid.UUID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			loc, err := readLocation(tx, id)
			if err != nil {
				return err
			}
			if loc == nil {
				return fmt.Errorf("%w: location %s", storage.ErrNotFound, id)
			}

			if err := tx.Delete(makeOwnerKey(loc.OwnerId, loc.CreatedAt, loc.Id)); err != nil {
				return err
			}
			if err := tx.Delete(makePlaceKey(loc.OwnerId, loc.PlaceKey)); err != nil {
				return err
			}
			if err := tx.Delete(makeLocationKey(id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// nextCreatedAt returns the current time truncated to storage precision,
// bumped past the previous value when the clock has not advanced.
func (r *LocationRepository) nextCreatedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := r.now().UTC().Truncate(time.Microsecond)
	if !ts.After(r.lastCreated) {
		ts = r.lastCreated.Add(time.Microsecond)
	}
	r.lastCreated = ts
	return ts
}

// readLocation reads a location by ID. Returns nil, nil if it doesn't exist.
func readLocation(tx *badger.Txn, id uuid.UUID) (*core.SavedLocation, error) {
	item, err := tx.Get(makeLocationKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var loc *core.SavedLocation
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		loc, unmarshalErr = storage.UnmarshalLocation(val)
		return unmarshalErr
	})
	return loc, err
}

func readIndexedID(item *badger.Item) (uuid.UUID, error) {
	var id uuid.UUID
	err := item.Value(func(val []byte) error {
		var err error
		id, err = storage.UnmarshalUUID(val)
		return err
	})
	return id, err
}
