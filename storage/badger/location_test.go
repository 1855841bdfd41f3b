package badger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/waypoint/core"
	"github.com/poiesic/waypoint/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T, opts ...Option) storage.LocationRepository {
	t.Helper()
	repo, err := NewMemoryRepository(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newLocation(owner int64, name string, lat, lon float64) *core.SavedLocation {
	return &core.SavedLocation{
		Id:        uuid.New(),
		OwnerId:   owner,
		Latitude:  lat,
		Longitude: lon,
		Name:      name,
	}
}

// fixedClock always reports the same instant.
func fixedClock() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestLocationBasics(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	loc := newLocation(1, "Ferry Building", 37.7955, -122.3937)
	added, err := repo.AddLocations(ctx, loc)
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.False(t, added[0].CreatedAt.IsZero())
	assert.Equal(t, loc.DerivePlaceKey(), added[0].PlaceKey)

	got, err := repo.GetLocation(ctx, loc.Id)
	require.NoError(t, err)
	assert.Equal(t, "Ferry Building", got.Name)
	assert.Equal(t, int64(1), got.OwnerId)
	assert.Equal(t, 37.7955, got.Latitude)
	assert.Equal(t, -122.3937, got.Longitude)
	assert.True(t, loc.CreatedAt.Equal(got.CreatedAt))
}

func TestGetLocation_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.GetLocation(context.Background(), uuid.New())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAddLocations_Validation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	valid := newLocation(1, "Valid", 10, 10)
	invalid := newLocation(1, "", 10, 10)

	_, err := repo.AddLocations(ctx, valid, invalid)
	assert.ErrorIs(t, err, core.ErrInvalidSavedLocation)
	assert.ErrorIs(t, err, core.ErrMissingName)

	// Nothing from the rejected batch is stored
	_, err = repo.GetLocation(ctx, valid.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAddLocations_KeepsExplicitPlaceKey(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	loc := newLocation(1, "Dolores Park", 37.7596, -122.4269)
	loc.PlaceKey = core.ID(99)
	_, err := repo.AddLocations(ctx, loc)
	require.NoError(t, err)

	found, err := repo.FindLocationByPlace(ctx, 1, core.ID(99))
	require.NoError(t, err)
	assert.Equal(t, loc.Id, found.Id)
}

func TestAddLocations_Duplicates(t *testing.T) {
	ctx := context.Background()

	t.Run("same place for same owner", func(t *testing.T) {
		repo := newTestRepo(t)
		_, err := repo.AddLocations(ctx, newLocation(1, "Tartine", 37.7614, -122.4241))
		require.NoError(t, err)

		_, err = repo.AddLocations(ctx, newLocation(1, "Tartine", 37.7614, -122.4241))
		assert.ErrorIs(t, err, storage.ErrDuplicateKey)
	})

	t.Run("same place within one batch", func(t *testing.T) {
		repo := newTestRepo(t)
		a := newLocation(1, "Tartine", 37.7614, -122.4241)
		b := newLocation(1, "Tartine", 37.7614, -122.4241)

		_, err := repo.AddLocations(ctx, a, b)
		assert.ErrorIs(t, err, storage.ErrDuplicateKey)

		_, err = repo.GetLocation(ctx, a.Id)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("failed batch leaves callers' locations untouched", func(t *testing.T) {
		repo := newTestRepo(t)
		_, err := repo.AddLocations(ctx, newLocation(1, "Tartine", 37.7614, -122.4241))
		require.NoError(t, err)

		fresh := newLocation(1, "Dolores Park", 37.7596, -122.4269)
		dup := newLocation(1, "Tartine", 37.7614, -122.4241)
		_, err = repo.AddLocations(ctx, fresh, dup)
		require.ErrorIs(t, err, storage.ErrDuplicateKey)

		for _, loc := range []*core.SavedLocation{fresh, dup} {
			assert.True(t, loc.CreatedAt.IsZero(), loc.Name)
			assert.Zero(t, loc.PlaceKey, loc.Name)
		}

		saved, err := repo.AddLocations(ctx, fresh)
		require.NoError(t, err)
		assert.False(t, saved[0].CreatedAt.IsZero())
		assert.Equal(t, fresh.DerivePlaceKey(), saved[0].PlaceKey)
	})

	t.Run("same place for different owners", func(t *testing.T) {
		repo := newTestRepo(t)
		_, err := repo.AddLocations(ctx,
			newLocation(1, "Tartine", 37.7614, -122.4241),
			newLocation(2, "Tartine", 37.7614, -122.4241),
		)
		assert.NoError(t, err)
	})

	t.Run("same name at a different coordinate", func(t *testing.T) {
		repo := newTestRepo(t)
		_, err := repo.AddLocations(ctx,
			newLocation(1, "Starbucks", 37.7614, -122.4241),
			newLocation(1, "Starbucks", 37.7800, -122.4100),
		)
		assert.NoError(t, err)
	})

	t.Run("same id", func(t *testing.T) {
		repo := newTestRepo(t)
		loc := newLocation(1, "Mission Dolores", 37.7642, -122.4270)
		_, err := repo.AddLocations(ctx, loc)
		require.NoError(t, err)

		again := newLocation(1, "Elsewhere", 1, 1)
		again.Id = loc.Id
		_, err = repo.AddLocations(ctx, again)
		assert.ErrorIs(t, err, storage.ErrDuplicateKey)
	})
}

func TestListLocationsByOwner(t *testing.T) {
	// A frozen clock still yields strictly increasing timestamps.
	repo := newTestRepo(t, WithClock(fixedClock))
	ctx := context.Background()

	names := []string{"First", "Second", "Third", "Fourth"}
	for i, name := range names {
		_, err := repo.AddLocations(ctx, newLocation(7, name, float64(i), float64(i)))
		require.NoError(t, err)
	}
	_, err := repo.AddLocations(ctx, newLocation(8, "Other owner", 1, 1))
	require.NoError(t, err)
	_, err = repo.AddLocations(ctx, newLocation(-7, "Negative owner", 1, 1))
	require.NoError(t, err)

	t.Run("newest first", func(t *testing.T) {
		locs, err := repo.ListLocationsByOwner(ctx, 7, 0)
		require.NoError(t, err)
		require.Len(t, locs, 4)
		assert.Equal(t, "Fourth", locs[0].Name)
		assert.Equal(t, "First", locs[3].Name)
		assert.True(t, locs[0].CreatedAt.After(locs[1].CreatedAt))
	})

	t.Run("limit", func(t *testing.T) {
		locs, err := repo.ListLocationsByOwner(ctx, 7, 2)
		require.NoError(t, err)
		require.Len(t, locs, 2)
		assert.Equal(t, "Fourth", locs[0].Name)
		assert.Equal(t, "Third", locs[1].Name)
	})

	t.Run("owners are isolated", func(t *testing.T) {
		locs, err := repo.ListLocationsByOwner(ctx, 8, 0)
		require.NoError(t, err)
		require.Len(t, locs, 1)
		assert.Equal(t, "Other owner", locs[0].Name)

		locs, err = repo.ListLocationsByOwner(ctx, -7, 0)
		require.NoError(t, err)
		require.Len(t, locs, 1)
		assert.Equal(t, "Negative owner", locs[0].Name)
	})

	t.Run("unknown owner", func(t *testing.T) {
		locs, err := repo.ListLocationsByOwner(ctx, 99, 0)
		require.NoError(t, err)
		assert.Empty(t, locs)
		assert.NotNil(t, locs)
	})
}

func TestDeleteLocations(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	keep := newLocation(1, "Keep", 1, 1)
	drop := newLocation(1, "Drop", 2, 2)
	_, err := repo.AddLocations(ctx, keep, drop)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteLocations(ctx, drop.Id))

	_, err = repo.GetLocation(ctx, drop.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = repo.FindLocationByPlace(ctx, 1, drop.PlaceKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	locs, err := repo.ListLocationsByOwner(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, keep.Id, locs[0].Id)

	// The place can be saved again once deleted
	_, err = repo.AddLocations(ctx, newLocation(1, "Drop", 2, 2))
	assert.NoError(t, err)

	err = repo.DeleteLocations(ctx, uuid.New())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAddLocations_Concurrent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.AddLocations(ctx, newLocation(1, "Spot", float64(i), 0))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	locs, err := repo.ListLocationsByOwner(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, locs, 20)
}

func TestAddLocations_CancelledContext(t *testing.T) {
	repo := newTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.AddLocations(ctx, newLocation(1, "Late", 1, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewLocationRepository(t *testing.T) {
	t.Run("persists across reopen", func(t *testing.T) {
		dir := t.TempDir()
		ctx := context.Background()

		repo, err := NewLocationRepository(dir)
		require.NoError(t, err)
		loc := newLocation(3, "Coit Tower", 37.8024, -122.4058)
		_, err = repo.AddLocations(ctx, loc)
		require.NoError(t, err)
		require.NoError(t, repo.Close())

		repo, err = NewLocationRepository(dir)
		require.NoError(t, err)
		defer repo.Close()
		got, err := repo.GetLocation(ctx, loc.Id)
		require.NoError(t, err)
		assert.Equal(t, "Coit Tower", got.Name)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := NewLocationRepository("")
		assert.Error(t, err)
	})

	t.Run("nil clock", func(t *testing.T) {
		_, err := NewMemoryRepository(WithClock(nil))
		assert.Error(t, err)
	})

	t.Run("closed repository", func(t *testing.T) {
		repo, err := NewMemoryRepository()
		require.NoError(t, err)
		require.NoError(t, repo.Close())
		_, err = repo.GetLocation(context.Background(), uuid.New())
		assert.ErrorIs(t, err, storage.ErrStorageClosed)
	})
}
