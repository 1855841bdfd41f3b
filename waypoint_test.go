package waypoint

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/waypoint/core"
	"github.com/poiesic/waypoint/provider"
	"github.com/poiesic/waypoint/provider/mock"
	"github.com/poiesic/waypoint/search"
	"github.com/poiesic/waypoint/storage"
	"github.com/poiesic/waypoint/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

var region = core.Region{
	Center:         core.Coordinate{Latitude: 40.7580, Longitude: -73.9855},
	LatitudeDelta:  0.05,
	LongitudeDelta: 0.05,
}

func pizzaPlaces() *mock.MockSearchProvider {
	return mock.NewMockSearchProvider(
		&core.PlaceCandidate{Name: "Joe's Pizza", Coordinate: &core.Coordinate{Latitude: 40.7306, Longitude: -74.0023}},
		&core.PlaceCandidate{Name: "Pizza Suprema", Coordinate: &core.Coordinate{Latitude: 40.7502, Longitude: -73.9947}},
	)
}

func newTestEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	opts = append([]EngineOption{InMemory()}, opts...)
	e, err := Open("", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestOpen(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "test_db")
		e, err := Open(dir, WithProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		defer e.Close()

		assert.NotNil(t, e.Repository())
		assert.NotNil(t, e.monitor)
	})

	t.Run("builds the default provider", func(t *testing.T) {
		e, err := Open("", InMemory())
		require.NoError(t, err)
		defer e.Close()
		assert.IsType(t, provider.NoSuggestions{}, e.provider.Suggester())
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

		e, err := Open(tmpFile, WithProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, e)
	})

	t.Run("error with invalid provider config", func(t *testing.T) {
		cfg := provider.DefaultConfig()
		cfg.SearchHost = ""
		_, err := Open("", InMemory(), WithProviderConfig(cfg))
		assert.Error(t, err)
	})
}

func TestEngine_Close(t *testing.T) {
	p := mock.NewMockProvider()
	e, err := Open("", InMemory(), WithProvider(p))
	require.NoError(t, err)

	require.NoError(t, e.Close())
	assert.True(t, p.(*mock.MockProvider).Closed())
}

func TestEngine_NewOrchestrator(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	e := newTestEngine(t,
		WithProvider(mock.NewMockProviderWithServices(pizzaPlaces(), mock.NewMockSuggester())),
		WithMeterProvider(mp))

	o, err := e.NewOrchestrator(search.WithDebounceInterval(10 * time.Millisecond))
	require.NoError(t, err)
	defer o.Close()

	o.Search("pizza", region)
	require.Eventually(t, func() bool {
		s := o.State()
		return !s.IsSearching && len(s.Candidates) == 2
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"Pizza Suprema", "Joe's Pizza"}, o.State().Names())

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	names := []string{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names = append(names, m.Name)
		}
	}
	assert.Contains(t, names, telemetry.QueriesMetric)
	assert.Contains(t, names, telemetry.RoundsMetric)
}

func TestEngine_SavedLocations(t *testing.T) {
	e := newTestEngine(t, WithProvider(mock.NewMockProvider()))
	ctx := context.Background()

	candidate := &core.PlaceCandidate{
		Name:       "Joe's Pizza",
		Coordinate: &core.Coordinate{Latitude: 40.7306, Longitude: -74.0023},
	}

	saved, err := e.SaveCandidate(ctx, candidate, 1)
	require.NoError(t, err)
	assert.Equal(t, "Joe's Pizza", saved.Name)
	assert.False(t, saved.CreatedAt.IsZero())

	_, err = e.SaveCandidate(ctx, candidate, 1)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	_, err = e.SaveCandidate(ctx, &core.PlaceCandidate{Name: "No coordinate"}, 1)
	assert.ErrorIs(t, err, core.ErrMalformedCandidate)

	locs, err := e.Locations(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, saved.Id, locs[0].Id)

	require.NoError(t, e.DeleteLocation(ctx, saved.Id))
	locs, err = e.Locations(ctx, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, locs)
}

func TestEngine_Import(t *testing.T) {
	e := newTestEngine(t, WithProvider(mock.NewMockProvider()))
	ctx := context.Background()

	feed := `[{"user_id": 4, "lat": 40.7580, "lon": -73.9855, "name": "Times Square"}]`
	result, err := e.Import(ctx, strings.NewReader(feed), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	locs, err := e.Locations(ctx, 4, 0)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "Times Square", locs[0].Name)

	_, err = e.Import(ctx, nil, nil, nil)
	assert.Error(t, err)
}
