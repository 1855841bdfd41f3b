package importer

import (
	"strings"
	"testing"

	"github.com/poiesic/waypoint/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFeed(t *testing.T) {
	t.Run("entries", func(t *testing.T) {
		feed := `[
			{"user_id": 1, "lat": 40.7580, "lon": -73.9855, "name": "Times Square"},
			{"user_id": 2, "lat": 40.7484, "lon": -73.9857, "name": "Empire State Building", "extra": true}
		]`
		entries, err := DecodeFeed(strings.NewReader(feed))
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, Entry{UserId: 1, Lat: 40.7580, Lon: -73.9855, Name: "Times Square"}, entries[0])
		assert.Equal(t, "Empire State Building", entries[1].Name)
	})

	t.Run("empty array", func(t *testing.T) {
		entries, err := DecodeFeed(strings.NewReader(`[]`))
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	tests := []struct {
		name string
		feed string
	}{
		{"empty input", ``},
		{"object instead of array", `{"user_id": 1}`},
		{"bad entry", `[{"user_id": "one"}]`},
		{"unterminated array", `[{"user_id": 1, "lat": 1, "lon": 1, "name": "x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFeed(strings.NewReader(tt.feed))
			assert.ErrorIs(t, err, ErrInvalidFeed)
		})
	}
}

func TestEntry_Location(t *testing.T) {
	loc, err := Entry{UserId: 5, Lat: 48.8584, Lon: 2.2945, Name: "Eiffel Tower"}.Location()
	require.NoError(t, err)
	assert.Equal(t, int64(5), loc.OwnerId)
	assert.Equal(t, "Eiffel Tower", loc.Name)
	assert.Equal(t, 48.8584, loc.Latitude)
	assert.NotZero(t, loc.PlaceKey)

	_, err = Entry{UserId: 5, Lat: 120, Lon: 0, Name: "Off the map"}.Location()
	assert.ErrorIs(t, err, core.ErrInvalidCoordinate)

	_, err = Entry{UserId: 5, Lat: 1, Lon: 1}.Location()
	assert.ErrorIs(t, err, core.ErrMissingName)
}
