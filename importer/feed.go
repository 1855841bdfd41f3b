package importer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/poiesic/waypoint/core"
)

// Entry is one location in a feed.
type Entry struct {
	UserId int64   `json:"user_id"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Name   string  `json:"name"`
}

// Location converts the entry into a SavedLocation with a fresh ID.
func (e Entry) Location() (*core.SavedLocation, error) {
	candidate := &core.PlaceCandidate{
		Name:       e.Name,
		Coordinate: &core.Coordinate{Latitude: e.Lat, Longitude: e.Lon},
	}
	return core.NewSavedLocation(candidate, e.UserId)
}

// DecodeFeed reads a JSON array of entries, one element at a time.
func DecodeFeed(r io.Reader) ([]Entry, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFeed, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("%w: expected array, got %v", ErrInvalidFeed, tok)
	}

	entries := []Entry{}
	for dec.More() {
		var entry Entry
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidFeed, len(entries), err)
		}
		entries = append(entries, entry)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFeed, err)
	}
	return entries, nil
}
