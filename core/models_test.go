package core

import (
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same ID", content: "Blue Bottle Coffee@37.776500,-122.423000"},
		{name: "empty string", content: ""},
		{name: "unicode content", content: "Café de Flore@48.854000,2.332600"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestAddress_Line(t *testing.T) {
	tests := []struct {
		name    string
		address Address
		want    string
	}{
		{
			name:    "all fields",
			address: Address{Street: "1 Market St", Locality: "San Francisco", Region: "CA"},
			want:    "1 Market St, San Francisco, CA",
		},
		{
			name:    "missing street",
			address: Address{Locality: "San Francisco", Region: "CA"},
			want:    "San Francisco, CA",
		},
		{
			name:    "only region",
			address: Address{Region: "CA"},
			want:    "CA",
		},
		{
			name:    "empty",
			address: Address{},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.address.Line(); got != tt.want {
				t.Errorf("Address.Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResultType(t *testing.T) {
	both := ResultTypePointOfInterest | ResultTypeAddress

	if !both.Has(ResultTypePointOfInterest) || !both.Has(ResultTypeAddress) {
		t.Errorf("combined result type should contain both categories")
	}
	if ResultTypePointOfInterest.Has(ResultTypeAddress) {
		t.Errorf("poi-only result type should not contain address")
	}
	if got := both.String(); got != "poi+address" {
		t.Errorf("String() = %q, want %q", got, "poi+address")
	}
	if got := ResultTypePointOfInterest.String(); got != "poi" {
		t.Errorf("String() = %q, want %q", got, "poi")
	}
	if got := ResultType(0).String(); got != "none" {
		t.Errorf("String() = %q, want %q", got, "none")
	}
}

func TestRegion_Bounds(t *testing.T) {
	r := Region{
		Center:         Coordinate{Latitude: 10, Longitude: 20},
		LatitudeDelta:  2,
		LongitudeDelta: 4,
	}
	sw, ne := r.Bounds()
	if sw.Latitude != 9 || sw.Longitude != 18 {
		t.Errorf("south-west = %+v, want (9, 18)", sw)
	}
	if ne.Latitude != 11 || ne.Longitude != 22 {
		t.Errorf("north-east = %+v, want (11, 22)", ne)
	}

	t.Run("clamped at the poles", func(t *testing.T) {
		r := Region{Center: Coordinate{Latitude: 89.5, Longitude: 179.5}, LatitudeDelta: 4, LongitudeDelta: 4}
		_, ne := r.Bounds()
		if ne.Latitude != 90 || ne.Longitude != 180 {
			t.Errorf("north-east = %+v, want (90, 180)", ne)
		}
	})
}

func TestPlaceCandidate_PlaceKey(t *testing.T) {
	a := &PlaceCandidate{Name: "Cafe A", Coordinate: &Coordinate{Latitude: 1.0000001, Longitude: 2}}
	b := &PlaceCandidate{Name: "Cafe A", Coordinate: &Coordinate{Latitude: 1.0000002, Longitude: 2}}
	c := &PlaceCandidate{Name: "Cafe A", Coordinate: &Coordinate{Latitude: 1.1, Longitude: 2}}

	if a.PlaceKey() != b.PlaceKey() {
		t.Errorf("coordinates equal to six decimals should share a key")
	}
	if a.PlaceKey() == c.PlaceKey() {
		t.Errorf("different coordinates should produce different keys")
	}
}

func TestPlaceCandidate_DisplayName(t *testing.T) {
	var nilCandidate *PlaceCandidate
	if got := nilCandidate.DisplayName(); got != "" {
		t.Errorf("nil candidate DisplayName() = %q, want empty", got)
	}
	if got := (&PlaceCandidate{Name: "Pizza Hut"}).DisplayName(); got != "Pizza Hut" {
		t.Errorf("DisplayName() = %q, want %q", got, "Pizza Hut")
	}
}

func TestNewSavedLocation(t *testing.T) {
	coord := &Coordinate{Latitude: 40.7128, Longitude: -74.006}

	t.Run("maps name and coordinate", func(t *testing.T) {
		candidate := &PlaceCandidate{Name: "Joe's Pizza", Coordinate: coord}
		loc, err := NewSavedLocation(candidate, 42)
		if err != nil {
			t.Fatalf("NewSavedLocation() error = %v", err)
		}
		if loc.Id == uuid.Nil {
			t.Errorf("expected a generated ID")
		}
		if loc.OwnerId != 42 || loc.Name != "Joe's Pizza" {
			t.Errorf("unexpected mapping: %+v", loc)
		}
		if loc.Latitude != coord.Latitude || loc.Longitude != coord.Longitude {
			t.Errorf("coordinate not copied: %+v", loc)
		}
		if loc.PlaceKey != candidate.PlaceKey() {
			t.Errorf("place key not copied")
		}
		if loc.DerivePlaceKey() != loc.PlaceKey {
			t.Errorf("DerivePlaceKey() disagrees with candidate key")
		}
	})

	t.Run("each call generates a new ID", func(t *testing.T) {
		candidate := &PlaceCandidate{Name: "Joe's Pizza", Coordinate: coord}
		a, _ := NewSavedLocation(candidate, 1)
		b, _ := NewSavedLocation(candidate, 1)
		if a.Id == b.Id {
			t.Errorf("expected distinct IDs")
		}
	})

	t.Run("missing name", func(t *testing.T) {
		loc, err := NewSavedLocation(&PlaceCandidate{Coordinate: coord}, 1)
		if loc != nil {
			t.Errorf("expected nil location")
		}
		if !errors.Is(err, ErrMissingName) || !errors.Is(err, ErrMalformedCandidate) {
			t.Errorf("error = %v, want ErrMissingName wrapped in ErrMalformedCandidate", err)
		}
	})

	t.Run("missing coordinate", func(t *testing.T) {
		loc, err := NewSavedLocation(&PlaceCandidate{Name: "Nowhere"}, 1)
		if loc != nil {
			t.Errorf("expected nil location")
		}
		if !errors.Is(err, ErrMissingCoordinate) {
			t.Errorf("error = %v, want ErrMissingCoordinate", err)
		}
	})

	t.Run("nil candidate", func(t *testing.T) {
		loc, err := NewSavedLocation(nil, 1)
		if loc != nil || !errors.Is(err, ErrMalformedCandidate) {
			t.Errorf("got (%v, %v), want (nil, ErrMalformedCandidate)", loc, err)
		}
	})
}

func TestSuggestion_Query(t *testing.T) {
	if got := (Suggestion{Title: "Blue Bottle"}).Query(); got != "Blue Bottle" {
		t.Errorf("Query() = %q", got)
	}
	if got := (Suggestion{Title: "Blue Bottle", Subtitle: "Oakland, CA"}).Query(); got != "Blue Bottle, Oakland, CA" {
		t.Errorf("Query() = %q", got)
	}
}

func TestCoordinate_Valid(t *testing.T) {
	tests := []struct {
		name  string
		coord Coordinate
		want  bool
	}{
		{"origin", Coordinate{}, true},
		{"bounds", Coordinate{Latitude: -90, Longitude: 180}, true},
		{"latitude too large", Coordinate{Latitude: 90.01}, false},
		{"longitude too small", Coordinate{Longitude: -180.5}, false},
		{"nan", Coordinate{Latitude: math.NaN()}, false},
		{"inf", Coordinate{Longitude: math.Inf(1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.coord.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
