package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// ID is a content-derived identifier for places.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Coordinate is a geographic position in degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether the coordinate is finite and within WGS84 bounds.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Region is a bounding area described by a center and a latitude/longitude span.
type Region struct {
	Center         Coordinate
	LatitudeDelta  float64
	LongitudeDelta float64
}

// Bounds returns the south-west and north-east corners of the region,
// clamped to valid coordinate ranges.
func (r Region) Bounds() (southWest, northEast Coordinate) {
	halfLat := r.LatitudeDelta / 2
	halfLon := r.LongitudeDelta / 2
	southWest = Coordinate{
		Latitude:  clamp(r.Center.Latitude-halfLat, -90, 90),
		Longitude: clamp(r.Center.Longitude-halfLon, -180, 180),
	}
	northEast = Coordinate{
		Latitude:  clamp(r.Center.Latitude+halfLat, -90, 90),
		Longitude: clamp(r.Center.Longitude+halfLon, -180, 180),
	}
	return southWest, northEast
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ResultType is a set of result categories a search may return.
type ResultType uint8

const (
	// ResultTypePointOfInterest covers named places such as businesses and landmarks.
	ResultTypePointOfInterest ResultType = 1 << iota
	// ResultTypeAddress covers bare street addresses.
	ResultTypeAddress
)

// Has reports whether all categories in other are part of t.
func (t ResultType) Has(other ResultType) bool {
	return t&other == other
}

func (t ResultType) String() string {
	var parts []string
	if t.Has(ResultTypePointOfInterest) {
		parts = append(parts, "poi")
	}
	if t.Has(ResultTypeAddress) {
		parts = append(parts, "address")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// Address holds the optional locality fields of a place, most specific first.
type Address struct {
	Street   string
	Locality string
	Region   string
}

// Line joins the non-empty address fields for display, e.g. "1 Main St, Springfield, IL".
func (a Address) Line() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.Street, a.Locality, a.Region} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// PlaceCandidate is one resolvable location returned by a search provider.
// An empty Name means the provider did not supply one; a nil Coordinate
// means the place cannot be located.
type PlaceCandidate struct {
	Name       string
	Coordinate *Coordinate
	Address    Address
	Category   string // provider category, e.g. "amenity/cafe"
}

// DisplayName returns the candidate's name, or the empty string if it has none.
// Candidate identity for deduplication is this exact, case-sensitive value.
func (p *PlaceCandidate) DisplayName() string {
	if p == nil {
		return ""
	}
	return p.Name
}

// PlaceKey derives a stable key from the name and the coordinate rounded to
// six decimals (about 10cm).
func (p *PlaceCandidate) PlaceKey() ID {
	var b strings.Builder
	b.WriteString(p.Name)
	if p.Coordinate != nil {
		b.WriteByte('@')
		b.WriteString(strconv.FormatFloat(p.Coordinate.Latitude, 'f', 6, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(p.Coordinate.Longitude, 'f', 6, 64))
	}
	return IDFromContent(b.String())
}

// SavedLocation is a point of interest persisted on behalf of a user.
type SavedLocation struct {
	Id        uuid.UUID
	OwnerId   int64
	Latitude  float64
	Longitude float64
	Name      string
	PlaceKey  ID        // key of the candidate this location was created from
	CreatedAt time.Time // set by storage on insert
}

// Coordinate returns the location's position.
func (s *SavedLocation) Coordinate() Coordinate {
	return Coordinate{Latitude: s.Latitude, Longitude: s.Longitude}
}

// DerivePlaceKey computes the key a candidate with this location's name and
// coordinate would have.
func (s *SavedLocation) DerivePlaceKey() ID {
	c := s.Coordinate()
	return (&PlaceCandidate{Name: s.Name, Coordinate: &c}).PlaceKey()
}

// NewSavedLocation maps a candidate picked by a user into a SavedLocation
// with a freshly generated ID. It returns nil and an error wrapping
// ErrMalformedCandidate when the candidate has no name or no coordinate.
func NewSavedLocation(candidate *PlaceCandidate, ownerId int64) (*SavedLocation, error) {
	if err := ValidateCandidate(candidate); err != nil {
		return nil, err
	}
	return &SavedLocation{
		Id:        uuid.New(),
		OwnerId:   ownerId,
		Latitude:  candidate.Coordinate.Latitude,
		Longitude: candidate.Coordinate.Longitude,
		Name:      candidate.Name,
		PlaceKey:  candidate.PlaceKey(),
	}, nil
}

// Suggestion is a partial-match completion for a query fragment.
type Suggestion struct {
	Title    string
	Subtitle string
}

// Query returns the phrase used to resolve the suggestion into candidates.
func (s Suggestion) Query() string {
	if s.Subtitle == "" {
		return s.Title
	}
	return s.Title + ", " + s.Subtitle
}
