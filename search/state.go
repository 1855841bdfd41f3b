package search

import (
	"slices"

	"github.com/poiesic/waypoint/core"
)

// State is a read-only snapshot of the published search state.
type State struct {
	// Candidates is the current candidate list. Each snapshot has its own slice.
	Candidates []*core.PlaceCandidate

	// IsSearching is true while a dispatch round is outstanding.
	IsSearching bool

	// Generation increases with every dispatch round and every clear.
	Generation uint64

	// Query is the query of the latest dispatch round, "" after a clear.
	Query string
}

// Names returns the display names of the candidates in order.
func (s State) Names() []string {
	names := make([]string, len(s.Candidates))
	for i, c := range s.Candidates {
		names[i] = c.DisplayName()
	}
	return names
}

func (s State) clone() State {
	s.Candidates = slices.Clone(s.Candidates)
	if s.Candidates == nil {
		s.Candidates = []*core.PlaceCandidate{}
	}
	return s
}
