package search

import (
	"slices"
	"strings"

	"github.com/poiesic/waypoint/core"
)

// RankByRelevance orders candidates by textual relevance to query and returns
// a new slice. Names starting with the query come first, then names
// containing it, with ties broken by lowercase name. Comparisons ignore case.
// The sort is stable, so ranking an already ranked list is a no-op.
func RankByRelevance(candidates []*core.PlaceCandidate, query string) []*core.PlaceCandidate {
	ranked := slices.Clone(candidates)
	q := foldName(query)
	slices.SortStableFunc(ranked, func(a, b *core.PlaceCandidate) int {
		nameA, nameB := foldName(a.DisplayName()), foldName(b.DisplayName())
		if tierA, tierB := matchTier(nameA, q), matchTier(nameB, q); tierA != tierB {
			return tierA - tierB
		}
		return strings.Compare(nameA, nameB)
	})
	return ranked
}

// SortByName orders candidates by plain byte-wise name and returns a new
// slice. Unlike RankByRelevance this is case-sensitive and ignores any query.
func SortByName(candidates []*core.PlaceCandidate) []*core.PlaceCandidate {
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b *core.PlaceCandidate) int {
		return strings.Compare(a.DisplayName(), b.DisplayName())
	})
	return sorted
}

// MergeCandidates appends the incoming candidates whose exact name does not
// already appear in existing, then orders the combined list with SortByName.
// Names are compared case-sensitively and an absent name counts as "".
// Duplicates within incoming keep their first occurrence. When nothing is
// added, existing is returned unchanged (and unsorted) with added == 0.
func MergeCandidates(existing, incoming []*core.PlaceCandidate) (merged []*core.PlaceCandidate, added int) {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, c := range existing {
		seen[c.DisplayName()] = struct{}{}
	}

	fresh := make([]*core.PlaceCandidate, 0, len(incoming))
	for _, c := range incoming {
		if c == nil {
			continue
		}
		name := c.DisplayName()
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		fresh = append(fresh, c)
	}

	if len(fresh) == 0 {
		return existing, 0
	}

	combined := make([]*core.PlaceCandidate, 0, len(existing)+len(fresh))
	combined = append(combined, existing...)
	combined = append(combined, fresh...)
	return SortByName(combined), len(fresh)
}
