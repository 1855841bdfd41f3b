package search

import "strings"

// foldName lowercases a candidate name for relevance comparisons.
// Absent names fold to the empty string.
func foldName(name string) string {
	return strings.ToLower(name)
}

// matchTier classifies a folded name against a folded query:
// 0 for a prefix match, 1 for a substring match, 2 otherwise.
func matchTier(name, query string) int {
	switch {
	case strings.HasPrefix(name, query):
		return 0
	case strings.Contains(name, query):
		return 1
	default:
		return 2
	}
}
