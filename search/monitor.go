package search

// SearchMonitor provides hooks to observe the search pipeline.
// Implement this interface to track debouncing, dispatch rounds and the
// suggestion channel. Hooks may be called from several goroutines.
type SearchMonitor interface {
	QueryReceived(query string)
	Debounced(query string)
	PrimarySearch(query string, results int, err error)
	FallbackSearch(query string, results int, err error)
	RoundPublished(generation uint64, results int)
	RoundDiscarded(generation uint64)
	SuggestionsReceived(count int)
	SuggestionResolved(err error)
	SuggestionsMerged(added int)
	Cleared()
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) QueryReceived(_ string)                  {}
func (n *noopMonitor) Debounced(_ string)                      {}
func (n *noopMonitor) PrimarySearch(_ string, _ int, _ error)  {}
func (n *noopMonitor) FallbackSearch(_ string, _ int, _ error) {}
func (n *noopMonitor) RoundPublished(_ uint64, _ int)          {}
func (n *noopMonitor) RoundDiscarded(_ uint64)                 {}
func (n *noopMonitor) SuggestionsReceived(_ int)               {}
func (n *noopMonitor) SuggestionResolved(_ error)              {}
func (n *noopMonitor) SuggestionsMerged(_ int)                 {}
func (n *noopMonitor) Cleared()                                {}
