package completion

import "errors"

var (
	// ErrSuggesterRequired is returned when NewCompleter is called without a suggester.
	ErrSuggesterRequired = errors.New("suggester is required")

	// ErrInvalidMaxSuggestions is returned when the suggestion cap is not positive.
	ErrInvalidMaxSuggestions = errors.New("max suggestions must be greater than 0")

	// ErrInvalidRequestTimeout is returned when the suggester timeout is not positive.
	ErrInvalidRequestTimeout = errors.New("request timeout must be greater than 0")
)
