package importer

import "errors"

var (
	// ErrInvalidFeed is returned when the feed is not a JSON array of entries.
	ErrInvalidFeed = errors.New("invalid location feed")

	// ErrInvalidBatchSize is returned when the batch size is <= 0.
	ErrInvalidBatchSize = errors.New("batch size must be greater than 0")

	// ErrInvalidMaxRetries is returned when the attempt count is <= 0.
	ErrInvalidMaxRetries = errors.New("max retries must be greater than 0")
)
