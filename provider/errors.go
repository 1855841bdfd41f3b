package provider

import "errors"

var (
	// ErrUpstream indicates the remote service answered with an unexpected status.
	ErrUpstream = errors.New("upstream service error")

	// ErrRateLimited indicates the remote service asked the client to slow down.
	ErrRateLimited = errors.New("rate limited by upstream service")

	// ErrInvalidMaxAttempts is returned when maxAttempts is not positive.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
