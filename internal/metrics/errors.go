package metrics

import "errors"

var (
	// ErrMissingFetcher is returned when instrumenting a nil fetcher
	ErrMissingFetcher = errors.New("metrics requires a fetcher to instrument")
)
