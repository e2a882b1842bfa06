package shell

import "errors"

var (
	// ErrMissingFetcher is returned when a shell is created without a way to reach the recon service
	ErrMissingFetcher = errors.New("shell requires a fetcher")
	// ErrMissingRenderer is returned when a shell is created without a renderer
	ErrMissingRenderer = errors.New("shell requires a renderer")
)
