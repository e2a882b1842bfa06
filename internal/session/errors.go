package session

import "errors"

var (
	// ErrMissingFetcher is returned when a manager is created without a way to reach the recon service
	ErrMissingFetcher = errors.New("session manager requires a fetcher")
	// ErrSessionNotFound is returned when a session id is unknown or has expired
	ErrSessionNotFound = errors.New("session not found")
)
