package api

import "errors"

var (
	// ErrInvalidRequestBody is returned when the request body cannot be decoded
	ErrInvalidRequestBody = errors.New("invalid request body")
	// ErrMultipleJSONObjects is returned when the request body contains more than one JSON object
	ErrMultipleJSONObjects = errors.New("request body must contain a single JSON object")
	// ErrEmptyInput is returned when an input update carries neither a domain nor a scan type
	ErrEmptyInput = errors.New("domain or scan_type required")
	// ErrDomainBlank is returned when a scan is submitted without a domain
	ErrDomainBlank = errors.New("domain is blank")
	// ErrScanInProgress is returned when a scan is submitted while one is still running
	ErrScanInProgress = errors.New("a scan is already in progress for this session")
	// ErrSessionsNotConfigured is returned when the router is built without a session manager
	ErrSessionsNotConfigured = errors.New("session manager not configured")
)
