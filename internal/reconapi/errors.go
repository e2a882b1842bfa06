package reconapi

import (
	"errors"
	"fmt"
)

const (
	// decodeFailureMessage is shown when a successful response body cannot be used
	decodeFailureMessage = "Failed to parse server response"
)

var (
	// ErrMissingBaseURL is returned when the recon service base URL is not configured
	ErrMissingBaseURL = errors.New("recon service base URL is required")
	// ErrInvalidBaseURL is returned when the recon service base URL is not an absolute http(s) URL
	ErrInvalidBaseURL = errors.New("recon service base URL must be an absolute http or https URL")
	// ErrInvalidScanType is returned when a request is made for an unsupported scan type
	ErrInvalidScanType = errors.New("invalid scan type")
)

// TransportError reports a request that could not complete, such as a refused connection or timeout
type TransportError struct {
	Err error
}

// Error returns the underlying fault message
func (e *TransportError) Error() string {
	if e.Err == nil {
		return ""
	}

	return e.Err.Error()
}

// Unwrap returns the underlying fault
func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteError reports a non-2xx response from the recon service
type RemoteError struct {
	StatusCode int
	StatusText string
}

// Error returns the status code and status text of the response
func (e *RemoteError) Error() string {
	return fmt.Sprintf("Server responded with %d: %s", e.StatusCode, e.StatusText)
}

// DecodeError reports a 2xx response whose body is not a JSON object
type DecodeError struct {
	Err error
}

// Error returns a generic decode failure message
func (e *DecodeError) Error() string {
	return decodeFailureMessage
}

// Unwrap returns the parser error
func (e *DecodeError) Unwrap() error {
	return e.Err
}
