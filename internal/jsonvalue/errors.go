package jsonvalue

import "errors"

var (
	// ErrNotObject is returned when a document is valid JSON but its top-level value is not an object
	ErrNotObject = errors.New("top-level JSON value is not an object")
	// ErrTrailingData is returned when a document contains more than one top-level value
	ErrTrailingData = errors.New("unexpected data after top-level JSON value")
	// ErrUnexpectedToken is returned when the decoder encounters a token that cannot start a value
	ErrUnexpectedToken = errors.New("unexpected JSON token")
)
