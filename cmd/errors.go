package cmd

import "errors"

var (
	// ErrScanFailed is returned when a one shot scan finished with an error result
	ErrScanFailed = errors.New("scan failed")
)
