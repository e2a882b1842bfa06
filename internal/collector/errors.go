package collector

import "errors"

var (
	// ErrMissingScanner is returned when a collector is created without a scanner
	ErrMissingScanner = errors.New("collector requires a scanner")
	// ErrUnsupportedScanType is returned when the selected scan type is unknown
	ErrUnsupportedScanType = errors.New("unsupported scan type")
	// ErrInputLocked is returned when the input is changed while a scan is in flight
	ErrInputLocked = errors.New("input is locked while a scan is in flight")
)
