package scanner

import "errors"

var (
	// ErrMissingFetcher is returned when a scanner is created without a way to reach the recon service
	ErrMissingFetcher = errors.New("scanner requires a fetcher")
	// ErrScanInFlight is returned when a scan is submitted while another one is still loading
	ErrScanInFlight = errors.New("a scan is already in progress")
	// ErrSuperseded is returned when a scan finished after a newer scan or reset replaced it; its result is not published
	ErrSuperseded = errors.New("scan was superseded before it finished")
	// ErrUnsupportedScanType is returned when a scan is submitted with an unknown scan type
	ErrUnsupportedScanType = errors.New("unsupported scan type")
)
