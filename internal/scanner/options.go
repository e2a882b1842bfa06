package scanner

import (
	"time"
)

// ScanOptions configures the scanner behavior
type ScanOptions struct {
	// Timeout bounds a single remote request
	Timeout time.Duration
	// Clock returns the instant recorded on finalized results
	Clock func() time.Time
	// Listeners are called after every state change
	Listeners []Listener
}

// ScanOption is a functional option for configuring scanner
type ScanOption func(*ScanOptions)

// DefaultScanOptions returns default scanner options
func DefaultScanOptions() *ScanOptions {
	return &ScanOptions{
		Timeout: 60 * time.Second,
		Clock:   time.Now,
	}
}

// WithTimeout sets the per-scan request timeout
func WithTimeout(timeout time.Duration) ScanOption {
	return func(o *ScanOptions) {
		if timeout > 0 {
			o.Timeout = timeout
		}
	}
}

// WithClock overrides the time source used for result timestamps
func WithClock(clock func() time.Time) ScanOption {
	return func(o *ScanOptions) {
		if clock != nil {
			o.Clock = clock
		}
	}
}

// WithListener registers a callback for state changes. Listeners run one at a time
// and must not call Scan or Reset
func WithListener(listener Listener) ScanOption {
	return func(o *ScanOptions) {
		if listener != nil {
			o.Listeners = append(o.Listeners, listener)
		}
	}
}
