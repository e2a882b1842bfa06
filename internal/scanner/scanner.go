package scanner

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/theopenlane/recon/internal/domain"
	"github.com/theopenlane/recon/internal/types"
)

// State is a point in time view of the scanner
type State struct {
	// Loading is true while a dispatched scan awaits its response
	Loading bool `json:"loading"`
	// Result is the most recently published result, nil while loading or before the first scan
	Result *types.ScanResult `json:"result,omitempty"`
	// Sequence identifies the latest submission
	Sequence uint64 `json:"sequence"`
}

// Scanner validates domains, dispatches scans to the recon service and owns
// the single current result. A scanner serves one session and allows one scan in flight
type Scanner struct {
	// fetcher performs the remote request
	fetcher Fetcher
	// options holds the configuration for scan behavior
	options *ScanOptions

	mu       sync.Mutex
	loading  bool
	result   *types.ScanResult
	sequence uint64

	// notifyMu serializes listener delivery; delivered is the newest sequence handed out
	notifyMu  sync.Mutex
	delivered uint64
}

// New creates a new scanner with the given options
func New(fetcher Fetcher, opts ...ScanOption) (*Scanner, error) {
	if fetcher == nil {
		return nil, ErrMissingFetcher
	}

	options := DefaultScanOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &Scanner{
		fetcher: fetcher,
		options: options,
	}, nil
}

// Scan turns a raw domain and scan type into exactly one result.
// Validation failures are published synchronously without contacting the recon service.
// ErrScanInFlight is returned, and nothing is published, when a scan is already loading.
// ErrSuperseded is returned alongside the unpublished result when Reset ran while the request was pending
func (s *Scanner) Scan(ctx context.Context, rawDomain string, scanType types.ScanType) (*types.ScanResult, error) {
	if !scanType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScanType, scanType)
	}

	s.mu.Lock()

	if s.loading {
		s.mu.Unlock()
		return nil, ErrScanInFlight
	}

	s.sequence++
	seq := s.sequence

	name, err := domain.Validate(rawDomain)
	if err != nil {
		result := types.NewFailure(rawDomain, scanType, err.Error(), s.options.Clock())
		s.result = result
		state := s.snapshotLocked()
		s.mu.Unlock()

		log.Debug().Str("domain", rawDomain).Str("scan_type", scanType.String()).Err(err).Msg("domain failed validation")

		s.notify(state)

		return result, nil
	}

	s.loading = true
	s.result = nil
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(state)

	log.Debug().Str("domain", name).Str("scan_type", scanType.String()).Uint64("sequence", seq).Msg("dispatching scan")

	result := s.fetch(ctx, name, scanType)

	s.mu.Lock()

	if seq != s.sequence {
		s.mu.Unlock()

		log.Debug().Str("domain", name).Uint64("sequence", seq).Msg("discarding superseded scan result")

		return result, ErrSuperseded
	}

	s.loading = false
	s.result = result
	state = s.snapshotLocked()
	s.mu.Unlock()

	log.Debug().Str("domain", name).Str("scan_type", scanType.String()).Bool("failed", result.Failed()).Msg("scan finished")

	s.notify(state)

	return result, nil
}

// fetch performs the remote request and converts its outcome into a result
func (s *Scanner) fetch(ctx context.Context, name string, scanType types.ScanType) *types.ScanResult {
	scanCtx, cancel := context.WithTimeout(ctx, s.options.Timeout)
	defer cancel()

	data, err := s.fetcher.Fetch(scanCtx, scanType, name)
	if err != nil {
		return types.NewFailure(name, scanType, err.Error(), s.options.Clock())
	}

	return types.NewSuccess(name, scanType, data, s.options.Clock())
}

// Reset discards the current result and any interest in an in-flight scan
func (s *Scanner) Reset() {
	s.mu.Lock()
	s.sequence++
	s.loading = false
	s.result = nil
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(state)
}

// State returns a snapshot of the scanner
func (s *Scanner) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

// Loading reports whether a scan is in flight
func (s *Scanner) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loading
}

// Result returns the most recently published result
func (s *Scanner) Result() *types.ScanResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.result
}

// snapshotLocked copies the current state; callers must hold mu
func (s *Scanner) snapshotLocked() State {
	return State{
		Loading:  s.loading,
		Result:   s.result,
		Sequence: s.sequence,
	}
}

// notify delivers a state snapshot to every listener, dropping snapshots older
// than one already delivered
func (s *Scanner) notify(state State) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	if state.Sequence < s.delivered {
		return
	}

	s.delivered = state.Sequence

	for _, listener := range s.options.Listeners {
		listener(state)
	}
}
