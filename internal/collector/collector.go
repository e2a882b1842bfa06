// Package collector holds the user's pending input and turns it into scan requests
package collector

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/theopenlane/recon/internal/domain"
	"github.com/theopenlane/recon/internal/scanner"
	"github.com/theopenlane/recon/internal/types"
)

const (
	// SubmitLabelIdle is shown on the submit control when no scan is running
	SubmitLabelIdle = "[>] Scan"
	// SubmitLabelBusy replaces the idle label while a scan is in flight
	SubmitLabelBusy = "[~] Scanning..."
)

// Outcome describes what Dispatch did with a submission
type Outcome int

const (
	// OutcomeIgnored means the domain was blank or a scan was already running
	OutcomeIgnored Outcome = iota
	// OutcomeFinalized means a result was published before Dispatch returned
	OutcomeFinalized
	// OutcomeDispatched means a remote scan was started in the background
	OutcomeDispatched
)

// String returns the outcome name
func (o Outcome) String() string {
	switch o {
	case OutcomeFinalized:
		return "finalized"
	case OutcomeDispatched:
		return "dispatched"
	default:
		return "ignored"
	}
}

// Collector owns the domain text and the selected scan type for one session
type Collector struct {
	scanner scanner.Interface

	mu         sync.Mutex
	domain     string
	scanType   types.ScanType
	submitting bool
}

// New creates a collector bound to s with the default scan type selected
func New(s scanner.Interface) (*Collector, error) {
	if s == nil {
		return nil, ErrMissingScanner
	}

	return &Collector{
		scanner:  s,
		scanType: types.DefaultScanType,
	}, nil
}

// SetDomain stores text verbatim, truncated to the maximum domain length.
// The input is locked while a scan is in flight and ErrInputLocked is returned
func (c *Collector) SetDomain(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busyLocked() {
		return ErrInputLocked
	}

	if utf8.RuneCountInString(text) > domain.MaxLength {
		text = string([]rune(text)[:domain.MaxLength])
	}

	c.domain = text

	return nil
}

// SetScanType replaces the selected scan type unless a scan is in flight
func (c *Collector) SetScanType(scanType types.ScanType) error {
	if !scanType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedScanType, scanType)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busyLocked() {
		return ErrInputLocked
	}

	c.scanType = scanType

	return nil
}

// Domain returns the current domain text
func (c *Collector) Domain() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.domain
}

// ScanType returns the selected scan type
func (c *Collector) ScanType() types.ScanType {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.scanType
}

// Description returns the description of the selected scan type
func (c *Collector) Description() string {
	return c.ScanType().Description()
}

// Busy reports whether a scan is in flight
func (c *Collector) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.busyLocked()
}

// busyLocked reports whether a submission is claimed or the scanner is loading; callers must hold mu
func (c *Collector) busyLocked() bool {
	return c.submitting || c.scanner.State().Loading
}

// SubmitLabel returns the call to action for the submit control
func (c *Collector) SubmitLabel() string {
	if c.Busy() {
		return SubmitLabelBusy
	}

	return SubmitLabelIdle
}

// Submit scans the current input and waits for the result.
// It returns false without scanning when the domain is blank or a scan is in flight
func (c *Collector) Submit(ctx context.Context) (bool, error) {
	raw, scanType, ok := c.begin()
	if !ok {
		return false, nil
	}

	defer c.finish()

	_, err := c.scanner.Scan(ctx, raw, scanType)

	return true, err
}

// Dispatch submits the current input without waiting for a remote response.
// Input that fails validation is finalized before Dispatch returns; valid input
// is scanned in the background, detached from ctx cancellation
func (c *Collector) Dispatch(ctx context.Context) Outcome {
	raw, scanType, ok := c.begin()
	if !ok {
		return OutcomeIgnored
	}

	if _, err := domain.Validate(raw); err != nil {
		defer c.finish()

		if _, err := c.scanner.Scan(ctx, raw, scanType); err != nil {
			log.Debug().Err(err).Str("domain", raw).Msg("scan rejected")

			return OutcomeIgnored
		}

		return OutcomeFinalized
	}

	go func() {
		defer c.finish()

		if _, err := c.scanner.Scan(context.WithoutCancel(ctx), raw, scanType); err != nil {
			log.Debug().Err(err).Str("domain", raw).Msg("background scan did not publish")
		}
	}()

	return OutcomeDispatched
}

// begin claims the submission slot and captures the input it applies to
func (c *Collector) begin() (string, types.ScanType, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(c.domain) == "" || c.busyLocked() {
		return "", "", false
	}

	c.submitting = true

	return c.domain, c.scanType, true
}

// finish releases the submission slot
func (c *Collector) finish() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.submitting = false
}
