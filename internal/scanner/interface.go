package scanner

import (
	"context"

	"github.com/theopenlane/recon/internal/jsonvalue"
	"github.com/theopenlane/recon/internal/types"
)

// Interface defines the contract for scan orchestration implementations
type Interface interface {
	Scan(ctx context.Context, domain string, scanType types.ScanType) (*types.ScanResult, error)
	State() State
	Reset()
}

// Fetcher performs the remote request for an already validated domain
type Fetcher interface {
	Fetch(ctx context.Context, scanType types.ScanType, domain string) (*jsonvalue.Object, error)
}

// Listener is notified with a snapshot every time the scanner state changes
type Listener func(State)
