package types

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/theopenlane/recon/internal/jsonvalue"
)

const (
	// TimestampLayout is the ISO-8601 layout used for scan timestamps
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
	// UnexpectedErrorMessage is reported when a failure carries no message of its own
	UnexpectedErrorMessage = "An unexpected error occurred"
)

var (
	// ErrUnsupportedScanType is returned when a scan type name is not recognized
	ErrUnsupportedScanType = errors.New("unsupported scan type")
	// ErrResultBothSet is returned when a scan result carries both data and an error
	ErrResultBothSet = errors.New("scan result has both data and error")
	// ErrResultNoneSet is returned when a scan result carries neither data nor an error
	ErrResultNoneSet = errors.New("scan result has neither data nor error")
)

// ScanType selects the category of reconnaissance performed against a domain
type ScanType string

const (
	// ScanTypeIP resolves the domain to its IP address
	ScanTypeIP ScanType = "ip"
	// ScanTypeDNS queries the domain's DNS records
	ScanTypeDNS ScanType = "dns"
	// ScanTypeHeaders inspects the HTTP security headers served for the domain
	ScanTypeHeaders ScanType = "headers"
)

// DefaultScanType is selected before the user picks a category
const DefaultScanType = ScanTypeIP

// ScanTypeInfo describes a scan type for display
type ScanTypeInfo struct {
	Value       ScanType `json:"value" example:"ip" description:"Scan type identifier"`
	Label       string   `json:"label" example:"IP Lookup" description:"Short human readable name"`
	Description string   `json:"description" example:"Resolve domain to IP address" description:"What the scan does"`
}

var scanTypes = []ScanTypeInfo{
	{Value: ScanTypeIP, Label: "IP Lookup", Description: "Resolve domain to IP address"},
	{Value: ScanTypeDNS, Label: "DNS Records", Description: "Query DNS record entries"},
	{Value: ScanTypeHeaders, Label: "Security Headers", Description: "Inspect HTTP security headers"},
}

// ScanTypes returns every supported scan type in display order
func ScanTypes() []ScanTypeInfo {
	out := make([]ScanTypeInfo, len(scanTypes))
	copy(out, scanTypes)

	return out
}

// ScanTypeNames returns the identifiers of every supported scan type
func ScanTypeNames() []string {
	return lo.Map(scanTypes, func(info ScanTypeInfo, _ int) string {
		return string(info.Value)
	})
}

// ParseScanType converts user input into a ScanType
func ParseScanType(s string) (ScanType, error) {
	candidate := ScanType(strings.ToLower(strings.TrimSpace(s)))
	if candidate.Valid() {
		return candidate, nil
	}

	return "", fmt.Errorf("%w: %q (expected one of %s)", ErrUnsupportedScanType, s, strings.Join(ScanTypeNames(), ", "))
}

// Valid reports whether t is a supported scan type
func (t ScanType) Valid() bool {
	_, ok := t.info()
	return ok
}

// Label returns the short display name of the scan type
func (t ScanType) Label() string {
	info, _ := t.info()
	return info.Label
}

// Description returns the display description of the scan type
func (t ScanType) Description() string {
	info, _ := t.info()
	return info.Description
}

// ResourcePath returns the remote resource path for scanning an already encoded domain
func (t ScanType) ResourcePath(encodedDomain string) string {
	return "/" + string(t) + "/" + encodedDomain
}

// String implements fmt.Stringer
func (t ScanType) String() string {
	return string(t)
}

// info looks up the display metadata for t
func (t ScanType) info() (ScanTypeInfo, bool) {
	return lo.Find(scanTypes, func(info ScanTypeInfo) bool {
		return info.Value == t
	})
}

// ScanResult is the outcome of a single scan. Exactly one of Data and Error is set
type ScanResult struct {
	Domain    string            `json:"domain" example:"example.com" description:"The domain that was scanned"`
	ScanType  ScanType          `json:"scan_type" example:"ip" description:"The scan category that was run"`
	Data      *jsonvalue.Object `json:"data,omitempty" description:"Structured response from the recon service when the scan succeeded"`
	Error     string            `json:"error,omitempty" example:"Domain is required" description:"Failure message when the scan failed"`
	Timestamp string            `json:"timestamp" example:"2024-01-15T10:30:00.000Z" description:"ISO-8601 instant the result was finalized"`
}

// NewSuccess builds a result carrying data
func NewSuccess(domain string, scanType ScanType, data *jsonvalue.Object, at time.Time) *ScanResult {
	if data == nil {
		data = jsonvalue.NewObject()
	}

	return &ScanResult{
		Domain:    domain,
		ScanType:  scanType,
		Data:      data,
		Timestamp: FormatTimestamp(at),
	}
}

// NewFailure builds a result carrying an error message
func NewFailure(domain string, scanType ScanType, message string, at time.Time) *ScanResult {
	if strings.TrimSpace(message) == "" {
		message = UnexpectedErrorMessage
	}

	return &ScanResult{
		Domain:    domain,
		ScanType:  scanType,
		Error:     message,
		Timestamp: FormatTimestamp(at),
	}
}

// Failed reports whether the result carries an error
func (r *ScanResult) Failed() bool {
	return r.Error != ""
}

// Validate checks that exactly one of Data and Error is set
func (r *ScanResult) Validate() error {
	switch {
	case r.Data != nil && r.Error != "":
		return ErrResultBothSet
	case r.Data == nil && r.Error == "":
		return ErrResultNoneSet
	default:
		return nil
	}
}

// FormatTimestamp renders t in UTC using TimestampLayout
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
