// Package metrics exposes Prometheus metrics for scans and sessions
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/theopenlane/recon/internal/jsonvalue"
	"github.com/theopenlane/recon/internal/reconapi"
	"github.com/theopenlane/recon/internal/scanner"
	"github.com/theopenlane/recon/internal/types"
)

// Outcome labels for remote scans
const (
	OutcomeSuccess   = "success"
	OutcomeTransport = "transport_error"
	OutcomeRemote    = "remote_error"
	OutcomeDecode    = "decode_error"
	OutcomeCanceled  = "canceled"
)

// Metrics holds the collectors registered on a private registry
type Metrics struct {
	registry *prometheus.Registry

	scansTotal   *prometheus.CounterVec
	scanDuration *prometheus.HistogramVec
}

// New creates and registers the recon metrics
func New() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recon_remote_scans_total",
				Help: "Total number of scans sent to the recon service",
			},
			[]string{"scan_type", "outcome"},
		),
		scanDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "recon_remote_scan_duration_seconds",
				Help:    "Time taken by the recon service to answer a scan",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"scan_type", "outcome"},
		),
	}

	for _, c := range []prometheus.Collector{m.scansTotal, m.scanDuration} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
	}

	return m, nil
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// TrackSessions reports the value of count as the active session gauge
func (m *Metrics) TrackSessions(count func() int) error {
	gauge := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "recon_sessions_active",
			Help: "Number of live browser sessions",
		},
		func() float64 { return float64(count()) },
	)

	return m.registry.Register(gauge)
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// InstrumentFetcher wraps f so every remote scan is counted and timed
func (m *Metrics) InstrumentFetcher(f scanner.Fetcher) (scanner.Fetcher, error) {
	if f == nil {
		return nil, ErrMissingFetcher
	}

	return &instrumentedFetcher{next: f, metrics: m}, nil
}

// instrumentedFetcher records metrics around a wrapped fetcher
type instrumentedFetcher struct {
	next    scanner.Fetcher
	metrics *Metrics
}

// Fetch delegates to the wrapped fetcher and records the outcome
func (f *instrumentedFetcher) Fetch(ctx context.Context, scanType types.ScanType, domain string) (*jsonvalue.Object, error) {
	start := time.Now()

	data, err := f.next.Fetch(ctx, scanType, domain)

	outcome := Classify(err)
	f.metrics.scansTotal.WithLabelValues(scanType.String(), outcome).Inc()
	f.metrics.scanDuration.WithLabelValues(scanType.String(), outcome).Observe(time.Since(start).Seconds())

	return data, err
}

// Classify maps a fetch error to its outcome label
func Classify(err error) string {
	var (
		remoteErr *reconapi.RemoteError
		decodeErr *reconapi.DecodeError
	)

	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	case errors.As(err, &remoteErr):
		return OutcomeRemote
	case errors.As(err, &decodeErr):
		return OutcomeDecode
	default:
		return OutcomeTransport
	}
}
