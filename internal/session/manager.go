// Package session tracks per-client scan sessions and expires idle ones
package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/theopenlane/recon/internal/collector"
	"github.com/theopenlane/recon/internal/scanner"
)

const (
	// DefaultTTL is how long an idle session is kept
	DefaultTTL = 30 * time.Minute
	// DefaultCleanupInterval is how often idle sessions are swept
	DefaultCleanupInterval = time.Minute
)

// Manager creates, looks up and expires sessions
type Manager struct {
	fetcher     scanner.Fetcher
	scanOptions []scanner.ScanOption

	ttl             time.Duration
	cleanupInterval time.Duration
	now             func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// Option configures the Manager
type Option func(*Manager)

// WithTTL sets how long an idle session is kept
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithCleanupInterval sets how often idle sessions are swept
func WithCleanupInterval(interval time.Duration) Option {
	return func(m *Manager) {
		if interval > 0 {
			m.cleanupInterval = interval
		}
	}
}

// WithScanOptions configures the scanner created for every session
func WithScanOptions(opts ...scanner.ScanOption) Option {
	return func(m *Manager) {
		m.scanOptions = append(m.scanOptions, opts...)
	}
}

// WithClock overrides the time source used for session activity
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a session manager whose sessions scan through fetcher
func NewManager(fetcher scanner.Fetcher, opts ...Option) (*Manager, error) {
	if fetcher == nil {
		return nil, ErrMissingFetcher
	}

	m := &Manager{
		fetcher:         fetcher,
		ttl:             DefaultTTL,
		cleanupInterval: DefaultCleanupInterval,
		now:             time.Now,
		sessions:        make(map[string]*Session),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Create starts a new session with its own collector and scanner
func (m *Manager) Create() (*Session, error) {
	s, err := scanner.New(m.fetcher, m.scanOptions...)
	if err != nil {
		return nil, err
	}

	c, err := collector.New(s)
	if err != nil {
		return nil, err
	}

	now := m.now()

	sess := &Session{
		ID:         uuid.New().String(),
		CreatedAt:  now,
		collector:  c,
		scanner:    s,
		lastActive: now,
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	log.Debug().Str("session", sess.ID).Msg("session created")

	return sess, nil
}

// Get returns the session with id and marks it active
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	sess.touch(m.now())

	return sess, nil
}

// Delete drops the session and discards any scan it has in flight
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	sess.scanner.Reset()

	log.Debug().Str("session", id).Msg("session deleted")

	return nil
}

// IDs returns the ids of all live sessions in sorted order
func (m *Manager) IDs() []string {
	m.mu.RLock()
	ids := lo.Keys(m.sessions)
	m.mu.RUnlock()

	sort.Strings(ids)

	return ids
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

// Run sweeps idle sessions every cleanup interval until ctx is done
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Cleanup()
		}
	}
}

// Cleanup removes sessions idle for longer than the TTL and returns how many were removed.
// Sessions with a scan in flight are kept
func (m *Manager) Cleanup() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()

	expired := lo.PickBy(m.sessions, func(_ string, sess *Session) bool {
		return sess.LastActive().Before(cutoff) && !sess.collector.Busy()
	})

	for id := range expired {
		delete(m.sessions, id)
	}

	m.mu.Unlock()

	for id, sess := range expired {
		sess.scanner.Reset()

		log.Debug().Str("session", id).Msg("session expired")
	}

	return len(expired)
}
