package session

import (
	"sync"
	"time"

	"github.com/theopenlane/recon/internal/collector"
	"github.com/theopenlane/recon/internal/scanner"
)

// Session owns the input collector and scan orchestrator of a single browser session
type Session struct {
	// ID is the opaque session identifier handed to the client
	ID string
	// CreatedAt records when the session was created
	CreatedAt time.Time

	collector *collector.Collector
	scanner   *scanner.Scanner

	mu         sync.Mutex
	lastActive time.Time
}

// Collector returns the session's input collector
func (s *Session) Collector() *collector.Collector {
	return s.collector
}

// Scanner returns the session's scan orchestrator
func (s *Session) Scanner() *scanner.Scanner {
	return s.scanner
}

// LastActive returns the last time the session was accessed
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastActive
}

func (s *Session) touch(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = at
}
