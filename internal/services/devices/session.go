package devices

import (
	"sync"

	"github.com/google/uuid"

	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
)

// Session holds one operator's cached view of the LED toggles. Entries are
// created lazily on first read and live as long as the session.
type Session struct {
	mu    sync.Mutex
	id    string
	cache map[string]bool
}

// NewSession creates an empty session with a fresh identifier.
func NewSession() *Session {
	return &Session{
		id:    uuid.New().String(),
		cache: make(map[string]bool),
	}
}

// ID returns the session identifier used in the audit log.
func (s *Session) ID() string {
	return s.id
}

// State returns the cached state of unit, or DeviceUnknown when it was never
// read successfully.
func (s *Session) State(unit string) models.DeviceState {
	on, ok := s.cached(unit)
	if !ok {
		return models.DeviceUnknown
	}
	return models.StateOf(on)
}

// Invalidate drops the cached entry so the next read goes to the store.
func (s *Session) Invalidate(unit string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, unit)
}

func (s *Session) cached(unit string) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	on, ok := s.cache[unit]
	return on, ok
}

func (s *Session) remember(unit string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[unit] = on
}

// rememberRead caches a value read from the store unless an entry appeared
// while the read was in flight, and returns the entry that is kept.
func (s *Session) rememberRead(unit string, on bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.cache[unit]; ok {
		return current
	}
	s.cache[unit] = on
	return on
}
