package session

import (
	"sync"
	"sync/atomic"
	"time"

	"labstats/internal/domain"
)

// Session owns one measurement store for its lifetime.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	store    domain.MeasurementStore
	lastSeen atomic.Int64
}

func newSession(id string, store domain.MeasurementStore, now time.Time) *Session {
	s := &Session{ID: id, CreatedAt: now, store: store}
	s.lastSeen.Store(now.UnixNano())
	return s
}

// Do runs fn with exclusive access to the session store.
func (s *Session) Do(fn func(store domain.MeasurementStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.store)
}

// LastSeen returns when the session was last used.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) touch(now time.Time) {
	ts := now.UnixNano()
	for {
		prev := s.lastSeen.Load()
		if ts <= prev || s.lastSeen.CompareAndSwap(prev, ts) {
			return
		}
	}
}
