package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"labstats/internal/domain"
	"labstats/internal/infrastructure/logging"
)

// StoreFactory creates the store of a new session.
type StoreFactory func() domain.MeasurementStore

// Recorder observes session lifecycle and appends.
type Recorder interface {
	SetActiveSessions(n int)
	AddMeasurements(n int)
}

// Config controls session expiry.
type Config struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

type Option func(*Manager)

// WithClock replaces time.Now, used by tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(recorder Recorder) Option {
	return func(m *Manager) {
		m.recorder = recorder
	}
}

// Manager keeps the sessions of this process and expires idle ones.
type Manager struct {
	cfg      Config
	newStore StoreFactory
	logger   *logging.Logger
	recorder Recorder
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(cfg Config, newStore StoreFactory, logger *logging.Logger, opts ...Option) *Manager {
	m := &Manager{
		cfg:      cfg,
		newStore: newStore,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a session with an empty store.
func (m *Manager) Create(_ context.Context) *Session {
	s := newSession(uuid.NewString(), m.newStore(), m.now())

	m.mu.Lock()
	m.sessions[s.ID] = s
	active := len(m.sessions)
	m.mu.Unlock()

	m.setActive(active)
	m.logger.Info("session created", "session", s.ID, "active", active)
	return s
}

// Get returns the session for id and marks it as used.
func (m *Manager) Get(_ context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: malformed id", domain.ErrSessionNotFound)
	}

	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	s.touch(m.now())
	return s, nil
}

// End discards the session and its store.
func (m *Manager) End(_ context.Context, id string) {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	active := len(m.sessions)
	m.mu.Unlock()

	if ok {
		m.setActive(active)
		m.logger.Info("session ended", "session", id, "active", active)
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep discards sessions idle for longer than the configured timeout and returns how many were removed.
func (m *Manager) Sweep() int {
	if m.cfg.IdleTimeout <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.cfg.IdleTimeout)

	m.mu.Lock()
	var expired []string
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			expired = append(expired, id)
			delete(m.sessions, id)
		}
	}
	active := len(m.sessions)
	m.mu.Unlock()

	if len(expired) > 0 {
		m.setActive(active)
		for _, id := range expired {
			m.logger.Info("session expired", "session", id)
		}
	}
	return len(expired)
}

// Run sweeps idle sessions until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	if m.cfg.IdleTimeout <= 0 || m.cfg.SweepInterval <= 0 {
		m.logger.Info("session sweeper disabled")
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("session sweeper stopped", logging.AttachError(ctx.Err())...)
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

func (m *Manager) setActive(n int) {
	if m.recorder != nil {
		m.recorder.SetActiveSessions(n)
	}
}

func (m *Manager) addMeasurements(n int) {
	if m.recorder != nil {
		m.recorder.AddMeasurements(n)
	}
}
