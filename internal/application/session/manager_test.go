package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labstats/internal/domain"
	"labstats/internal/infrastructure/logging"
	"labstats/internal/infrastructure/repository/memory"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type stubRecorder struct {
	mu       sync.Mutex
	active   int
	appended int
}

func (r *stubRecorder) SetActiveSessions(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = n
}

func (r *stubRecorder) AddMeasurements(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appended += n
}

func newMemoryStore() domain.MeasurementStore {
	return memory.New()
}

func newTestManager(cfg Config, opts ...Option) *Manager {
	return NewManager(cfg, newMemoryStore, logging.Discard(), opts...)
}

func TestManagerCreateAndGet(t *testing.T) {
	recorder := &stubRecorder{}
	m := newTestManager(Config{}, WithRecorder(recorder))
	ctx := context.Background()

	s := m.Create(ctx)
	got, err := m.Get(ctx, s.ID)

	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 1, recorder.active)
}

func TestManagerSessionsAreIsolated(t *testing.T) {
	m := newTestManager(Config{})
	ctx := context.Background()

	a := m.Create(ctx)
	b := m.Create(ctx)
	require.NotEqual(t, a.ID, b.ID)

	require.NoError(t, a.Do(func(store domain.MeasurementStore) error {
		return store.Append(ctx, domain.Measurement{DrainedWeight: 1, DryWeight: 1})
	}))

	_ = b.Do(func(store domain.MeasurementStore) error {
		assert.Zero(t, store.Count(ctx))
		return nil
	})
}

func TestManagerGetUnknown(t *testing.T) {
	m := newTestManager(Config{})

	_, err := m.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = m.Get(context.Background(), "9d7f3a8e-4c1b-4d8e-9b6a-2f0e1c3d5a7b")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManagerEnd(t *testing.T) {
	m := newTestManager(Config{})
	ctx := context.Background()
	s := m.Create(ctx)

	m.End(ctx, s.ID)

	_, err := m.Get(ctx, s.ID)
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
	assert.Zero(t, m.Len())
}

func TestManagerSweepExpiresIdleSessions(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)}
	recorder := &stubRecorder{}
	m := newTestManager(Config{IdleTimeout: 10 * time.Minute}, WithClock(clock.Now), WithRecorder(recorder))
	ctx := context.Background()

	idle := m.Create(ctx)
	busy := m.Create(ctx)

	clock.Advance(8 * time.Minute)
	_, err := m.Get(ctx, busy.ID)
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	assert.Equal(t, 1, m.Sweep())

	_, err = m.Get(ctx, idle.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = m.Get(ctx, busy.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, recorder.active)
}

func TestManagerSweepDisabled(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	m := newTestManager(Config{}, WithClock(clock.Now))
	m.Create(context.Background())

	clock.Advance(24 * time.Hour)

	assert.Zero(t, m.Sweep())
	assert.Equal(t, 1, m.Len())
}

func TestManagerRunStopsOnCancel(t *testing.T) {
	m := newTestManager(Config{IdleTimeout: time.Minute, SweepInterval: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
