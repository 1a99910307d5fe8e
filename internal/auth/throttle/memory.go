package throttle

import (
	"context"
	"sync"
	"time"
)

type attemptState struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// MemoryLimiter keeps attempt counters in process memory.
type MemoryLimiter struct {
	cfg Config
	now func() time.Time

	mu       sync.Mutex
	attempts map[string]*attemptState
}

func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{
		cfg:      cfg,
		now:      time.Now,
		attempts: make(map[string]*attemptState),
	}
}

func (m *MemoryLimiter) Locked(ctx context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.attempts[key]
	if !ok {
		return 0, nil
	}
	now := m.now()
	if !now.Before(state.lockedUntil) {
		return 0, nil
	}
	return state.lockedUntil.Sub(now), nil
}

func (m *MemoryLimiter) Fail(ctx context.Context, key string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	state, ok := m.attempts[key]
	if !ok || now.Sub(state.firstAttempt) > m.cfg.Window {
		state = &attemptState{firstAttempt: now}
		m.attempts[key] = state
	}

	state.count++
	if state.count < m.cfg.MaxAttempts {
		return m.cfg.MaxAttempts - state.count, nil
	}

	// The lock starts a fresh failure budget.
	state.lockedUntil = now.Add(m.cfg.Lock)
	state.count = 0
	state.firstAttempt = now
	return 0, nil
}

func (m *MemoryLimiter) Reset(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.attempts, key)
	return nil
}
