package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrRefreshDropped = errors.New("session: refresh queue full or stopped")

// Extender persists a new expiration for a user's current session.
type Extender interface {
	ExtendSession(ctx context.Context, userID, sessionID string, expiresAt time.Time) error
}

type RefresherConfig struct {
	Workers   int
	QueueSize int
	// Timeout bounds each store write; it does not inherit request deadlines.
	Timeout time.Duration
	// OnFailure observes refreshes that were dropped or failed to persist.
	OnFailure func(userID string, err error)
}

type refreshJob struct {
	userID    string
	sessionID string
	expiresAt time.Time
}

// Refresher writes sliding-expiration updates off the request path.
// Refreshes are best effort: failures go to OnFailure and are never retried.
type Refresher struct {
	store Extender
	cfg   RefresherConfig
	jobs  chan refreshJob

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

func NewRefresher(store Extender, cfg RefresherConfig) *Refresher {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Refresher{
		store: store,
		cfg:   cfg,
		jobs:  make(chan refreshJob, cfg.QueueSize),
	}
}

// Start launches the worker goroutines.
func (r *Refresher) Start() {
	for i := 0; i < r.cfg.Workers; i++ {
		r.wg.Add(1)
		go r.work()
	}
}

// Enqueue schedules a refresh without blocking.
func (r *Refresher) Enqueue(userID, sessionID string, expiresAt time.Time) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.stopped {
		r.fail(userID, ErrRefreshDropped)
		return
	}

	select {
	case r.jobs <- refreshJob{userID: userID, sessionID: sessionID, expiresAt: expiresAt}:
	default:
		r.fail(userID, ErrRefreshDropped)
	}
}

// Pending reports how many refreshes are queued and not yet picked up.
func (r *Refresher) Pending() int {
	return len(r.jobs)
}

// Stop rejects new work, drains the queue and waits for the workers.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	close(r.jobs)
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Refresher) work() {
	defer r.wg.Done()

	for job := range r.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.Timeout)
		err := r.store.ExtendSession(ctx, job.userID, job.sessionID, job.expiresAt)
		cancel()

		if err != nil {
			r.fail(job.userID, err)
		}
	}
}

func (r *Refresher) fail(userID string, err error) {
	if r.cfg.OnFailure != nil {
		r.cfg.OnFailure(userID, err)
	}
}
