// Package throttle locks out clients that repeatedly fail to log in.
package throttle

import (
	"context"
	"time"
)

type Config struct {
	MaxAttempts int
	Window      time.Duration // failures older than this are forgotten
	Lock        time.Duration // lockout after MaxAttempts failures
}

// Limiter tracks failed logins per key (client IP).
type Limiter interface {
	// Locked returns how long key stays locked, zero when it is not.
	Locked(ctx context.Context, key string) (time.Duration, error)
	// Fail records a failure and returns the attempts left before lockout.
	Fail(ctx context.Context, key string) (int, error)
	Reset(ctx context.Context, key string) error
}
