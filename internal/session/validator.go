package session

import (
	"context"
	"errors"
	"time"

	"sampleapp/internal/logger"
	"sampleapp/internal/store"
)

// Finder looks up the user owning a (userID, sessionID) pair.
type Finder interface {
	FindUserBySession(ctx context.Context, userID, sessionID string) (*store.User, error)
}

// Scheduler accepts background expiration refreshes.
type Scheduler interface {
	Enqueue(userID, sessionID string, expiresAt time.Time)
}

// Validator checks presented session credentials against the user store.
// Nothing is cached: every call goes to the store.
type Validator struct {
	users     Finder
	refresher Scheduler
	ttl       time.Duration
	now       func() time.Time
}

func NewValidator(users Finder, refresher Scheduler, ttl time.Duration) *Validator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Validator{
		users:     users,
		refresher: refresher,
		ttl:       ttl,
		now:       time.Now,
	}
}

// WithClock replaces the time source.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

// Validate returns the authenticated user id, or one of ErrInvalidIdentifier,
// ErrNotAuthenticated or ErrSessionExpired. On success the session's
// expiration is pushed to now+ttl in the background.
func (v *Validator) Validate(ctx context.Context, userID, sessionID string) (string, error) {
	// A malformed id never reaches the store, so driver errors cannot leak.
	if !store.IsValidID(userID) {
		return "", ErrInvalidIdentifier
	}
	if sessionID == "" {
		return "", ErrNotAuthenticated
	}

	user, err := v.users.FindUserBySession(ctx, userID, sessionID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Error("session lookup failed", map[string]any{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
		return "", ErrNotAuthenticated
	}
	if user.Session == nil {
		return "", ErrNotAuthenticated
	}

	now := v.now()
	if now.After(user.Session.ExpiresAt) {
		return "", ErrSessionExpired
	}

	if v.refresher != nil {
		v.refresher.Enqueue(userID, sessionID, now.Add(v.ttl))
	}

	return userID, nil
}
