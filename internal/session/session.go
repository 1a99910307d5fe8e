package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"sampleapp/internal/store"
)

// DefaultTTL is the idle timeout: a session lapses after an hour without
// an authenticated request.
const DefaultTTL = time.Hour

var (
	ErrInvalidIdentifier = errors.New("session: malformed user identifier")
	ErrNotAuthenticated  = errors.New("session: not authenticated")
	ErrSessionExpired    = errors.New("session: expired")
)

const (
	OutcomeAuthenticated     = "authenticated"
	OutcomeInvalidIdentifier = "invalid_identifier"
	OutcomeNotAuthenticated  = "not_authenticated"
	OutcomeExpired           = "session_expired"
)

// OutcomeOf maps a Validate error to a stable label for logs and metrics.
func OutcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeAuthenticated
	case errors.Is(err, ErrInvalidIdentifier):
		return OutcomeInvalidIdentifier
	case errors.Is(err, ErrSessionExpired):
		return OutcomeExpired
	default:
		return OutcomeNotAuthenticated
	}
}

// GenerateID returns a cryptographically random session token
// (32 bytes, base64url without padding).
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// New mints a fresh session expiring ttl after now.
func New(now time.Time, ttl time.Duration) (store.Session, error) {
	id, err := GenerateID()
	if err != nil {
		return store.Session{}, err
	}
	return store.Session{
		SessionID: id,
		ExpiresAt: now.Add(ttl),
	}, nil
}
