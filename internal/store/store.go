package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("store: not found")
	ErrDuplicate = errors.New("store: duplicate key")
	ErrInvalidID = errors.New("store: invalid identifier")
)

// Session is the single active session embedded in a user record.
type Session struct {
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	Session      *Session  `json:"-"`
}

type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// TestRecord is a free-form document from the tests collection.
type TestRecord map[string]any

type UserStore interface {
	// CreateUser inserts u and assigns its ID.
	CreateUser(ctx context.Context, u *User) error
	FindUserByUsername(ctx context.Context, username string) (*User, error)
	// FindUserBySession returns the user whose id and embedded session id
	// both match.
	FindUserBySession(ctx context.Context, userID, sessionID string) (*User, error)
	// SetSession replaces the user's session. Concurrent callers race and
	// the last write wins.
	SetSession(ctx context.Context, userID string, s Session) error
	// ExtendSession moves expiresAt only while sessionID is still the
	// user's current session.
	ExtendSession(ctx context.Context, userID, sessionID string, expiresAt time.Time) error
}

type PostStore interface {
	CreatePost(ctx context.Context, p *Post) error
}

type TestStore interface {
	ListTests(ctx context.Context) ([]TestRecord, error)
}

// Store groups every collection the service reads or writes.
type Store interface {
	UserStore
	PostStore
	TestStore
}

// IsValidID reports whether id has the store's identifier format.
func IsValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// NewID returns a fresh identifier in the store's format.
func NewID() string {
	return primitive.NewObjectID().Hex()
}
