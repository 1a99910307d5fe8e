package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"sync"
	"time"
)

// MemoryStore implements Store in process memory. It is meant for tests and
// local runs; data is lost on restart.
type MemoryStore struct {
	mu sync.RWMutex

	users      map[string]*User // id -> user
	byUsername map[string]string
	posts      []*Post
	tests      []TestRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[string]*User),
		byUsername: make(map[string]string),
	}
}

func (s *MemoryStore) CreateUser(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[u.Username]; exists {
		return ErrDuplicate
	}

	u.ID = NewID()
	s.users[u.ID] = cloneUser(u)
	s.byUsername[u.Username] = u.ID
	return nil
}

func (s *MemoryStore) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(s.users[id]), nil
}

func (s *MemoryStore) FindUserBySession(ctx context.Context, userID, sessionID string) (*User, error) {
	if !IsValidID(userID) {
		return nil, ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok || u.Session == nil || u.Session.SessionID != sessionID {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *MemoryStore) SetSession(ctx context.Context, userID string, sess Session) error {
	if !IsValidID(userID) {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.Session = &sess
	return nil
}

func (s *MemoryStore) ExtendSession(ctx context.Context, userID, sessionID string, expiresAt time.Time) error {
	if !IsValidID(userID) {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok || u.Session == nil || u.Session.SessionID != sessionID {
		return ErrNotFound
	}
	u.Session.ExpiresAt = expiresAt
	return nil
}

func (s *MemoryStore) CreatePost(ctx context.Context, p *Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = NewID()
	clone := *p
	s.posts = append(s.posts, &clone)
	return nil
}

// Posts returns a snapshot of every stored post.
func (s *MemoryStore) Posts() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, *p)
	}
	return out
}

func (s *MemoryStore) ListTests(ctx context.Context) ([]TestRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TestRecord, 0, len(s.tests))
	for _, r := range s.tests {
		out = append(out, maps.Clone(r))
	}
	return out, nil
}

// SeedTests appends every object of a JSON array to the tests collection.
func (s *MemoryStore) SeedTests(r io.Reader) (int, error) {
	var records []TestRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return 0, fmt.Errorf("store: decode tests seed: %w", err)
	}

	for _, rec := range records {
		s.AddTest(rec)
	}
	return len(records), nil
}

// AddTest appends one record to the tests collection.
func (s *MemoryStore) AddTest(r TestRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tests = append(s.tests, maps.Clone(r))
}

func cloneUser(u *User) *User {
	clone := *u
	if u.Session != nil {
		sess := *u.Session
		clone.Session = &sess
	}
	return &clone
}
