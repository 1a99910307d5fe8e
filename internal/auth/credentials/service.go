package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"sampleapp/internal/store"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("username already registered")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
)

type Users interface {
	CreateUser(ctx context.Context, u *store.User) error
	FindUserByUsername(ctx context.Context, username string) (*store.User, error)
}

type Service struct {
	users  Users
	hasher Hasher
	now    func() time.Time

	// verified against when the username is unknown
	dummyHash string
}

func NewService(users Users, hasher Hasher) *Service {
	dummy, _ := hasher.Hash("sampleapp-unknown-user")
	return &Service{
		users:     users,
		hasher:    hasher,
		now:       time.Now,
		dummyHash: dummy,
	}
}

// Register hashes the password and stores a new user. Username
// uniqueness is left to the store.
func (s *Service) Register(
	ctx context.Context,
	username string,
	password string,
) (*store.User, error) {

	if len(password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	hash, err := s.hasher.Hash(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("credentials: hash password: %w", err)
	}

	user := &store.User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}

	return user, nil
}

// Authenticate returns the user when the password matches. Unknown
// usernames and wrong passwords both yield ErrInvalidCredentials; other
// store failures are returned as-is.
func (s *Service) Authenticate(
	ctx context.Context,
	username string,
	password string,
) (*store.User, error) {

	user, err := s.users.FindUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		_ = s.hasher.Verify(s.dummyHash, password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
