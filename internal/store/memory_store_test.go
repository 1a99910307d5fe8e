package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newUser(t *testing.T, st *MemoryStore, username string) *User {
	t.Helper()

	u := &User{Username: username, PasswordHash: "hash", CreatedAt: time.Now()}
	require.NoError(t, st.CreateUser(context.Background(), u))
	require.True(t, IsValidID(u.ID))
	return u
}

func TestMemoryStore_CreateUser(t *testing.T) {
	t.Run("assigns id", func(t *testing.T) {
		st := NewMemoryStore()
		u := newUser(t, st, "alice")

		found, err := st.FindUserByUsername(context.Background(), "alice")
		require.NoError(t, err)
		require.Equal(t, u.ID, found.ID)
		require.Equal(t, "hash", found.PasswordHash)
	})

	t.Run("duplicate username", func(t *testing.T) {
		st := NewMemoryStore()
		newUser(t, st, "alice")

		err := st.CreateUser(context.Background(), &User{Username: "alice"})
		require.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("unknown username", func(t *testing.T) {
		st := NewMemoryStore()

		_, err := st.FindUserByUsername(context.Background(), "nobody")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStore_Sessions(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	u := newUser(t, st, "alice")

	_, err := st.FindUserBySession(ctx, u.ID, "s1")
	require.ErrorIs(t, err, ErrNotFound)

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, st.SetSession(ctx, u.ID, Session{SessionID: "s1", ExpiresAt: exp}))

	found, err := st.FindUserBySession(ctx, u.ID, "s1")
	require.NoError(t, err)
	require.Equal(t, exp, found.Session.ExpiresAt)

	t.Run("extend current session", func(t *testing.T) {
		later := exp.Add(time.Hour)
		require.NoError(t, st.ExtendSession(ctx, u.ID, "s1", later))

		found, err := st.FindUserBySession(ctx, u.ID, "s1")
		require.NoError(t, err)
		require.Equal(t, later, found.Session.ExpiresAt)
	})

	t.Run("overwrite invalidates old session", func(t *testing.T) {
		require.NoError(t, st.SetSession(ctx, u.ID, Session{SessionID: "s2", ExpiresAt: exp}))

		_, err := st.FindUserBySession(ctx, u.ID, "s1")
		require.ErrorIs(t, err, ErrNotFound)

		err = st.ExtendSession(ctx, u.ID, "s1", exp.Add(time.Hour))
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := st.FindUserBySession(ctx, "not-an-id", "s2")
		require.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("returned user is a copy", func(t *testing.T) {
		found, err := st.FindUserBySession(ctx, u.ID, "s2")
		require.NoError(t, err)
		found.Session.ExpiresAt = time.Time{}

		again, err := st.FindUserBySession(ctx, u.ID, "s2")
		require.NoError(t, err)
		require.Equal(t, exp, again.Session.ExpiresAt)
	})
}

func TestMemoryStore_PostsAndTests(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	p := &Post{Title: "hello", CreatedBy: NewID(), CreatedAt: time.Now()}
	require.NoError(t, st.CreatePost(ctx, p))
	require.True(t, IsValidID(p.ID))
	require.Len(t, st.Posts(), 1)

	records, err := st.ListTests(ctx)
	require.NoError(t, err)
	require.Empty(t, records)

	st.AddTest(TestRecord{"name": "first"})
	records, err = st.ListTests(ctx)
	require.NoError(t, err)
	require.Equal(t, []TestRecord{{"name": "first"}}, records)
}

func TestMemoryStore_SeedTests(t *testing.T) {
	st := NewMemoryStore()

	n, err := st.SeedTests(strings.NewReader(`[{"name":"first"},{"name":"second","score":2}]`))
	require.NoError(t, err)
	require.Equal(t, 2, n)

	records, err := st.ListTests(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "second", records[1]["name"])

	_, err = st.SeedTests(strings.NewReader(`{"name":"not an array"}`))
	require.Error(t, err)
}

func TestIsValidID(t *testing.T) {
	require.True(t, IsValidID("507f1f77bcf86cd799439011"))
	require.False(t, IsValidID(""))
	require.False(t, IsValidID("507f1f77bcf86cd79943901"))
	require.False(t, IsValidID("zzzzzzzzzzzzzzzzzzzzzzzz"))
}
