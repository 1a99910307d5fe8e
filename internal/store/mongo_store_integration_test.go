//go:build integration

package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func setupMongoContainer(t *testing.T, ctx context.Context) (*MongoStore, *mongo.Database, func()) {
	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForLog("Waiting for connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(fmt.Sprintf("mongodb://%s:%s", host, port.Port())))
	require.NoError(t, err)

	db := client.Database("sampleapp_test")
	st := NewMongoStore(db)
	require.NoError(t, st.EnsureIndexes(ctx))

	cleanup := func() {
		_ = client.Disconnect(ctx)
		_ = container.Terminate(ctx)
	}

	return st, db, cleanup
}

func TestIntegration_MongoStore(t *testing.T) {
	ctx := context.Background()
	st, db, cleanup := setupMongoContainer(t, ctx)
	defer cleanup()

	u := &User{Username: "alice", PasswordHash: "hash", CreatedAt: time.Now().UTC()}

	t.Run("create user", func(t *testing.T) {
		require.NoError(t, st.CreateUser(ctx, u))
		require.True(t, IsValidID(u.ID))
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := st.CreateUser(ctx, &User{Username: "alice", PasswordHash: "other"})
		require.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("find by username", func(t *testing.T) {
		found, err := st.FindUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, u.ID, found.ID)
		require.Nil(t, found.Session)
	})

	exp := time.Now().Add(time.Hour).UTC().Truncate(time.Millisecond)

	t.Run("set and find session", func(t *testing.T) {
		require.NoError(t, st.SetSession(ctx, u.ID, Session{SessionID: "s1", ExpiresAt: exp}))

		found, err := st.FindUserBySession(ctx, u.ID, "s1")
		require.NoError(t, err)
		require.True(t, exp.Equal(found.Session.ExpiresAt))

		_, err = st.FindUserBySession(ctx, u.ID, "other")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("extend session scoped to session id", func(t *testing.T) {
		later := exp.Add(time.Hour)
		require.NoError(t, st.ExtendSession(ctx, u.ID, "s1", later))

		found, err := st.FindUserBySession(ctx, u.ID, "s1")
		require.NoError(t, err)
		require.True(t, later.Equal(found.Session.ExpiresAt))

		require.ErrorIs(t, st.ExtendSession(ctx, u.ID, "stale", later), ErrNotFound)
	})

	t.Run("create post", func(t *testing.T) {
		p := &Post{Title: "hello", Content: "world", CreatedBy: u.ID, CreatedAt: time.Now().UTC()}
		require.NoError(t, st.CreatePost(ctx, p))
		require.True(t, IsValidID(p.ID))
	})

	t.Run("list tests", func(t *testing.T) {
		_, err := db.Collection(testsCollection).InsertOne(ctx, bson.M{"name": "first"})
		require.NoError(t, err)

		records, err := st.ListTests(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Equal(t, "first", records[0]["name"])
	})
}
