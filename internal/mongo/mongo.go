package mongo

import (
	"context"
	"fmt"
	"time"

	gomongo "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Client owns the process-wide MongoDB connection. It is created once at
// start-up and handed to the components that need a database.
type Client struct {
	*gomongo.Client
	db *gomongo.Database
}

func New(ctx context.Context, uri, database string) (*Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := gomongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	return &Client{Client: client, db: client.Database(database)}, nil
}

func (c *Client) Database() *gomongo.Database {
	return c.db
}

func (c *Client) Close(ctx context.Context) error {
	return c.Disconnect(ctx)
}
