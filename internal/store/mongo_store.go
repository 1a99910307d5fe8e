package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection = "users"
	postsCollection = "posts"
	testsCollection = "tests"
)

type sessionDoc struct {
	SessionID string    `bson:"sessionId"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"passwordHash"`
	CreatedAt    time.Time          `bson:"createdAt"`
	Session      *sessionDoc        `bson:"session,omitempty"`
}

type postDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content,omitempty"`
	CreatedBy string             `bson:"createdBy"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// MongoStore implements Store on a MongoDB database handle.
type MongoStore struct {
	users *mongo.Collection
	posts *mongo.Collection
	tests *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		users: db.Collection(usersCollection),
		posts: db.Collection(postsCollection),
		tests: db.Collection(testsCollection),
	}
}

// EnsureIndexes creates the unique username index. Safe to call on every start.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_username_unique"),
	})
	if err != nil {
		return fmt.Errorf("store: create username index: %w", err)
	}
	return nil
}

func (s *MongoStore) CreateUser(ctx context.Context, u *User) error {
	doc := userDoc{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}

	res, err := s.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("store: insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("store: unexpected inserted id type %T", res.InsertedID)
	}
	u.ID = oid.Hex()
	return nil
}

func (s *MongoStore) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	return s.findUser(ctx, bson.M{"username": username})
}

func (s *MongoStore) FindUserBySession(ctx context.Context, userID, sessionID string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrInvalidID
	}
	return s.findUser(ctx, bson.M{"_id": oid, "session.sessionId": sessionID})
}

func (s *MongoStore) SetSession(ctx context.Context, userID string, sess Session) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrInvalidID
	}

	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"session": sessionDoc{
			SessionID: sess.SessionID,
			ExpiresAt: sess.ExpiresAt,
		}}},
	)
	if err != nil {
		return fmt.Errorf("store: set session: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) ExtendSession(ctx context.Context, userID, sessionID string, expiresAt time.Time) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrInvalidID
	}

	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": oid, "session.sessionId": sessionID},
		bson.M{"$set": bson.M{"session.expiresAt": expiresAt}},
	)
	if err != nil {
		return fmt.Errorf("store: extend session: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) CreatePost(ctx context.Context, p *Post) error {
	res, err := s.posts.InsertOne(ctx, postDoc{
		Title:     p.Title,
		Content:   p.Content,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("store: insert post: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("store: unexpected inserted id type %T", res.InsertedID)
	}
	p.ID = oid.Hex()
	return nil
}

func (s *MongoStore) ListTests(ctx context.Context) ([]TestRecord, error) {
	cur, err := s.tests.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("store: find tests: %w", err)
	}
	defer cur.Close(ctx)

	records := []TestRecord{}
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("store: decode test record: %w", err)
		}
		records = append(records, TestRecord(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate tests: %w", err)
	}

	return records, nil
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: find user: %w", err)
	}
	return doc.toUser(), nil
}

func (d userDoc) toUser() *User {
	u := &User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
	if d.Session != nil {
		u.Session = &Session{
			SessionID: d.Session.SessionID,
			ExpiresAt: d.Session.ExpiresAt,
		}
	}
	return u
}
