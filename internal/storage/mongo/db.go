package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultDatabase is used when the connection URL names no database
const DefaultDatabase = "airbnb"

// Collection names
const (
	ListingsCollection = "listings"
	UsersCollection    = "users"
	SessionsCollection = "sessions"
)

// DB wraps a connected client and the application database
type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

// Connect dials MongoDB and verifies the connection with a ping
func Connect(ctx context.Context, uri, database string) (*DB, error) {
	if database == "" {
		database = DatabaseFromURL(uri)
	}

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &DB{client: client, database: client.Database(database)}, nil
}

// Database returns the application database handle
func (db *DB) Database() *mongo.Database {
	return db.database
}

// Ping checks the server is reachable
func (db *DB) Ping(ctx context.Context) error {
	return db.client.Ping(ctx, nil)
}

// Close disconnects the client
func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique email index and the session TTL index.
// Creating an index that already exists is a no-op.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	users := db.database.Collection(UsersCollection)
	if _, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	}); err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}

	sessions := db.database.Collection(SessionsCollection)
	if _, err := sessions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName("expires_ttl"),
	}); err != nil {
		return fmt.Errorf("create sessions ttl index: %w", err)
	}

	listings := db.database.Collection(ListingsCollection)
	if _, err := listings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("created_desc"),
	}); err != nil {
		return fmt.Errorf("create listings created index: %w", err)
	}

	return nil
}

// DatabaseFromURL extracts the database name from a mongodb:// URL path
func DatabaseFromURL(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return DefaultDatabase
	}
	name := strings.Trim(u.Path, "/")
	if name == "" {
		return DefaultDatabase
	}
	return name
}
