package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names. Leads live in the main collection; the name is
// configurable because legacy deployments used "main_data".
var (
	CollectionLeads      = "main_data"
	CollectionActivities = "activities"
	CollectionUsers      = "users"
	CollectionQuotes     = "quotes"
)

// Sentinel errors the query layer returns; handlers map them to HTTP codes.
var (
	ErrInvalidID = errors.New("invalid identifier format")
	ErrNotFound  = errors.New("record not found")
	ErrForbidden = errors.New("not authorized for this record")
	ErrDuplicate = errors.New("record already exists")
)

var (
	client *mongo.Client
	db     *mongo.Database
)

// Init opens the MongoDB client pool and verifies the connection.
func Init() error {
	uri := env("MONGO_URL", "mongodb://localhost:27017")
	dbName := env("DATABASE_NAME", "infos")
	CollectionLeads = env("MAIN_COLLECTION", CollectionLeads)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("mongo.Connect: %w", err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("mongo ping: %w", err)
	}

	db = client.Database(dbName)
	log.Printf("[database] MongoDB connected (db=%s)", dbName)
	return nil
}

// Close tears down the client pool (call defer database.Close()).
func Close() {
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = client.Disconnect(ctx)
}

// Collection returns a handle by name.
func Collection(name string) *mongo.Collection {
	return db.Collection(name)
}

// Leads, Activities, Users and Quotes are shorthands for the four core
// collections.
func Leads() *mongo.Collection      { return db.Collection(CollectionLeads) }
func Activities() *mongo.Collection { return db.Collection(CollectionActivities) }
func Users() *mongo.Collection      { return db.Collection(CollectionUsers) }
func Quotes() *mongo.Collection     { return db.Collection(CollectionQuotes) }

// ParseID converts a hex identifier from the request path into an ObjectID,
// yielding ErrInvalidID on malformed input.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
