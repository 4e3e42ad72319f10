// server/internal/database/mongo.go
package database

import (
	"context"
	"fmt"
	"time"

	"lifelink-api-server/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	UsersCollection            = "users"
	DonationRequestsCollection = "donationRequests"
	FundsCollection            = "funds"
	DistrictsCollection        = "districts"
	UpazilasCollection         = "upazilas"
	RequestsCollection         = "requests"
	NotificationsCollection    = "notifications"
)

// Database owns the process-wide client. It is created once in main and
// closed by Disconnect on shutdown.
type Database struct {
	Client *mongo.Client
	DB     *mongo.Database
}

func Connect(ctx context.Context, cfg config.MongoConfig) (*Database, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).SetStrict(true).SetDeprecationErrors(true)
	opts := options.Client().ApplyURI(cfg.URI).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Database{Client: client, DB: client.Database(cfg.DBName)}, nil
}

func (d *Database) Disconnect(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}

// EnsureIndexes creates the unique indexes the handlers rely on for
// duplicate detection.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string]mongo.IndexModel{
		UsersCollection: {
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		FundsCollection: {
			Keys:    bson.D{{Key: "paymentId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		DonationRequestsCollection: {
			Keys: bson.D{{Key: "requesterId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		NotificationsCollection: {
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}

	for name, model := range indexes {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", name, err)
		}
	}
	return nil
}

// newestFirst is the default sort for every listing.
func newestFirst(field string) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: -1}})
}

func insertedID(result *mongo.InsertOneResult, fallback primitive.ObjectID) primitive.ObjectID {
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		return oid
	}
	return fallback
}
