package database

import (
	"context"
	"fmt"

	"lifelink-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type NotificationStore struct {
	coll *mongo.Collection
}

func NewNotificationStore(db *mongo.Database) *NotificationStore {
	return &NotificationStore{coll: db.Collection(NotificationsCollection)}
}

func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) error {
	result, err := s.coll.InsertOne(ctx, n)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	n.ID = insertedID(result, n.ID)
	return nil
}

func (s *NotificationStore) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	oid, err := objectID(userID)
	if err != nil {
		return nil, err
	}

	cursor, err := s.coll.Find(ctx, bson.M{"userId": oid}, newestFirst("createdAt"))
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var list []models.Notification
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	if list == nil {
		list = []models.Notification{}
	}
	return list, nil
}

// MarkRead flags one notification as read. The owner filter means another
// user's notification is reported as ErrNotFound.
func (s *NotificationStore) MarkRead(ctx context.Context, id, userID string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	uid, err := objectID(userID)
	if err != nil {
		return err
	}

	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid, "userId": uid}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *NotificationStore) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	uid, err := objectID(userID)
	if err != nil {
		return 0, err
	}

	result, err := s.coll.UpdateMany(ctx, bson.M{"userId": uid, "read": false}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return result.ModifiedCount, nil
}
