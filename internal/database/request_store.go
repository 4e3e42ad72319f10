package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lifelink-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RequestStore backs the volunteer-assigned lifecycle in the requests collection.
type RequestStore struct {
	coll *mongo.Collection
}

func NewRequestStore(db *mongo.Database) *RequestStore {
	return &RequestStore{coll: db.Collection(RequestsCollection)}
}

func (s *RequestStore) Create(ctx context.Context, req *models.Request) error {
	result, err := s.coll.InsertOne(ctx, req)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	req.ID = insertedID(result, req.ID)
	return nil
}

func (s *RequestStore) FindByID(ctx context.Context, id string) (*models.Request, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var req models.Request
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&req); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find request: %w", err)
	}
	return &req, nil
}

// ListForVolunteer returns open requests plus the ones volunteerID accepted.
func (s *RequestStore) ListForVolunteer(ctx context.Context, volunteerID string) ([]models.Request, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"status": models.RequestPending},
		bson.M{"acceptedBy._id": volunteerID},
	}}
	return s.find(ctx, filter)
}

func (s *RequestStore) ListByRequester(ctx context.Context, requesterID string) ([]models.Request, error) {
	return s.find(ctx, bson.M{"requester._id": requesterID})
}

func (s *RequestStore) find(ctx context.Context, filter bson.M) ([]models.Request, error) {
	cursor, err := s.coll.Find(ctx, filter, newestFirst("createdAt"))
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.Request
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("decode requests: %w", err)
	}
	if requests == nil {
		requests = []models.Request{}
	}
	return requests, nil
}

// Accept moves a pending request to accepted. Only one volunteer can win.
func (s *RequestStore) Accept(ctx context.Context, id string, by models.PersonRef) (*models.Request, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	filter := bson.M{"_id": oid, "status": models.RequestPending}
	update := bson.M{"$set": bson.M{
		"status":     models.RequestAccepted,
		"acceptedBy": by,
		"acceptedAt": now,
	}}

	updated, err := s.update(ctx, filter, update)
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return updated, err
	}

	current, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: request is already %s", ErrConflict, current.Status)
}

// Complete moves an accepted request to completed. Only the volunteer who
// accepted it may complete it.
func (s *RequestStore) Complete(ctx context.Context, id string, by models.PersonRef) (*models.Request, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	filter := bson.M{
		"_id":            oid,
		"status":         models.RequestAccepted,
		"acceptedBy._id": by.ID,
	}
	update := bson.M{"$set": bson.M{
		"status":      models.RequestCompleted,
		"completedBy": by,
		"completedAt": now,
	}}

	updated, err := s.update(ctx, filter, update)
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return updated, err
	}

	current, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != models.RequestAccepted {
		return nil, fmt.Errorf("%w: only accepted requests can be completed", ErrConflict)
	}
	return nil, ErrForbidden
}

// update returns mongo.ErrNoDocuments untouched so callers can classify it.
func (s *RequestStore) update(ctx context.Context, filter, update bson.M) (*models.Request, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var req models.Request
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		return nil, fmt.Errorf("update request: %w", err)
	}
	return &req, nil
}
