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

type DonationStore struct {
	coll *mongo.Collection
}

func NewDonationStore(db *mongo.Database) *DonationStore {
	return &DonationStore{coll: db.Collection(DonationRequestsCollection)}
}

func (s *DonationStore) Create(ctx context.Context, req *models.DonationRequest) error {
	result, err := s.coll.InsertOne(ctx, req)
	if err != nil {
		return fmt.Errorf("insert donation request: %w", err)
	}
	req.ID = insertedID(result, req.ID)
	return nil
}

func (s *DonationStore) FindByID(ctx context.Context, id string) (*models.DonationRequest, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var req models.DonationRequest
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&req); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find donation request: %w", err)
	}
	return &req, nil
}

// ListByRequester returns the caller's own requests, newest first.
func (s *DonationStore) ListByRequester(ctx context.Context, requesterID, status string) ([]models.DonationRequest, error) {
	filter := bson.M{"requesterId": requesterID}
	if status != "" {
		filter["donationStatus"] = status
	}
	return s.find(ctx, filter)
}

// List returns every request, optionally narrowed to one status.
func (s *DonationStore) List(ctx context.Context, status string) ([]models.DonationRequest, error) {
	filter := bson.M{}
	if status != "" {
		filter["donationStatus"] = status
	}
	return s.find(ctx, filter)
}

func (s *DonationStore) find(ctx context.Context, filter bson.M) ([]models.DonationRequest, error) {
	cursor, err := s.coll.Find(ctx, filter, newestFirst("createdAt"))
	if err != nil {
		return nil, fmt.Errorf("query donation requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.DonationRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("decode donation requests: %w", err)
	}
	if requests == nil {
		requests = []models.DonationRequest{}
	}
	return requests, nil
}

// Transition applies t atomically: the write only matches while the request
// is still in one of t.From, so of two concurrent accepts exactly one wins.
// When nothing matches the request is re-read to tell ErrNotFound,
// ErrForbidden (owner mismatch) and ErrConflict (wrong source state) apart.
func (s *DonationStore) Transition(ctx context.Context, id string, t models.DonationTransition) (*models.DonationRequest, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": oid, "donationStatus": bson.M{"$in": t.From}}
	if t.Owner != "" {
		filter["requesterId"] = t.Owner
	}
	set := bson.M{"donationStatus": t.To, "updatedAt": time.Now()}
	if t.Donor != nil {
		set["donorInfo"] = t.Donor
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.DonationRequest
	err = s.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("transition donation request: %w", err)
	}

	current, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Owner != "" && current.RequesterID != t.Owner {
		return nil, ErrForbidden
	}
	return nil, fmt.Errorf("%w: request is %s", ErrConflict, current.DonationStatus)
}

func (s *DonationStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countBy(ctx, s.coll, "$donationStatus")
}
