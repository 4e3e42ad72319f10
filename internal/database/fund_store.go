package database

import (
	"context"
	"fmt"

	"lifelink-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type FundStore struct {
	coll *mongo.Collection
}

func NewFundStore(db *mongo.Database) *FundStore {
	return &FundStore{coll: db.Collection(FundsCollection)}
}

// Create records a confirmed payment. A reused paymentId yields ErrConflict.
func (s *FundStore) Create(ctx context.Context, fund *models.FundRecord) error {
	result, err := s.coll.InsertOne(ctx, fund)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert fund: %w", err)
	}
	fund.ID = insertedID(result, fund.ID)
	return nil
}

func (s *FundStore) List(ctx context.Context) ([]models.FundRecord, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, newestFirst("date"))
	if err != nil {
		return nil, fmt.Errorf("query funds: %w", err)
	}
	defer cursor.Close(ctx)

	var funds []models.FundRecord
	if err := cursor.All(ctx, &funds); err != nil {
		return nil, fmt.Errorf("decode funds: %w", err)
	}
	if funds == nil {
		funds = []models.FundRecord{}
	}
	return funds, nil
}

// Total sums every recorded amount. An empty collection sums to 0.
func (s *FundStore) Total(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalAmount", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate funds: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		TotalAmount float64 `bson:"totalAmount"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode fund total: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].TotalAmount, nil
}
