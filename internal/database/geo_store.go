package database

import (
	"context"
	"errors"
	"fmt"

	"lifelink-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GeoStore reads the single-document reference tables.
type GeoStore struct {
	districts *mongo.Collection
	upazilas  *mongo.Collection
}

func NewGeoStore(db *mongo.Database) *GeoStore {
	return &GeoStore{
		districts: db.Collection(DistrictsCollection),
		upazilas:  db.Collection(UpazilasCollection),
	}
}

// Districts returns the whole district table, or an empty slice if unseeded.
func (s *GeoStore) Districts(ctx context.Context) ([]models.District, error) {
	var doc struct {
		Data []models.District `bson:"data"`
	}
	if err := s.table(ctx, s.districts, models.GeoDistricts, &doc); err != nil {
		return nil, err
	}
	if doc.Data == nil {
		return []models.District{}, nil
	}
	return doc.Data, nil
}

// Upazilas returns the upazilas belonging to districtID.
func (s *GeoStore) Upazilas(ctx context.Context, districtID string) ([]models.Upazila, error) {
	var doc struct {
		Data []models.Upazila `bson:"data"`
	}
	if err := s.table(ctx, s.upazilas, models.GeoUpazilas, &doc); err != nil {
		return nil, err
	}

	out := []models.Upazila{}
	for _, u := range doc.Data {
		if u.DistrictID == districtID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *GeoStore) table(ctx context.Context, coll *mongo.Collection, name string, out interface{}) error {
	err := coll.FindOne(ctx, bson.M{"name": name}).Decode(out)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("find %s table: %w", name, err)
	}
	return nil
}

// SeedTable inserts the reference document for name unless one already
// exists. It reports whether the table was written.
func (s *GeoStore) SeedTable(ctx context.Context, name string, data interface{}) (bool, error) {
	coll := s.districts
	if name == models.GeoUpazilas {
		coll = s.upazilas
	}
	result, err := coll.UpdateOne(ctx,
		bson.M{"name": name},
		bson.M{"$setOnInsert": bson.M{"data": data}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("seed %s table: %w", name, err)
	}
	return result.UpsertedCount > 0, nil
}
