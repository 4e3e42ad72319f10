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

var withoutPassword = bson.M{"password": 0}

type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(UsersCollection)}
}

// Create inserts a user. A duplicate email yields ErrConflict.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	result, err := s.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = insertedID(result, user.ID)
	return nil
}

// FindByEmail returns the full record, password hash included.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

// FindByID returns the full record, password hash included.
func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := s.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *UserStore) List(ctx context.Context, f models.UserFilter) ([]models.User, error) {
	filter := bson.M{}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return s.find(ctx, filter, newestFirst("createdAt").SetProjection(withoutPassword))
}

// MatchDonors runs the exact-match donor search over active donors.
func (s *UserStore) MatchDonors(ctx context.Context, m models.DonorMatch) ([]models.User, error) {
	filter := bson.M{
		"role":       models.RoleDonor,
		"status":     models.StatusActive,
		"bloodGroup": m.BloodGroup,
		"district":   m.District,
		"upazila":    m.Upazila,
	}
	return s.find(ctx, filter, options.Find().SetProjection(withoutPassword))
}

func (s *UserStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.User, error) {
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// UpdateProfile merges the given whitelisted fields and returns the new record.
func (s *UserStore) UpdateProfile(ctx context.Context, id string, fields map[string]string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutPassword)

	var user models.User
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &user, nil
}

func (s *UserStore) UpdatePassword(ctx context.Context, id, hash string) error {
	return s.updateByID(ctx, id, bson.M{"password": hash})
}

// SetStatus is idempotent: setting the current status again succeeds.
func (s *UserStore) SetStatus(ctx context.Context, id, status string) error {
	return s.updateByID(ctx, id, bson.M{"status": status})
}

func (s *UserStore) SetAvailability(ctx context.Context, id, availability, district, upazila string) error {
	set := bson.M{"availability": availability}
	if district != "" {
		set["district"] = district
	}
	if upazila != "" {
		set["upazila"] = upazila
	}
	return s.updateByID(ctx, id, set)
}

func (s *UserStore) updateByID(ctx context.Context, id string, set bson.M) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	set["updatedAt"] = time.Now()

	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRole changes the role only if the user does not already hold it.
// An unknown id yields ErrNotFound, a user already in role yields ErrConflict.
func (s *UserStore) SetRole(ctx context.Context, id, role string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": oid, "role": bson.M{"$ne": role}}
	update := bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now()}}
	result, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	count, err := s.coll.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("count user: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

func (s *UserStore) CountByRole(ctx context.Context) (map[string]int64, error) {
	return countBy(ctx, s.coll, "$role")
}

// countBy groups a collection on field and returns the counts per value.
func countBy(ctx context.Context, coll *mongo.Collection, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Key   string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode %s counts: %w", coll.Name(), err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Key] = r.Count
	}
	return counts, nil
}
