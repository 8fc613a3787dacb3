package introducerstore

import (
	"context"
	"errors"
	"time"

	"github.com/bearenergy/dealflow/internal/app/system/normalize"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("introducers")}
}

var errNoName = errors.New("introducer name is required")

// GetByID loads an introducer profile by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Introducer, error) {
	var in models.Introducer
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&in); err != nil {
		return nil, err
	}
	return &in, nil
}

// GetByUserID loads the introducer profile owned by a portal user.
// Returns mongo.ErrNoDocuments if the user has no profile.
func (s *Store) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Introducer, error) {
	var in models.Introducer
	if err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&in); err != nil {
		return nil, err
	}
	return &in, nil
}

// Create inserts a new introducer profile after normalizing fields.
// A zero commission rate falls back to the platform default so assignment
// fan-out always has a rate to copy.
func (s *Store) Create(ctx context.Context, in models.Introducer) (models.Introducer, error) {
	in.ID = primitive.NewObjectID()
	in.Name = normalize.Name(in.Name)
	in.NameCI = text.Fold(in.Name)
	in.Email = normalize.Email(in.Email)
	in.Company = normalize.Name(in.Company)
	in.CompanyCI = text.Fold(in.Company)
	if in.Status == "" {
		in.Status = models.StatusActive
	}
	if in.CommissionRate <= 0 {
		in.CommissionRate = models.DefaultCommissionRate
	}

	if in.Name == "" {
		return models.Introducer{}, errNoName
	}

	in.CreatedAt = time.Now()

	if _, err := s.c.InsertOne(ctx, in); err != nil {
		return models.Introducer{}, err
	}
	return in, nil
}

// List returns all introducer profiles sorted by name.
func (s *Store) List(ctx context.Context) ([]models.Introducer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Introducer
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListActive returns active introducer profiles sorted by name.
func (s *Store) ListActive(ctx context.Context) ([]models.Introducer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"status": models.StatusActive}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Introducer
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecordClosedDeal bumps the introducer's running totals when one of their
// assignments completes.
func (s *Store) RecordClosedDeal(ctx context.Context, id primitive.ObjectID, commissionEarned float64) error {
	now := time.Now()
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{
			"total_deals_closed":      1,
			"total_commission_earned": commissionEarned,
		},
		"$set": bson.M{"updated_at": now},
	})
	return err
}

// Count returns the total number of introducer profiles.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
