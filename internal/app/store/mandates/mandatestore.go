package mandatestore

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
	return &Store{c: db.Collection("investor_mandates")}
}

var (
	errNoInvestorName = errors.New("investor name is required")
	errBadRange       = errors.New("max investment must be at least min investment")
)

// GetByID loads a mandate by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.InvestorMandate, error) {
	var m models.InvestorMandate
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new mandate after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, m models.InvestorMandate) (models.InvestorMandate, error) {
	m.ID = primitive.NewObjectID()
	m.InvestorName = normalize.Name(m.InvestorName)
	m.InvestorNameCI = text.Fold(m.InvestorName)
	if m.Status == "" {
		m.Status = models.StatusActive
	}

	if m.InvestorName == "" {
		return models.InvestorMandate{}, errNoInvestorName
	}
	if m.MaxInvestment > 0 && m.MaxInvestment < m.MinInvestment {
		return models.InvestorMandate{}, errBadRange
	}

	m.CreatedAt = time.Now()

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.InvestorMandate{}, err
	}
	return m, nil
}

// ListByIntroducer returns all mandates owned by an introducer, newest first.
func (s *Store) ListByIntroducer(ctx context.Context, introducerID primitive.ObjectID) ([]models.InvestorMandate, error) {
	return s.find(ctx, bson.M{"introducer_id": introducerID})
}

// ListActiveByIntroducer returns the introducer's active mandates, newest
// first. This is the set that deal assignment fans out over.
func (s *Store) ListActiveByIntroducer(ctx context.Context, introducerID primitive.ObjectID) ([]models.InvestorMandate, error) {
	return s.find(ctx, bson.M{
		"introducer_id": introducerID,
		"status":        models.StatusActive,
	})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.InvestorMandate, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.InvestorMandate
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetStatus activates or deactivates a mandate.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	now := time.Now()
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     normalize.Status(status),
		"updated_at": now,
	}})
	return err
}
