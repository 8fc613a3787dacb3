package dealstore

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
	return &Store{c: db.Collection("deals")}
}

var (
	errNoTitle     = errors.New("deal title is required")
	errBadPriority = errors.New(`priority must be "low"|"medium"|"high"|"urgent"`)
)

// GetByID loads a deal by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Deal, error) {
	var d models.Deal
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new deal after normalizing & validating fields.
// New deals always start with status "active".
func (s *Store) Create(ctx context.Context, d models.Deal) (models.Deal, error) {
	d.ID = primitive.NewObjectID()
	d.Title = normalize.Name(d.Title)
	d.TitleCI = text.Fold(d.Title)
	d.Status = models.DealStatusActive
	if d.Priority == "" {
		d.Priority = models.DefaultDealPriority
	}

	if d.Title == "" {
		return models.Deal{}, errNoTitle
	}
	if !models.IsValidDealPriority(d.Priority) {
		return models.Deal{}, errBadPriority
	}

	d.CreatedAt = time.Now()

	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Deal{}, err
	}
	return d, nil
}

// List returns all deals, newest first.
func (s *Store) List(ctx context.Context) ([]models.Deal, error) {
	return s.find(ctx, bson.M{})
}

// ListByStatus returns deals with the given status, newest first.
func (s *Store) ListByStatus(ctx context.Context, status string) ([]models.Deal, error) {
	return s.find(ctx, bson.M{"status": normalize.Status(status)})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Deal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var deals []models.Deal
	if err := cur.All(ctx, &deals); err != nil {
		return nil, err
	}
	return deals, nil
}

// Search returns deals whose title contains the query, matched
// case-insensitively against the folded title, newest first.
func (s *Store) Search(ctx context.Context, query string) ([]models.Deal, error) {
	folded := text.Fold(normalize.Name(query))
	if folded == "" {
		return s.find(ctx, bson.M{})
	}
	return s.find(ctx, bson.M{"title_ci": bson.M{
		"$regex": primitive.Regex{Pattern: regexQuote(folded)},
	}})
}

// regexQuote escapes regex metacharacters so user search input is treated
// literally.
func regexQuote(s string) string {
	const meta = `\.+*?()|[]{}^$`
	out := make([]rune, 0, len(s))
	for _, r := range s {
		for _, m := range meta {
			if r == m {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, r)
	}
	return string(out)
}

// SumInvestmentRequired totals the investment requirement across all deals.
func (s *Store) SumInvestmentRequired(ctx context.Context) (float64, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$investment_required"},
		}}},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var out []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}

// SetStatus moves a deal to a new status.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	now := time.Now()
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": now,
	}})
	return err
}

// Count returns the total number of deals.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// CountByStatus returns the number of deals with the given status.
func (s *Store) CountByStatus(ctx context.Context, status string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": normalize.Status(status)})
}
