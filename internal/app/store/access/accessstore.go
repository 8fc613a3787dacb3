package accessstore

import (
	"context"
	"errors"
	"time"

	"github.com/bearenergy/dealflow/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("investor_project_access")}
}

var errBadTier = errors.New("access tier must be 1, 2, or 3")

// Upsert grants or updates access for one (investor, project) pair. The
// unique index on the pair guarantees at most one grant per pair; regrants
// replace the tier rather than stacking a second document.
func (s *Store) Upsert(ctx context.Context, investorUserID, projectID primitive.ObjectID, tier int, grantedByID primitive.ObjectID) error {
	if !models.IsValidAccessTier(tier) {
		return errBadTier
	}

	now := time.Now()
	filter := bson.M{
		"investor_user_id": investorUserID,
		"project_id":       projectID,
	}
	update := bson.M{
		"$set": bson.M{
			"access_tier":   tier,
			"granted_by_id": grantedByID,
			"updated_at":    now,
		},
		"$setOnInsert": bson.M{
			"investor_user_id": investorUserID,
			"project_id":       projectID,
			"granted_at":       now,
		},
	}

	_, err := s.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// TierFor returns the effective access tier an investor holds for a project,
// and false when no grant exists. Malformed stored tiers clamp to tier 1.
func (s *Store) TierFor(ctx context.Context, investorUserID, projectID primitive.ObjectID) (int, bool, error) {
	var grant models.InvestorProjectAccess
	err := s.c.FindOne(ctx, bson.M{
		"investor_user_id": investorUserID,
		"project_id":       projectID,
	}).Decode(&grant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return models.EffectiveTier(grant.AccessTier), true, nil
}

// ListByInvestor returns all grants held by an investor, newest first.
func (s *Store) ListByInvestor(ctx context.Context, investorUserID primitive.ObjectID) ([]models.InvestorProjectAccess, error) {
	opts := options.Find().SetSort(bson.D{{Key: "granted_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"investor_user_id": investorUserID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.InvestorProjectAccess
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Revoke removes an investor's grant for a project. Returns the number of
// documents deleted (0 or 1).
func (s *Store) Revoke(ctx context.Context, investorUserID, projectID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{
		"investor_user_id": investorUserID,
		"project_id":       projectID,
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
