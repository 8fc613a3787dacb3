package assignmentstore

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
	return &Store{c: db.Collection("deal_assignments")}
}

var errBadStatus = errors.New(`assignment status must be "assigned"|"in_progress"|"completed"|"rejected"`)

// Collection exposes the underlying collection for multi-store workflows
// that need to write through a transaction session context.
func (s *Store) Collection() *mongo.Collection {
	return s.c
}

// GetByID loads an assignment by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.DealAssignment, error) {
	var a models.DealAssignment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByIntroducer returns all assignments for an introducer, newest first.
func (s *Store) ListByIntroducer(ctx context.Context, introducerID primitive.ObjectID) ([]models.DealAssignment, error) {
	return s.find(ctx, bson.M{"introducer_id": introducerID})
}

// ListByDeal returns all assignments created for a deal.
func (s *Store) ListByDeal(ctx context.Context, dealID primitive.ObjectID) ([]models.DealAssignment, error) {
	return s.find(ctx, bson.M{"deal_id": dealID})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.DealAssignment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "assigned_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.DealAssignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetStatus moves an assignment to a new workflow status, optionally
// replacing the introducer's notes.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status, notes string) error {
	if !models.IsValidAssignmentStatus(status) {
		return errBadStatus
	}

	now := time.Now()
	set := bson.M{
		"status":     status,
		"updated_at": now,
	}
	if notes != "" {
		set["notes"] = notes
	}

	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// DeleteByDeal removes every assignment created for a deal. Used by the
// compensation path when a fan-out cannot be committed atomically.
func (s *Store) DeleteByDeal(ctx context.Context, dealID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"deal_id": dealID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByIntroducer returns the number of assignments for an introducer.
func (s *Store) CountByIntroducer(ctx context.Context, introducerID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"introducer_id": introducerID})
}

// Count returns the total number of assignments.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
