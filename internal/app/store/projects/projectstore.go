package projectstore

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
	return &Store{c: db.Collection("project_uploads")}
}

var (
	errNoProjectName = errors.New("project name is required")
	errBadTechnology = errors.New(`technology type must be "solar"|"wind"|"hydro"|"battery"|"biomass"|"other"`)
)

// GetByID loads a project by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ProjectUpload, error) {
	var p models.ProjectUpload
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new project after normalizing & validating fields.
// New projects are immediately active for distribution.
func (s *Store) Create(ctx context.Context, p models.ProjectUpload) (models.ProjectUpload, error) {
	p.ID = primitive.NewObjectID()
	p.ProjectName = normalize.Name(p.ProjectName)
	p.ProjectNameCI = text.Fold(p.ProjectName)
	if p.TechnologyType == "" {
		p.TechnologyType = models.DefaultTechnologyType
	}
	if p.UploadStatus == "" {
		p.UploadStatus = models.StatusActive
	}

	if p.ProjectName == "" {
		return models.ProjectUpload{}, errNoProjectName
	}
	if !models.IsValidTechnologyType(p.TechnologyType) {
		return models.ProjectUpload{}, errBadTechnology
	}

	p.CreatedAt = time.Now()

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.ProjectUpload{}, err
	}
	return p, nil
}

// List returns all projects, newest first.
func (s *Store) List(ctx context.Context) ([]models.ProjectUpload, error) {
	return s.find(ctx, bson.M{})
}

// ListActive returns projects available for distribution, newest first.
func (s *Store) ListActive(ctx context.Context) ([]models.ProjectUpload, error) {
	return s.find(ctx, bson.M{"upload_status": models.StatusActive})
}

// ListByIDs returns the projects whose IDs are in the given set, newest
// first. Used by the investor dashboard after resolving access grants.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.ProjectUpload, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.ProjectUpload, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ProjectUpload
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddDocuments appends uploaded document metadata to a project.
func (s *Store) AddDocuments(ctx context.Context, id primitive.ObjectID, docs []models.DocumentFile) error {
	if len(docs) == 0 {
		return nil
	}
	now := time.Now()
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"document_files": bson.M{"$each": docs}},
		"$set":  bson.M{"updated_at": now},
	})
	return err
}

// SetStatus enables or disables a project for distribution.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	now := time.Now()
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"upload_status": normalize.Status(status),
		"updated_at":    now,
	}})
	return err
}

// Count returns the total number of projects.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
