package developerstore

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
	return &Store{c: db.Collection("crm_developers")}
}

var (
	errNoCompany      = errors.New("company name is required")
	errBadTechnology  = errors.New(`technology type must be "solar"|"wind"|"hydro"|"battery"|"biomass"|"other"`)
	errBadSuccessFee  = errors.New("estimated success fee must be between 0 and 100")
	errNegativeValue  = errors.New("estimated value cannot be negative")
	errNegativeSizeMW = errors.New("typical project size cannot be negative")
)

// GetByID loads a developer record by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.CRMDeveloper, error) {
	var d models.CRMDeveloper
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new developer record after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, d models.CRMDeveloper) (models.CRMDeveloper, error) {
	d.ID = primitive.NewObjectID()
	d.CompanyName = normalize.Name(d.CompanyName)
	d.CompanyNameCI = text.Fold(d.CompanyName)
	d.ContactPerson = normalize.Name(d.ContactPerson)
	d.Email = normalize.Email(d.Email)
	if d.TechnologyType == "" {
		d.TechnologyType = models.DefaultTechnologyType
	}

	if d.CompanyName == "" {
		return models.CRMDeveloper{}, errNoCompany
	}
	if !models.IsValidTechnologyType(d.TechnologyType) {
		return models.CRMDeveloper{}, errBadTechnology
	}
	if d.EstimatedSuccessFeePercent < 0 || d.EstimatedSuccessFeePercent > 100 {
		return models.CRMDeveloper{}, errBadSuccessFee
	}
	if d.EstimatedValueGBP < 0 {
		return models.CRMDeveloper{}, errNegativeValue
	}
	if d.TypicalProjectSizeMW < 0 {
		return models.CRMDeveloper{}, errNegativeSizeMW
	}

	d.CreatedAt = time.Now()

	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.CRMDeveloper{}, err
	}
	return d, nil
}

// List returns all developer records sorted by company name.
func (s *Store) List(ctx context.Context) ([]models.CRMDeveloper, error) {
	return s.find(ctx, bson.M{})
}

// ListByTechnology returns developer records for one technology type,
// sorted by company name.
func (s *Store) ListByTechnology(ctx context.Context, technology string) ([]models.CRMDeveloper, error) {
	return s.find(ctx, bson.M{"technology_type": normalize.Status(technology)})
}

// Search returns developer records whose company, contact person, country,
// or region contains the query, matched case-insensitively.
func (s *Store) Search(ctx context.Context, query string) ([]models.CRMDeveloper, error) {
	folded := text.Fold(normalize.Name(query))
	if folded == "" {
		return s.find(ctx, bson.M{})
	}

	// The company name has a folded twin; the optional fields are matched
	// with a case-insensitive regex instead.
	loose := primitive.Regex{Pattern: regexQuote(folded), Options: "i"}
	return s.find(ctx, bson.M{"$or": bson.A{
		bson.M{"company_name_ci": bson.M{"$regex": primitive.Regex{Pattern: regexQuote(folded)}}},
		bson.M{"contact_person": bson.M{"$regex": loose}},
		bson.M{"location_country": bson.M{"$regex": loose}},
		bson.M{"location_region": bson.M{"$regex": loose}},
	}})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.CRMDeveloper, error) {
	opts := options.Find().SetSort(bson.D{{Key: "company_name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.CRMDeveloper
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a developer record. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Count returns the total number of developer records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
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
