package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given role and password.
func (f *Fixtures) CreateUser(ctx context.Context, username, password, role string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		f.t.Fatalf("failed to hash test password: %v", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		UsernameCI:   text.Fold(username),
		PasswordHash: string(hash),
		Role:         role,
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, username, password string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, username, password, models.RoleAdmin)
}

// CreateIntroducerUser creates a test user with the introducer role.
func (f *Fixtures) CreateIntroducerUser(ctx context.Context, username, password string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, username, password, models.RoleIntroducer)
}

// CreateInvestor creates a test user with the investor role.
func (f *Fixtures) CreateInvestor(ctx context.Context, username, password string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, username, password, models.RoleInvestor)
}

// CreateDisabledUser creates a test user with disabled status.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, username, password string) models.User {
	f.t.Helper()

	user := f.CreateUser(ctx, username, password, models.RoleInvestor)
	_, err := f.db.Collection("users").UpdateOne(ctx,
		primitiveIDFilter(user.ID),
		map[string]any{"$set": map[string]any{"status": models.StatusDisabled}})
	if err != nil {
		f.t.Fatalf("failed to disable test user: %v", err)
	}
	user.Status = models.StatusDisabled
	return user
}

// CreateDeal creates an active test deal.
func (f *Fixtures) CreateDeal(ctx context.Context, title string, investmentRequired float64) models.Deal {
	f.t.Helper()

	deal := models.Deal{
		ID:                 primitive.NewObjectID(),
		Title:              title,
		TitleCI:            text.Fold(title),
		DealType:           "solar",
		CapacityMW:         50,
		InvestmentRequired: investmentRequired,
		ExpectedReturn:     8.5,
		Status:             models.DealStatusActive,
		Priority:           models.DefaultDealPriority,
		CreatedAt:          time.Now().UTC(),
	}

	if _, err := f.db.Collection("deals").InsertOne(ctx, deal); err != nil {
		f.t.Fatalf("failed to create test deal: %v", err)
	}

	return deal
}

// CreateIntroducer creates an active introducer profile owned by the given
// user. A zero commissionRate stores as zero, exercising the default-rate
// fallback at assignment time.
func (f *Fixtures) CreateIntroducer(ctx context.Context, userID primitive.ObjectID, name string, commissionRate float64) models.Introducer {
	f.t.Helper()

	introducer := models.Introducer{
		ID:             primitive.NewObjectID(),
		UserID:         userID,
		Name:           name,
		NameCI:         text.Fold(name),
		CommissionRate: commissionRate,
		Status:         models.StatusActive,
		CreatedAt:      time.Now().UTC(),
	}

	if _, err := f.db.Collection("introducers").InsertOne(ctx, introducer); err != nil {
		f.t.Fatalf("failed to create test introducer: %v", err)
	}

	return introducer
}

// CreateMandate creates a mandate for an introducer with the given status.
func (f *Fixtures) CreateMandate(ctx context.Context, introducerID primitive.ObjectID, investorName, status string) models.InvestorMandate {
	f.t.Helper()

	mandate := models.InvestorMandate{
		ID:             primitive.NewObjectID(),
		IntroducerID:   introducerID,
		InvestorName:   investorName,
		InvestorNameCI: text.Fold(investorName),
		MinInvestment:  1,
		MaxInvestment:  100,
		Status:         status,
		CreatedAt:      time.Now().UTC(),
	}

	if _, err := f.db.Collection("investor_mandates").InsertOne(ctx, mandate); err != nil {
		f.t.Fatalf("failed to create test mandate: %v", err)
	}

	return mandate
}

// CreateAssignment creates a deal assignment in the given status with a
// frozen commission percentage.
func (f *Fixtures) CreateAssignment(ctx context.Context, dealID, introducerID primitive.ObjectID, status string, commission float64) models.DealAssignment {
	f.t.Helper()

	assignment := models.DealAssignment{
		ID:                   primitive.NewObjectID(),
		DealID:               dealID,
		IntroducerID:         introducerID,
		MandateID:            primitive.NewObjectID(),
		Status:               status,
		CommissionPercentage: commission,
		AssignedAt:           time.Now().UTC(),
	}

	if _, err := f.db.Collection("deal_assignments").InsertOne(ctx, assignment); err != nil {
		f.t.Fatalf("failed to create test assignment: %v", err)
	}

	return assignment
}

// CreateProject creates an active project upload.
func (f *Fixtures) CreateProject(ctx context.Context, name string) models.ProjectUpload {
	f.t.Helper()

	project := models.ProjectUpload{
		ID:             primitive.NewObjectID(),
		ProjectName:    name,
		ProjectNameCI:  text.Fold(name),
		TechnologyType: models.TechnologySolar,
		CapacityMW:     25,
		Tier1Summary:   "Executive summary.",
		Tier2Teaser:    "Detailed teaser.",
		Tier3FullData:  "Full data room.",
		UploadStatus:   models.StatusActive,
		CreatedAt:      time.Now().UTC(),
	}

	if _, err := f.db.Collection("project_uploads").InsertOne(ctx, project); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}

	return project
}

// CreateGrant creates an access grant for an investor on a project.
func (f *Fixtures) CreateGrant(ctx context.Context, investorUserID, projectID primitive.ObjectID, tier int) models.InvestorProjectAccess {
	f.t.Helper()

	grant := models.InvestorProjectAccess{
		ID:             primitive.NewObjectID(),
		InvestorUserID: investorUserID,
		ProjectID:      projectID,
		AccessTier:     tier,
		GrantedAt:      time.Now().UTC(),
	}

	if _, err := f.db.Collection("investor_project_access").InsertOne(ctx, grant); err != nil {
		f.t.Fatalf("failed to create test access grant: %v", err)
	}

	return grant
}

// CreateDeveloper creates a CRM developer record.
func (f *Fixtures) CreateDeveloper(ctx context.Context, companyName, technology string) models.CRMDeveloper {
	f.t.Helper()

	developer := models.CRMDeveloper{
		ID:             primitive.NewObjectID(),
		CompanyName:    companyName,
		CompanyNameCI:  text.Fold(companyName),
		TechnologyType: technology,
		CreatedAt:      time.Now().UTC(),
	}

	if _, err := f.db.Collection("crm_developers").InsertOne(ctx, developer); err != nil {
		f.t.Fatalf("failed to create test developer: %v", err)
	}

	return developer
}

func primitiveIDFilter(id primitive.ObjectID) map[string]any {
	return map[string]any{"_id": id}
}
