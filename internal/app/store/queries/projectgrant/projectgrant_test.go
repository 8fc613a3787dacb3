package projectgrant_test

import (
	"errors"
	"testing"

	accessstore "github.com/bearenergy/dealflow/internal/app/store/access"
	notificationstore "github.com/bearenergy/dealflow/internal/app/store/notifications"
	"github.com/bearenergy/dealflow/internal/app/store/queries/projectgrant"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/bearenergy/dealflow/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestGrant_CreatesAccessAndNotification(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	investor := fixtures.CreateInvestor(ctx, "fundmgr", "pw12345")
	project := fixtures.CreateProject(ctx, "Solar Park Alpha")
	admin := fixtures.CreateAdmin(ctx, "admin", "pw12345")

	g := &projectgrant.Granter{DB: db, Log: zap.NewNop(), DashboardURL: "http://localhost:3000/investor"}

	if err := g.Grant(ctx, investor.ID, project.ID, 2, admin.ID); err != nil {
		t.Fatalf("Grant failed: %v", err)
	}

	tier, found, err := accessstore.New(db).TierFor(ctx, investor.ID, project.ID)
	if err != nil {
		t.Fatalf("TierFor failed: %v", err)
	}
	if !found || tier != 2 {
		t.Errorf("access: got tier=%d found=%v, want tier=2 found=true", tier, found)
	}

	notes, err := notificationstore.New(db).ListByUser(ctx, investor.ID)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("notifications: got %d, want 1", len(notes))
	}
	n := notes[0]
	if n.Type != models.NotificationTypeProjectAdded {
		t.Errorf("notification type: got %q, want %q", n.Type, models.NotificationTypeProjectAdded)
	}
	if n.Read {
		t.Error("notification should start unread")
	}
	if n.ProjectID == nil || *n.ProjectID != project.ID {
		t.Error("notification should reference the granted project")
	}
}

func TestGrant_RegrantUpdatesTierWithoutDuplicating(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	investor := fixtures.CreateInvestor(ctx, "fundmgr", "pw12345")
	project := fixtures.CreateProject(ctx, "Wind Farm Beta")
	admin := fixtures.CreateAdmin(ctx, "admin", "pw12345")

	g := &projectgrant.Granter{DB: db, Log: zap.NewNop()}

	if err := g.Grant(ctx, investor.ID, project.ID, 1, admin.ID); err != nil {
		t.Fatalf("first Grant failed: %v", err)
	}
	if err := g.Grant(ctx, investor.ID, project.ID, 3, admin.ID); err != nil {
		t.Fatalf("second Grant failed: %v", err)
	}

	count, err := db.Collection("investor_project_access").CountDocuments(ctx, bson.M{
		"investor_user_id": investor.ID,
		"project_id":       project.ID,
	})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("access documents after regrant: got %d, want 1", count)
	}

	tier, found, err := accessstore.New(db).TierFor(ctx, investor.ID, project.ID)
	if err != nil {
		t.Fatalf("TierFor failed: %v", err)
	}
	if !found || tier != 3 {
		t.Errorf("tier after regrant: got tier=%d found=%v, want tier=3 found=true", tier, found)
	}
}

func TestGrant_RejectsNonInvestor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	broker := fixtures.CreateIntroducerUser(ctx, "broker", "pw12345")
	project := fixtures.CreateProject(ctx, "Hydro Gamma")
	admin := fixtures.CreateAdmin(ctx, "admin", "pw12345")

	g := &projectgrant.Granter{DB: db, Log: zap.NewNop()}

	err := g.Grant(ctx, broker.ID, project.ID, 1, admin.ID)
	if !errors.Is(err, projectgrant.ErrNotInvestor) {
		t.Fatalf("Grant: got err %v, want ErrNotInvestor", err)
	}

	if _, found, _ := accessstore.New(db).TierFor(ctx, broker.ID, project.ID); found {
		t.Error("no access document should exist after a rejected grant")
	}
}

func TestGrant_RejectsInactiveProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	investor := fixtures.CreateInvestor(ctx, "fundmgr", "pw12345")
	project := fixtures.CreateProject(ctx, "Battery Delta")
	admin := fixtures.CreateAdmin(ctx, "admin", "pw12345")

	_, err := db.Collection("project_uploads").UpdateOne(ctx,
		bson.M{"_id": project.ID},
		bson.M{"$set": bson.M{"upload_status": models.StatusDisabled}})
	if err != nil {
		t.Fatalf("failed to disable project: %v", err)
	}

	g := &projectgrant.Granter{DB: db, Log: zap.NewNop()}

	err = g.Grant(ctx, investor.ID, project.ID, 1, admin.ID)
	if !errors.Is(err, projectgrant.ErrProjectNotActive) {
		t.Fatalf("Grant: got err %v, want ErrProjectNotActive", err)
	}
}
