package accessstore_test

import (
	"testing"

	accessstore "github.com/bearenergy/dealflow/internal/app/store/access"
	"github.com/bearenergy/dealflow/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUpsert_SingleDocumentPerPair(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := accessstore.New(db)
	investorID := primitive.NewObjectID()
	projectID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()

	if err := store.Upsert(ctx, investorID, projectID, 1, adminID); err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}
	if err := store.Upsert(ctx, investorID, projectID, 3, adminID); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	count, err := db.Collection("investor_project_access").CountDocuments(ctx, bson.M{
		"investor_user_id": investorID,
		"project_id":       projectID,
	})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("documents: got %d, want 1", count)
	}

	tier, found, err := store.TierFor(ctx, investorID, projectID)
	if err != nil {
		t.Fatalf("TierFor failed: %v", err)
	}
	if !found || tier != 3 {
		t.Errorf("TierFor: got tier=%d found=%v, want tier=3 found=true", tier, found)
	}
}

func TestUpsert_RejectsInvalidTier(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := accessstore.New(db)
	if err := store.Upsert(ctx, primitive.NewObjectID(), primitive.NewObjectID(), 4, primitive.NewObjectID()); err == nil {
		t.Fatal("Upsert with tier 4 should fail")
	}
	if err := store.Upsert(ctx, primitive.NewObjectID(), primitive.NewObjectID(), 0, primitive.NewObjectID()); err == nil {
		t.Fatal("Upsert with tier 0 should fail")
	}
}

func TestTierFor_NoGrant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tier, found, err := accessstore.New(db).TierFor(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("TierFor failed: %v", err)
	}
	if found || tier != 0 {
		t.Errorf("TierFor without a grant: got tier=%d found=%v, want tier=0 found=false", tier, found)
	}
}

func TestRevoke(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := accessstore.New(db)
	investorID := primitive.NewObjectID()
	projectID := primitive.NewObjectID()

	if err := store.Upsert(ctx, investorID, projectID, 2, primitive.NewObjectID()); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	deleted, err := store.Revoke(ctx, investorID, projectID)
	if err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Revoke: got %d deletions, want 1", deleted)
	}

	if _, found, _ := store.TierFor(ctx, investorID, projectID); found {
		t.Error("grant should be gone after Revoke")
	}

	deleted, err = store.Revoke(ctx, investorID, projectID)
	if err != nil {
		t.Fatalf("second Revoke failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("second Revoke: got %d deletions, want 0", deleted)
	}
}
