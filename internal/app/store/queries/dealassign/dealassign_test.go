package dealassign_test

import (
	"errors"
	"testing"

	assignmentstore "github.com/bearenergy/dealflow/internal/app/store/assignments"
	dealstore "github.com/bearenergy/dealflow/internal/app/store/deals"
	"github.com/bearenergy/dealflow/internal/app/store/queries/dealassign"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/bearenergy/dealflow/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestAssign_FanOutPerActiveMandate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateIntroducerUser(ctx, "broker", "pw12345")
	introducer := fixtures.CreateIntroducer(ctx, user.ID, "Broker One", 0.07)
	deal := fixtures.CreateDeal(ctx, "Solar Park Alpha", 25)

	m1 := fixtures.CreateMandate(ctx, introducer.ID, "Fund A", models.StatusActive)
	m2 := fixtures.CreateMandate(ctx, introducer.ID, "Fund B", models.StatusActive)
	fixtures.CreateMandate(ctx, introducer.ID, "Fund C", models.StatusDisabled)

	res, err := dealassign.Assign(ctx, db, zap.NewNop(), deal.ID, introducer.ID, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	if got := len(res.Assignments); got != 2 {
		t.Fatalf("assignments created: got %d, want 2", got)
	}

	wantMandates := map[primitive.ObjectID]bool{m1.ID: true, m2.ID: true}
	for _, a := range res.Assignments {
		if !wantMandates[a.MandateID] {
			t.Errorf("assignment created for unexpected mandate %s", a.MandateID.Hex())
		}
		if a.Status != models.AssignmentStatusAssigned {
			t.Errorf("assignment status: got %q, want %q", a.Status, models.AssignmentStatusAssigned)
		}
		if a.CommissionPercentage != 0.07 {
			t.Errorf("commission: got %v, want 0.07", a.CommissionPercentage)
		}
	}

	// The persisted state must match the result.
	stored, err := assignmentstore.New(db).ListByDeal(ctx, deal.ID)
	if err != nil {
		t.Fatalf("ListByDeal failed: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("stored assignments: got %d, want 2", len(stored))
	}

	updated, err := dealstore.New(db).GetByID(ctx, deal.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if updated.Status != models.DealStatusAssigned {
		t.Errorf("deal status: got %q, want %q", updated.Status, models.DealStatusAssigned)
	}
}

func TestAssign_DefaultCommissionWhenRateZero(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateIntroducerUser(ctx, "broker", "pw12345")
	introducer := fixtures.CreateIntroducer(ctx, user.ID, "Zero Rate Broker", 0)
	deal := fixtures.CreateDeal(ctx, "Wind Farm Beta", 40)
	fixtures.CreateMandate(ctx, introducer.ID, "Fund A", models.StatusActive)

	res, err := dealassign.Assign(ctx, db, zap.NewNop(), deal.ID, introducer.ID, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	if len(res.Assignments) != 1 {
		t.Fatalf("assignments created: got %d, want 1", len(res.Assignments))
	}
	if got := res.Assignments[0].CommissionPercentage; got != models.DefaultCommissionRate {
		t.Errorf("commission: got %v, want default %v", got, models.DefaultCommissionRate)
	}
}

func TestAssign_RejectsNonActiveDeal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateIntroducerUser(ctx, "broker", "pw12345")
	introducer := fixtures.CreateIntroducer(ctx, user.ID, "Broker One", 0.05)
	deal := fixtures.CreateDeal(ctx, "Hydro Gamma", 60)
	fixtures.CreateMandate(ctx, introducer.ID, "Fund A", models.StatusActive)

	// First assignment succeeds; a second run must be rejected.
	if _, err := dealassign.Assign(ctx, db, zap.NewNop(), deal.ID, introducer.ID, primitive.NewObjectID()); err != nil {
		t.Fatalf("first Assign failed: %v", err)
	}

	_, err := dealassign.Assign(ctx, db, zap.NewNop(), deal.ID, introducer.ID, primitive.NewObjectID())
	if !errors.Is(err, dealassign.ErrDealNotActive) {
		t.Fatalf("second Assign: got err %v, want ErrDealNotActive", err)
	}

	// The fan-out must not have run twice.
	stored, err := assignmentstore.New(db).ListByDeal(ctx, deal.ID)
	if err != nil {
		t.Fatalf("ListByDeal failed: %v", err)
	}
	if len(stored) != 1 {
		t.Errorf("stored assignments after rejected re-assign: got %d, want 1", len(stored))
	}
}

func TestAssign_RejectsDisabledIntroducer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateIntroducerUser(ctx, "broker", "pw12345")
	introducer := fixtures.CreateIntroducer(ctx, user.ID, "Former Broker", 0.05)
	deal := fixtures.CreateDeal(ctx, "Solar Park Epsilon", 30)
	fixtures.CreateMandate(ctx, introducer.ID, "Fund A", models.StatusActive)

	// Disable the introducer after the form would have listed them, the way
	// a concurrent admin edit or a stale form submission does.
	if _, err := db.Collection("introducers").UpdateOne(ctx,
		bson.M{"_id": introducer.ID},
		bson.M{"$set": bson.M{"status": models.StatusDisabled}}); err != nil {
		t.Fatalf("disable introducer failed: %v", err)
	}

	_, err := dealassign.Assign(ctx, db, zap.NewNop(), deal.ID, introducer.ID, primitive.NewObjectID())
	if !errors.Is(err, dealassign.ErrIntroducerNotActive) {
		t.Fatalf("Assign: got err %v, want ErrIntroducerNotActive", err)
	}

	// No fan-out may have happened and the deal must remain assignable.
	stored, err := assignmentstore.New(db).ListByDeal(ctx, deal.ID)
	if err != nil {
		t.Fatalf("ListByDeal failed: %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("stored assignments for disabled introducer: got %d, want 0", len(stored))
	}

	unchanged, err := dealstore.New(db).GetByID(ctx, deal.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if unchanged.Status != models.DealStatusActive {
		t.Errorf("deal status: got %q, want %q", unchanged.Status, models.DealStatusActive)
	}
}

func TestAssign_RejectsIntroducerWithoutActiveMandates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateIntroducerUser(ctx, "broker", "pw12345")
	introducer := fixtures.CreateIntroducer(ctx, user.ID, "Idle Broker", 0.05)
	deal := fixtures.CreateDeal(ctx, "Battery Delta", 15)
	fixtures.CreateMandate(ctx, introducer.ID, "Fund A", models.StatusDisabled)

	_, err := dealassign.Assign(ctx, db, zap.NewNop(), deal.ID, introducer.ID, primitive.NewObjectID())
	if !errors.Is(err, dealassign.ErrNoActiveMandates) {
		t.Fatalf("Assign: got err %v, want ErrNoActiveMandates", err)
	}

	// The deal must remain assignable.
	unchanged, err := dealstore.New(db).GetByID(ctx, deal.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if unchanged.Status != models.DealStatusActive {
		t.Errorf("deal status: got %q, want %q", unchanged.Status, models.DealStatusActive)
	}
}
