package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/bearenergy/dealflow/internal/app/store/users"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/bearenergy/dealflow/internal/testutil"
)

func TestCreateAndGetByUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)

	created, err := store.Create(ctx, models.User{
		Username: "Alice",
		Email:    "alice@example.com",
		Role:     models.RoleAdmin,
	}, "secret-pw")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.PasswordHash == "" || created.PasswordHash == "secret-pw" {
		t.Error("password must be stored as a hash")
	}
	if created.Status != models.StatusActive {
		t.Errorf("status: got %q, want %q", created.Status, models.StatusActive)
	}

	// Lookup is case-insensitive.
	got, err := store.GetByUsername(ctx, "ALICE")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if got.ID != created.ID {
		t.Error("case-insensitive lookup should find the created user")
	}
}

func TestCreate_DuplicateUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// The duplicate check depends on the unique username_ci index that
	// EnsureSchema creates in production.
	if err := testutil.EnsureUserIndexes(ctx, db); err != nil {
		t.Fatalf("failed to create user indexes: %v", err)
	}

	store := userstore.New(db)
	if _, err := store.Create(ctx, models.User{Username: "alice", Role: models.RoleAdmin}, "pw1"); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := store.Create(ctx, models.User{Username: "Alice", Role: models.RoleInvestor}, "pw2")
	if !errors.Is(err, userstore.ErrDuplicateUsername) {
		t.Fatalf("second Create: got err %v, want ErrDuplicateUsername", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)

	if _, err := store.Create(ctx, models.User{Username: "", Role: models.RoleAdmin}, "pw"); err == nil {
		t.Error("empty username should be rejected")
	}
	if _, err := store.Create(ctx, models.User{Username: "bob", Role: models.RoleAdmin}, ""); err == nil {
		t.Error("empty password should be rejected")
	}
	if _, err := store.Create(ctx, models.User{Username: "bob", Role: "superuser"}, "pw"); err == nil {
		t.Error("unknown role should be rejected")
	}
}

func TestVerifyPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	created, err := store.Create(ctx, models.User{Username: "carol", Role: models.RoleInvestor}, "right-pw")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if !userstore.VerifyPassword(&created, "right-pw") {
		t.Error("correct password should verify")
	}
	if userstore.VerifyPassword(&created, "wrong-pw") {
		t.Error("wrong password should not verify")
	}
}

func TestSetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	created, err := store.Create(ctx, models.User{Username: "dave", Role: models.RoleIntroducer}, "pw")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.SetStatus(ctx, created.ID, models.StatusDisabled); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.StatusDisabled {
		t.Errorf("status: got %q, want %q", got.Status, models.StatusDisabled)
	}

	if err := store.SetStatus(ctx, created.ID, "banned"); err == nil {
		t.Error("unknown status should be rejected")
	}
}

func TestCountByRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateAdmin(ctx, "admin1", "pw")
	fixtures.CreateInvestor(ctx, "inv1", "pw")
	fixtures.CreateInvestor(ctx, "inv2", "pw")

	store := userstore.New(db)
	n, err := store.CountByRole(ctx, models.RoleInvestor)
	if err != nil {
		t.Fatalf("CountByRole failed: %v", err)
	}
	if n != 2 {
		t.Errorf("investor count: got %d, want 2", n)
	}
}
