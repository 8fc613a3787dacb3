package developerstore_test

import (
	"testing"

	developerstore "github.com/bearenergy/dealflow/internal/app/store/developers"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/bearenergy/dealflow/internal/testutil"
)

func TestCreate_DefaultsAndValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := developerstore.New(db)

	created, err := store.Create(ctx, models.CRMDeveloper{
		CompanyName: "  Sunrise Renewables  ",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.CompanyName != "Sunrise Renewables" {
		t.Errorf("company name: got %q, want trimmed", created.CompanyName)
	}
	if created.TechnologyType != models.DefaultTechnologyType {
		t.Errorf("technology: got %q, want default %q", created.TechnologyType, models.DefaultTechnologyType)
	}

	if _, err := store.Create(ctx, models.CRMDeveloper{CompanyName: ""}); err == nil {
		t.Error("empty company name should be rejected")
	}
	if _, err := store.Create(ctx, models.CRMDeveloper{CompanyName: "X", TechnologyType: "fusion"}); err == nil {
		t.Error("unknown technology type should be rejected")
	}
	if _, err := store.Create(ctx, models.CRMDeveloper{CompanyName: "X", EstimatedSuccessFeePercent: 150}); err == nil {
		t.Error("success fee over 100 should be rejected")
	}
}

func TestSearch_CaseInsensitiveSubstring(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateDeveloper(ctx, "Sunrise Renewables", models.TechnologySolar)
	fixtures.CreateDeveloper(ctx, "Northwind Energy", models.TechnologyWind)
	fixtures.CreateDeveloper(ctx, "Sunset Hydro", models.TechnologyHydro)

	store := developerstore.New(db)

	results, err := store.Search(ctx, "SUN")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("search results: got %d, want 2", len(results))
	}

	// Empty query returns everything.
	all, err := store.Search(ctx, "  ")
	if err != nil {
		t.Fatalf("Search with blank query failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("blank search results: got %d, want 3", len(all))
	}
}

func TestListByTechnology(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateDeveloper(ctx, "Sunrise Renewables", models.TechnologySolar)
	fixtures.CreateDeveloper(ctx, "Helios Power", models.TechnologySolar)
	fixtures.CreateDeveloper(ctx, "Northwind Energy", models.TechnologyWind)

	store := developerstore.New(db)
	solar, err := store.ListByTechnology(ctx, models.TechnologySolar)
	if err != nil {
		t.Fatalf("ListByTechnology failed: %v", err)
	}
	if len(solar) != 2 {
		t.Errorf("solar developers: got %d, want 2", len(solar))
	}
	for _, d := range solar {
		if d.TechnologyType != models.TechnologySolar {
			t.Errorf("unexpected technology %q in solar list", d.TechnologyType)
		}
	}
}

func TestDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	dev := fixtures.CreateDeveloper(ctx, "Sunrise Renewables", models.TechnologySolar)

	store := developerstore.New(db)
	deleted, err := store.Delete(ctx, dev.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Delete: got %d deletions, want 1", deleted)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("count after delete: got %d, want 0", n)
	}

	deleted, err = store.Delete(ctx, dev.ID)
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("second Delete: got %d deletions, want 0", deleted)
	}
}
