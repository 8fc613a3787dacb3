package introducer_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/bearenergy/dealflow/internal/app/features/errors"
	"github.com/bearenergy/dealflow/internal/app/features/introducer"
	assignmentstore "github.com/bearenergy/dealflow/internal/app/store/assignments"
	introducerstore "github.com/bearenergy/dealflow/internal/app/store/introducers"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/bearenergy/dealflow/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestHandler(t *testing.T) (*introducer.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	handler := introducer.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
	return handler, testutil.NewFixtures(t, db)
}

func postStatus(handler *introducer.Handler, user testutil.TestUser, assignmentID primitive.ObjectID, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/introducer/assignments/"+assignmentID.Hex()+"/status", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, user)
	req = testutil.WithChiURLParam(req, "id", assignmentID.Hex())

	rec := httptest.NewRecorder()

	// Failure paths render an error page, which panics without initialized
	// templates. The recorder still holds whatever was written first.
	func() {
		defer func() { recover() }()
		handler.HandleAssignmentStatus(rec, req)
	}()
	return rec
}

func TestHandleAssignmentStatus_StartProgress(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	brokerUser := fixtures.CreateIntroducerUser(ctx, "broker", "pw12345")
	profile := fixtures.CreateIntroducer(ctx, brokerUser.ID, "Broker One", 0.05)
	deal := fixtures.CreateDeal(ctx, "Solar Park Alpha", 20)
	assignment := fixtures.CreateAssignment(ctx, deal.ID, profile.ID, models.AssignmentStatusAssigned, 0.05)

	user := testutil.TestUser{ID: brokerUser.ID.Hex(), Name: "Broker", Username: "broker", Role: models.RoleIntroducer}
	rec := postStatus(handler, user, assignment.ID, url.Values{
		"status": {models.AssignmentStatusInProgress},
	})

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/introducer" {
		t.Errorf("Location: got %q, want %q", location, "/introducer")
	}

	updated, err := assignmentstore.New(fixtures.DB()).GetByID(ctx, assignment.ID)
	if err != nil {
		t.Fatalf("reload assignment failed: %v", err)
	}
	if updated.Status != models.AssignmentStatusInProgress {
		t.Errorf("assignment status: got %q, want %q", updated.Status, models.AssignmentStatusInProgress)
	}
}

func TestHandleAssignmentStatus_CompletionBumpsTotals(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	brokerUser := fixtures.CreateIntroducerUser(ctx, "broker", "pw12345")
	profile := fixtures.CreateIntroducer(ctx, brokerUser.ID, "Broker One", 0.07)
	deal := fixtures.CreateDeal(ctx, "Wind Farm Beta", 100)
	assignment := fixtures.CreateAssignment(ctx, deal.ID, profile.ID, models.AssignmentStatusInProgress, 0.07)

	user := testutil.TestUser{ID: brokerUser.ID.Hex(), Name: "Broker", Username: "broker", Role: models.RoleIntroducer}
	rec := postStatus(handler, user, assignment.ID, url.Values{
		"status": {models.AssignmentStatusCompleted},
		"notes":  {"Closed with Fund A."},
	})

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	reloaded, err := introducerstore.New(fixtures.DB()).GetByUserID(ctx, brokerUser.ID)
	if err != nil {
		t.Fatalf("reload introducer failed: %v", err)
	}
	if reloaded.TotalDealsClosed != 1 {
		t.Errorf("total deals closed: got %d, want 1", reloaded.TotalDealsClosed)
	}
	// Commission earned is the frozen percentage applied to the deal's
	// investment requirement.
	if want := 0.07 * 100; reloaded.TotalCommissionEarned != want {
		t.Errorf("total commission earned: got %v, want %v", reloaded.TotalCommissionEarned, want)
	}
}

func TestHandleAssignmentStatus_CompletionWithMissingDeal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	core, logs := observer.New(zapcore.ErrorLevel)
	logger := zap.New(core)
	handler := introducer.NewHandler(db, uierrors.NewErrorLogger(logger), logger)

	brokerUser := fixtures.CreateIntroducerUser(ctx, "broker", "pw12345")
	profile := fixtures.CreateIntroducer(ctx, brokerUser.ID, "Broker One", 0.05)

	// The assignment references a deal that no longer exists.
	assignment := fixtures.CreateAssignment(ctx, primitive.NewObjectID(), profile.ID, models.AssignmentStatusInProgress, 0.05)

	user := testutil.TestUser{ID: brokerUser.ID.Hex(), Name: "Broker", Username: "broker", Role: models.RoleIntroducer}
	rec := postStatus(handler, user, assignment.ID, url.Values{
		"status": {models.AssignmentStatusCompleted},
	})

	// The status change stands even when the commission cannot be computed.
	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	reloaded, err := introducerstore.New(db).GetByUserID(ctx, brokerUser.ID)
	if err != nil {
		t.Fatalf("reload introducer failed: %v", err)
	}
	if reloaded.TotalDealsClosed != 1 {
		t.Errorf("total deals closed: got %d, want 1", reloaded.TotalDealsClosed)
	}
	if reloaded.TotalCommissionEarned != 0 {
		t.Errorf("total commission earned: got %v, want 0", reloaded.TotalCommissionEarned)
	}

	// The bookkeeping gap must be visible in the logs.
	if logs.FilterMessage("deal lookup for completion failed, recording zero commission").Len() == 0 {
		t.Error("expected an error log entry for the failed deal lookup")
	}
}

func TestHandleAssignmentStatus_InvalidTransition(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	brokerUser := fixtures.CreateIntroducerUser(ctx, "broker", "pw12345")
	profile := fixtures.CreateIntroducer(ctx, brokerUser.ID, "Broker One", 0.05)
	deal := fixtures.CreateDeal(ctx, "Hydro Gamma", 30)
	assignment := fixtures.CreateAssignment(ctx, deal.ID, profile.ID, models.AssignmentStatusCompleted, 0.05)

	user := testutil.TestUser{ID: brokerUser.ID.Hex(), Name: "Broker", Username: "broker", Role: models.RoleIntroducer}

	// Completed is terminal; nothing may move it back.
	rec := postStatus(handler, user, assignment.ID, url.Values{
		"status": {models.AssignmentStatusInProgress},
	})

	if rec.Code == http.StatusSeeOther {
		t.Error("terminal assignment should not accept a status change")
	}

	reloaded, err := assignmentstore.New(fixtures.DB()).GetByID(ctx, assignment.ID)
	if err != nil {
		t.Fatalf("reload assignment failed: %v", err)
	}
	if reloaded.Status != models.AssignmentStatusCompleted {
		t.Errorf("assignment status: got %q, want %q", reloaded.Status, models.AssignmentStatusCompleted)
	}
}

func TestHandleAssignmentStatus_OtherIntroducersAssignment(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ownerUser := fixtures.CreateIntroducerUser(ctx, "owner", "pw12345")
	ownerProfile := fixtures.CreateIntroducer(ctx, ownerUser.ID, "Owner Broker", 0.05)
	deal := fixtures.CreateDeal(ctx, "Battery Delta", 10)
	assignment := fixtures.CreateAssignment(ctx, deal.ID, ownerProfile.ID, models.AssignmentStatusAssigned, 0.05)

	otherUser := fixtures.CreateIntroducerUser(ctx, "other", "pw12345")
	fixtures.CreateIntroducer(ctx, otherUser.ID, "Other Broker", 0.05)

	user := testutil.TestUser{ID: otherUser.ID.Hex(), Name: "Other", Username: "other", Role: models.RoleIntroducer}
	rec := postStatus(handler, user, assignment.ID, url.Values{
		"status": {models.AssignmentStatusInProgress},
	})

	if rec.Code == http.StatusSeeOther {
		t.Error("an introducer should not be able to work another introducer's assignment")
	}

	reloaded, err := assignmentstore.New(fixtures.DB()).GetByID(ctx, assignment.ID)
	if err != nil {
		t.Fatalf("reload assignment failed: %v", err)
	}
	if reloaded.Status != models.AssignmentStatusAssigned {
		t.Errorf("assignment status: got %q, want %q", reloaded.Status, models.AssignmentStatusAssigned)
	}
}
