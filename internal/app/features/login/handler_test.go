package login_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/bearenergy/dealflow/internal/app/features/errors"
	"github.com/bearenergy/dealflow/internal/app/features/login"
	"github.com/bearenergy/dealflow/internal/app/system/auth"
	"github.com/bearenergy/dealflow/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*login.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)

	// Create a session manager for testing (dev mode, weak key allowed)
	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	handler := login.NewHandler(db, sessionMgr, errLog, false, logger)
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

func postLogin(handler *login.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	handler.HandleLoginPost(rec, req)
	return rec
}

// postLoginExpectingRender runs the handler where a failure renders the login
// form. Rendering panics without initialized templates, which is expected.
func postLoginExpectingRender(handler *login.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	func() {
		defer func() { recover() }()
		handler.HandleLoginPost(rec, req)
	}()
	return rec
}

func hasSessionCookie(rec *httptest.ResponseRecorder) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.Value != "" {
			return true
		}
	}
	return false
}

func TestHandleLoginPost_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateAdmin(ctx, "admin", "correct-horse")

	rec := postLogin(handler, url.Values{
		"username": {"admin"},
		"password": {"correct-horse"},
	})

	// Should redirect to the admin portal
	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	location := rec.Header().Get("Location")
	if location != "/admin" {
		t.Errorf("Location: got %q, want %q", location, "/admin")
	}

	if !hasSessionCookie(rec) {
		t.Error("expected session cookie to be set")
	}
}

func TestHandleLoginPost_RoleDashboards(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateIntroducerUser(ctx, "broker", "pw12345")
	fixtures.CreateInvestor(ctx, "fundmgr", "pw12345")

	cases := []struct {
		username string
		want     string
	}{
		{"broker", "/introducer"},
		{"fundmgr", "/investor"},
	}

	for _, tc := range cases {
		rec := postLogin(handler, url.Values{
			"username": {tc.username},
			"password": {"pw12345"},
		})
		if rec.Code != http.StatusSeeOther {
			t.Errorf("%s: expected status %d, got %d", tc.username, http.StatusSeeOther, rec.Code)
			continue
		}
		if location := rec.Header().Get("Location"); location != tc.want {
			t.Errorf("%s: Location: got %q, want %q", tc.username, location, tc.want)
		}
	}
}

func TestHandleLoginPost_WithReturnURL(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateAdmin(ctx, "admin", "correct-horse")

	rec := postLogin(handler, url.Values{
		"username": {"admin"},
		"password": {"correct-horse"},
		"return":   {"/crm"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	location := rec.Header().Get("Location")
	if location != "/crm" {
		t.Errorf("Location: got %q, want %q", location, "/crm")
	}
}

func TestHandleLoginPost_WrongPassword(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateAdmin(ctx, "admin", "correct-horse")

	rec := postLoginExpectingRender(handler, url.Values{
		"username": {"admin"},
		"password": {"wrong-horse"},
	})

	if hasSessionCookie(rec) {
		t.Error("session cookie should not be set for wrong password")
	}
}

func TestHandleLoginPost_NonexistentUser(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := postLoginExpectingRender(handler, url.Values{
		"username": {"nobody"},
		"password": {"whatever"},
	})

	if hasSessionCookie(rec) {
		t.Error("session cookie should not be set for nonexistent user")
	}
}

func TestHandleLoginPost_EmptyCredentials(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := postLoginExpectingRender(handler, url.Values{
		"username": {""},
		"password": {""},
	})

	if hasSessionCookie(rec) {
		t.Error("session cookie should not be set for empty credentials")
	}
}

func TestHandleLoginPost_DisabledUser(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateDisabledUser(ctx, "former", "pw12345")

	rec := postLoginExpectingRender(handler, url.Values{
		"username": {"former"},
		"password": {"pw12345"},
	})

	if hasSessionCookie(rec) {
		t.Error("session cookie should not be set for disabled user")
	}
}
