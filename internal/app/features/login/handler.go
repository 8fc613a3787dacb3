// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/bearenergy/dealflow/internal/app/features/errors"
	userstore "github.com/bearenergy/dealflow/internal/app/store/users"
	"github.com/bearenergy/dealflow/internal/app/system/auth"
	"github.com/bearenergy/dealflow/internal/app/system/normalize"
	"github.com/bearenergy/dealflow/internal/app/system/timeouts"
	"github.com/bearenergy/dealflow/internal/app/system/viewdata"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// genericFailure is shown for every credential failure so the form does not
// reveal whether a username exists.
const genericFailure = "Invalid username or password."

type Handler struct {
	DB            *mongo.Database
	Log           *zap.Logger
	SessionMgr    *auth.SessionManager
	ErrLog        *uierrors.ErrorLogger
	Users         *userstore.Store
	GoogleEnabled bool // True if Google OAuth is configured
}

type loginFormData struct {
	viewdata.BaseVM
	Error         string
	Username      string // What the user typed, echoed back on failure
	ReturnURL     string
	GoogleEnabled bool
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	googleEnabled bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		Users:         userstore.New(db),
		GoogleEnabled: googleEnabled,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	// Already signed in: skip the form and go straight to the portal.
	if u, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, models.DashboardPath(u.Role), http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Sign in", "/"),
		ReturnURL:     query.Get(r, "return"),
		GoogleEnabled: h.GoogleEnabled,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	returnURL := strings.TrimSpace(r.FormValue("return"))

	if username == "" || password == "" {
		h.renderFormWithError(w, r, genericFailure, username, returnURL)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		h.renderFormWithError(w, r, genericFailure, username, returnURL)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "find user failed", err, "A server error occurred.", "/login")
		return
	}

	// Disabled accounts fail with the same generic message as bad passwords.
	if normalize.Status(u.Status) == models.StatusDisabled {
		h.Log.Info("login rejected for disabled account", zap.String("username", u.Username))
		h.renderFormWithError(w, r, genericFailure, username, returnURL)
		return
	}

	if !userstore.VerifyPassword(u, password) {
		h.renderFormWithError(w, r, genericFailure, username, returnURL)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Unable to create session. Please try again.", "/login")
		return
	}

	// Best effort; a failed stamp must not block the sign-in.
	if err := h.Users.StampLastLogin(ctx, u.ID); err != nil {
		h.Log.Warn("stamp last login failed", zap.String("user_id", u.ID.Hex()), zap.Error(err))
	}

	dest := urlutil.SafeReturn(returnURL, "", models.DashboardPath(u.Role))
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, username, returnURL string) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Sign in", "/"),
		Error:         msg,
		Username:      username,
		ReturnURL:     returnURL,
		GoogleEnabled: h.GoogleEnabled,
	})
}
