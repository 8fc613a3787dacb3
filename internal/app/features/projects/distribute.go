// internal/app/features/projects/distribute.go
package projects

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	projectstore "github.com/bearenergy/dealflow/internal/app/store/projects"
	userstore "github.com/bearenergy/dealflow/internal/app/store/users"
	"github.com/bearenergy/dealflow/internal/app/store/queries/projectgrant"
	"github.com/bearenergy/dealflow/internal/app/system/authz"
	"github.com/bearenergy/dealflow/internal/app/system/formutil"
	"github.com/bearenergy/dealflow/internal/app/system/timeouts"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type distributeFormData struct {
	formutil.Base
	InvestorID string
	ProjectID  string
	AccessTier string
	Investors  []models.User
	Projects   []models.ProjectUpload
}

// ServeDistribute renders the distribution form: pick an investor, an active
// project, and an access tier.
// GET /projects/distribute
func (h *Handler) ServeDistribute(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	investors, err := userstore.New(h.DB).ListByRole(ctx, models.RoleInvestor)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find investors failed", err, "A database error occurred.", "/admin")
		return
	}

	projectList, err := projectstore.New(h.DB).ListActive(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find projects failed", err, "A database error occurred.", "/admin")
		return
	}

	data := distributeFormData{
		AccessTier: "1",
		Investors:  investors,
		Projects:   projectList,
	}
	formutil.SetBase(&data.Base, r, "Distribute Project", "/admin")

	templates.Render(w, r, "projects_distribute", data)
}

// HandleDistribute grants an investor tiered access to a project and triggers
// the in-app and email notifications.
// POST /projects/distribute
func (h *Handler) HandleDistribute(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/projects/distribute")
		return
	}

	investorRaw := strings.TrimSpace(r.FormValue("investor_id"))
	projectRaw := strings.TrimSpace(r.FormValue("project_id"))
	tierRaw := strings.TrimSpace(r.FormValue("access_tier"))

	renderWithError := func(msg string) {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()
		investors, _ := userstore.New(h.DB).ListByRole(ctx, models.RoleInvestor)
		projectList, _ := projectstore.New(h.DB).ListActive(ctx)

		data := distributeFormData{
			InvestorID: investorRaw,
			ProjectID:  projectRaw,
			AccessTier: tierRaw,
			Investors:  investors,
			Projects:   projectList,
		}
		formutil.SetBase(&data.Base, r, "Distribute Project", "/admin")
		data.SetError(msg)
		templates.Render(w, r, "projects_distribute", data)
	}

	investorID, err := primitive.ObjectIDFromHex(investorRaw)
	if err != nil {
		renderWithError("Please choose an investor.")
		return
	}

	projectID, err := primitive.ObjectIDFromHex(projectRaw)
	if err != nil {
		renderWithError("Please choose a project.")
		return
	}

	tier, err := strconv.Atoi(tierRaw)
	if err != nil || tier < models.MinAccessTier || tier > models.MaxAccessTier {
		renderWithError("Access tier must be 1, 2, or 3.")
		return
	}

	_, _, adminID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Granter.Grant(ctx, investorID, projectID, tier, adminID); err != nil {
		switch {
		case errors.Is(err, projectgrant.ErrNotInvestor):
			renderWithError("The chosen user is not an investor.")
		case errors.Is(err, projectgrant.ErrProjectNotActive):
			renderWithError("That project is not available for distribution.")
		case errors.Is(err, mongo.ErrNoDocuments):
			h.ErrLog.LogNotFound(w, r, "investor or project not found", "Investor or project not found.", "/projects/distribute")
		default:
			h.ErrLog.LogServerError(w, r, "distribute project failed", err, "Unable to distribute the project.", "/projects/distribute")
		}
		return
	}

	h.Log.Info("project distributed",
		zap.String("project_id", projectID.Hex()),
		zap.String("investor_id", investorID.Hex()),
		zap.Int("tier", tier))

	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/admin")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
