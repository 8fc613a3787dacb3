// internal/app/features/introducer/handler.go
package introducer

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/bearenergy/dealflow/internal/app/features/errors"
	assignmentstore "github.com/bearenergy/dealflow/internal/app/store/assignments"
	dealstore "github.com/bearenergy/dealflow/internal/app/store/deals"
	introducerstore "github.com/bearenergy/dealflow/internal/app/store/introducers"
	mandatestore "github.com/bearenergy/dealflow/internal/app/store/mandates"
	"github.com/bearenergy/dealflow/internal/app/system/authz"
	"github.com/bearenergy/dealflow/internal/app/system/timeouts"
	"github.com/bearenergy/dealflow/internal/app/system/viewdata"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the introducer portal: assigned deals, status workflow, and
// mandate management.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, ErrLog: errLog}
}

// assignedDealVM pairs an assignment with its deal for the dashboard table.
type assignedDealVM struct {
	Assignment models.DealAssignment
	Deal       models.Deal
}

type dashboardData struct {
	viewdata.BaseVM
	Profile       models.Introducer
	AssignedDeals []assignedDealVM
	Mandates      []models.InvestorMandate
}

// ServeDashboard renders the introducer portal: the broker's profile,
// assigned deals joined with deal details, and their mandate book.
// GET /introducer
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	profile, err := introducerstore.New(h.DB).GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderForbidden(w, r, "No introducer profile is linked to your account.", "/")
			return
		}
		h.ErrLog.LogServerError(w, r, "find introducer profile failed", err, "A database error occurred.", "/")
		return
	}

	assignments, err := assignmentstore.New(h.DB).ListByIntroducer(ctx, profile.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find assignments failed", err, "A database error occurred.", "/")
		return
	}

	assignedDeals, err := h.joinDeals(ctx, assignments)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find assigned deals failed", err, "A database error occurred.", "/")
		return
	}

	mandates, err := mandatestore.New(h.DB).ListByIntroducer(ctx, profile.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find mandates failed", err, "A database error occurred.", "/")
		return
	}

	data := dashboardData{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Introducer Portal", "/"),
		Profile:       *profile,
		AssignedDeals: assignedDeals,
		Mandates:      mandates,
	}

	templates.Render(w, r, "introducer_dashboard", data)
}

// joinDeals resolves each assignment's deal. Assignments whose deal has been
// removed are skipped rather than failing the whole page.
func (h *Handler) joinDeals(ctx context.Context, assignments []models.DealAssignment) ([]assignedDealVM, error) {
	deals := dealstore.New(h.DB)
	cache := make(map[primitive.ObjectID]*models.Deal)

	var out []assignedDealVM
	for _, a := range assignments {
		deal, seen := cache[a.DealID]
		if !seen {
			var err error
			deal, err = deals.GetByID(ctx, a.DealID)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					cache[a.DealID] = nil
					continue
				}
				return nil, err
			}
			cache[a.DealID] = deal
		}
		if deal == nil {
			continue
		}
		out = append(out, assignedDealVM{Assignment: a, Deal: *deal})
	}
	return out, nil
}
