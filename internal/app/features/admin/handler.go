// internal/app/features/admin/handler.go
package admin

import (
	"context"
	"net/http"

	uierrors "github.com/bearenergy/dealflow/internal/app/features/errors"
	assignmentstore "github.com/bearenergy/dealflow/internal/app/store/assignments"
	dealstore "github.com/bearenergy/dealflow/internal/app/store/deals"
	introducerstore "github.com/bearenergy/dealflow/internal/app/store/introducers"
	projectstore "github.com/bearenergy/dealflow/internal/app/store/projects"
	userstore "github.com/bearenergy/dealflow/internal/app/store/users"
	"github.com/bearenergy/dealflow/internal/app/system/timeouts"
	"github.com/bearenergy/dealflow/internal/app/system/viewdata"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for the admin dashboard.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs an admin Handler bound to a DB and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
	}
}

// statsVM holds the headline numbers on the dashboard.
type statsVM struct {
	TotalDeals       int64
	ActiveDeals      int64
	AssignedDeals    int64
	Introducers      int64
	Investors        int64
	Projects         int64
	TotalAssignments int64
	TotalInvestment  float64
}

type dashboardData struct {
	viewdata.BaseVM
	Stats       statsVM
	Query       string
	Deals       []models.Deal
	Introducers []models.Introducer
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin – dashboard                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deals := dealstore.New(h.DB)
	introducers := introducerstore.New(h.DB)
	users := userstore.New(h.DB)
	projects := projectstore.New(h.DB)
	assignments := assignmentstore.New(h.DB)

	var stats statsVM
	var err error

	if stats.TotalDeals, err = deals.Count(ctx); err != nil {
		h.ErrLog.LogServerError(w, r, "count deals failed", err, "A database error occurred.", "/")
		return
	}
	if stats.ActiveDeals, err = deals.CountByStatus(ctx, models.DealStatusActive); err != nil {
		h.ErrLog.LogServerError(w, r, "count active deals failed", err, "A database error occurred.", "/")
		return
	}
	if stats.AssignedDeals, err = deals.CountByStatus(ctx, models.DealStatusAssigned); err != nil {
		h.ErrLog.LogServerError(w, r, "count assigned deals failed", err, "A database error occurred.", "/")
		return
	}
	if stats.Introducers, err = introducers.Count(ctx); err != nil {
		h.ErrLog.LogServerError(w, r, "count introducers failed", err, "A database error occurred.", "/")
		return
	}
	if stats.Investors, err = users.CountByRole(ctx, models.RoleInvestor); err != nil {
		h.ErrLog.LogServerError(w, r, "count investors failed", err, "A database error occurred.", "/")
		return
	}
	if stats.Projects, err = projects.Count(ctx); err != nil {
		h.ErrLog.LogServerError(w, r, "count projects failed", err, "A database error occurred.", "/")
		return
	}
	if stats.TotalAssignments, err = assignments.Count(ctx); err != nil {
		h.ErrLog.LogServerError(w, r, "count assignments failed", err, "A database error occurred.", "/")
		return
	}
	if stats.TotalInvestment, err = deals.SumInvestmentRequired(ctx); err != nil {
		h.ErrLog.LogServerError(w, r, "sum deal investment failed", err, "A database error occurred.", "/")
		return
	}

	q := query.Get(r, "q")

	var dealList []models.Deal
	if q != "" {
		dealList, err = deals.Search(ctx, q)
	} else {
		dealList, err = deals.List(ctx)
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find deals failed", err, "A database error occurred.", "/")
		return
	}

	introducerList, err := introducers.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find introducers failed", err, "A database error occurred.", "/")
		return
	}

	data := dashboardData{
		BaseVM:      viewdata.NewBaseVM(r, h.DB, "Admin Dashboard", "/"),
		Stats:       stats,
		Query:       q,
		Deals:       dealList,
		Introducers: introducerList,
	}

	templates.Render(w, r, "admin_dashboard", data)
}
