// internal/app/features/investor/handler.go
package investor

import (
	"context"
	"html/template"
	"net/http"

	uierrors "github.com/bearenergy/dealflow/internal/app/features/errors"
	accessstore "github.com/bearenergy/dealflow/internal/app/store/access"
	notificationstore "github.com/bearenergy/dealflow/internal/app/store/notifications"
	projectstore "github.com/bearenergy/dealflow/internal/app/store/projects"
	"github.com/bearenergy/dealflow/internal/app/system/authz"
	"github.com/bearenergy/dealflow/internal/app/system/timeouts"
	"github.com/bearenergy/dealflow/internal/app/system/viewdata"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the investor portal: granted projects at their disclosure
// tier, document downloads, and notifications.
type Handler struct {
	DB      *mongo.Database
	Storage storage.Store
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, store storage.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Storage: store, Log: logger, ErrLog: errLog}
}

// projectVM is one granted project with the investor's effective tier.
// Tier content is strictly additive: the template shows the summary always,
// the teaser from tier 2, and the full data room plus documents at tier 3.
type projectVM struct {
	Project models.ProjectUpload
	Tier    int
}

func (p projectVM) ShowTeaser() bool   { return p.Tier >= 2 }
func (p projectVM) ShowDataRoom() bool { return p.Tier >= 3 }

// Tier content is sanitized at upload time, so it is safe to render as HTML.
func (p projectVM) Summary() template.HTML  { return template.HTML(p.Project.Tier1Summary) }
func (p projectVM) Teaser() template.HTML   { return template.HTML(p.Project.Tier2Teaser) }
func (p projectVM) DataRoom() template.HTML { return template.HTML(p.Project.Tier3FullData) }

type dashboardData struct {
	viewdata.BaseVM
	Projects      []projectVM
	Notifications []models.Notification
	UnreadCount   int64
}

// ServeDashboard renders the investor portal. An investor sees a project
// exactly when they hold an access grant for it.
// GET /investor
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	grants, err := accessstore.New(h.DB).ListByInvestor(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find access grants failed", err, "A database error occurred.", "/")
		return
	}

	projects, err := h.resolveProjects(ctx, grants)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find projects failed", err, "A database error occurred.", "/")
		return
	}

	notifications := notificationstore.New(h.DB)

	notes, err := notifications.ListByUser(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find notifications failed", err, "A database error occurred.", "/")
		return
	}
	unread, err := notifications.CountUnread(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count notifications failed", err, "A database error occurred.", "/")
		return
	}

	data := dashboardData{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Investor Portal", "/"),
		Projects:      projects,
		Notifications: notes,
		UnreadCount:   unread,
	}

	templates.Render(w, r, "investor_dashboard", data)
}

// resolveProjects loads the granted projects and pairs each with the
// investor's effective tier. Grants whose project has been removed are
// dropped silently.
func (h *Handler) resolveProjects(ctx context.Context, grants []models.InvestorProjectAccess) ([]projectVM, error) {
	if len(grants) == 0 {
		return nil, nil
	}

	tierByProject := make(map[primitive.ObjectID]int, len(grants))
	ids := make([]primitive.ObjectID, 0, len(grants))
	for _, g := range grants {
		if _, seen := tierByProject[g.ProjectID]; seen {
			continue
		}
		tierByProject[g.ProjectID] = models.EffectiveTier(g.AccessTier)
		ids = append(ids, g.ProjectID)
	}

	projects, err := projectstore.New(h.DB).ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]projectVM, 0, len(projects))
	for _, p := range projects {
		out = append(out, projectVM{Project: p, Tier: tierByProject[p.ID]})
	}
	return out, nil
}
