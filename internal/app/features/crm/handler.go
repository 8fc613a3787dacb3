// internal/app/features/crm/handler.go
package crm

import (
	"context"
	"net/http"

	uierrors "github.com/bearenergy/dealflow/internal/app/features/errors"
	developerstore "github.com/bearenergy/dealflow/internal/app/store/developers"
	"github.com/bearenergy/dealflow/internal/app/system/formutil"
	"github.com/bearenergy/dealflow/internal/app/system/timeouts"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin CRM: the developer pipeline behind project
// sourcing.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, ErrLog: errLog}
}

// techGroup is one technology section of the CRM list.
type techGroup struct {
	Technology string
	Developers []models.CRMDeveloper
}

type listData struct {
	formutil.Base
	Query        string
	Technology   string
	Technologies []string
	Groups       []techGroup
	Total        int
}

// ServeList renders the CRM developer list, optionally filtered by a search
// query (?q=) or a technology type (?technology=), grouped by technology.
// GET /crm
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := query.Get(r, "q")
	technology := query.Get(r, "technology")
	if !models.IsValidTechnologyType(technology) {
		technology = ""
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := developerstore.New(h.DB)

	var (
		developers []models.CRMDeveloper
		err        error
	)
	switch {
	case q != "":
		developers, err = store.Search(ctx, q)
	case technology != "":
		developers, err = store.ListByTechnology(ctx, technology)
	default:
		developers, err = store.List(ctx)
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find developers failed", err, "A database error occurred.", "/admin")
		return
	}

	data := listData{
		Query:        q,
		Technology:   technology,
		Technologies: models.TechnologyTypes,
		Groups:       groupByTechnology(developers),
		Total:        len(developers),
	}
	formutil.SetBase(&data.Base, r, "Developer CRM", "/admin")

	templates.Render(w, r, "crm_list", data)
}

// groupByTechnology splits developers into sections following the canonical
// technology order. Unknown types land in a trailing section.
func groupByTechnology(developers []models.CRMDeveloper) []techGroup {
	byTech := make(map[string][]models.CRMDeveloper)
	for _, d := range developers {
		byTech[d.TechnologyType] = append(byTech[d.TechnologyType], d)
	}

	var groups []techGroup
	for _, t := range models.TechnologyTypes {
		if devs := byTech[t]; len(devs) > 0 {
			groups = append(groups, techGroup{Technology: t, Developers: devs})
			delete(byTech, t)
		}
	}
	for t, devs := range byTech {
		groups = append(groups, techGroup{Technology: t, Developers: devs})
	}
	return groups
}
