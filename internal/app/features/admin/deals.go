// internal/app/features/admin/deals.go
package admin

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	dealstore "github.com/bearenergy/dealflow/internal/app/store/deals"
	"github.com/bearenergy/dealflow/internal/app/system/authz"
	"github.com/bearenergy/dealflow/internal/app/system/formutil"
	"github.com/bearenergy/dealflow/internal/app/system/htmlsanitize"
	"github.com/bearenergy/dealflow/internal/app/system/navigation"
	"github.com/bearenergy/dealflow/internal/app/system/timeouts"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

type dealFormData struct {
	formutil.Base
	DealTitle          string
	Description        string
	DealType           string
	CapacityMW         string
	InvestmentRequired string
	ExpectedReturn     string
	Location           string
	Country            string
	Priority           string
	Priorities         []string
}

// ServeNewDeal renders the "New Deal" form.
// Authorization: RequireRole("admin") middleware in routes.go.
func (h *Handler) ServeNewDeal(w http.ResponseWriter, r *http.Request) {
	data := dealFormData{
		Priority:   models.DefaultDealPriority,
		Priorities: models.DealPriorities,
	}
	formutil.SetBase(&data.Base, r, "New Deal", "/admin")

	templates.Render(w, r, "admin_deal_new", data)
}

// HandleCreateDeal processes the New Deal form submission.
func (h *Handler) HandleCreateDeal(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/admin")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := htmlsanitize.Sanitize(strings.TrimSpace(r.FormValue("description")))
	dealType := strings.TrimSpace(r.FormValue("deal_type"))
	location := strings.TrimSpace(r.FormValue("location"))
	country := strings.TrimSpace(r.FormValue("country"))
	priority := strings.TrimSpace(r.FormValue("priority"))

	capacity := parseFloatField(r.FormValue("capacity_mw"))
	investment := parseFloatField(r.FormValue("investment_required"))
	expectedReturn := parseFloatField(r.FormValue("expected_return"))

	renderWithError := func(msg string) {
		data := dealFormData{
			DealTitle:          title,
			Description:        description,
			DealType:           dealType,
			CapacityMW:         r.FormValue("capacity_mw"),
			InvestmentRequired: r.FormValue("investment_required"),
			ExpectedReturn:     r.FormValue("expected_return"),
			Location:           location,
			Country:            country,
			Priority:           priority,
			Priorities:         models.DealPriorities,
		}
		formutil.SetBase(&data.Base, r, "New Deal", "/admin")
		data.SetError(msg)
		templates.Render(w, r, "admin_deal_new", data)
	}

	if title == "" {
		renderWithError("Deal title is required.")
		return
	}
	if priority != "" && !models.IsValidDealPriority(priority) {
		renderWithError("Please select a valid priority.")
		return
	}

	_, _, adminID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deal := models.Deal{
		Title:              title,
		Description:        description,
		DealType:           dealType,
		CapacityMW:         capacity,
		InvestmentRequired: investment,
		ExpectedReturn:     expectedReturn,
		Location:           location,
		Country:            country,
		Priority:           priority,
		CreatedByID:        adminID,
	}

	if _, err := dealstore.New(h.DB).Create(ctx, deal); err != nil {
		renderWithError("Database error while creating deal.")
		return
	}

	ret := navigation.SafeBackURL(r, navigation.AdminBackURL)
	http.Redirect(w, r, ret, http.StatusSeeOther)
}

// parseFloatField parses a numeric form value, treating blank or malformed
// input as zero.
func parseFloatField(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
