// internal/app/features/crm/new.go
package crm

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	developerstore "github.com/bearenergy/dealflow/internal/app/store/developers"
	"github.com/bearenergy/dealflow/internal/app/system/formutil"
	"github.com/bearenergy/dealflow/internal/app/system/htmlsanitize"
	"github.com/bearenergy/dealflow/internal/app/system/navigation"
	"github.com/bearenergy/dealflow/internal/app/system/timeouts"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

type developerFormData struct {
	formutil.Base
	CompanyName          string
	ContactPerson        string
	Email                string
	Phone                string
	TechnologyType       string
	LocationCountry      string
	LocationRegion       string
	TypicalProjectSizeMW string
	EstimatedValueGBP    string
	SuccessFeePercent    string
	Notes                string
	Technologies         []string
}

// ServeNew renders the "New Developer" form.
// GET /crm/new
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	data := developerFormData{
		TechnologyType: models.DefaultTechnologyType,
		Technologies:   models.TechnologyTypes,
	}
	formutil.SetBase(&data.Base, r, "New Developer", "/crm")

	templates.Render(w, r, "crm_new", data)
}

// HandleCreate processes the New Developer form submission.
// POST /crm
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/crm")
		return
	}

	company := strings.TrimSpace(r.FormValue("company_name"))
	contact := strings.TrimSpace(r.FormValue("contact_person"))
	email := strings.TrimSpace(r.FormValue("email"))
	phone := strings.TrimSpace(r.FormValue("phone"))
	technology := strings.TrimSpace(r.FormValue("technology_type"))
	country := strings.TrimSpace(r.FormValue("location_country"))
	region := strings.TrimSpace(r.FormValue("location_region"))
	notes := htmlsanitize.Sanitize(strings.TrimSpace(r.FormValue("notes")))

	renderWithError := func(msg string) {
		data := developerFormData{
			CompanyName:          company,
			ContactPerson:        contact,
			Email:                email,
			Phone:                phone,
			TechnologyType:       technology,
			LocationCountry:      country,
			LocationRegion:       region,
			TypicalProjectSizeMW: r.FormValue("typical_project_size_mw"),
			EstimatedValueGBP:    r.FormValue("estimated_value_gbp"),
			SuccessFeePercent:    r.FormValue("success_fee_percent"),
			Notes:                notes,
			Technologies:         models.TechnologyTypes,
		}
		formutil.SetBase(&data.Base, r, "New Developer", "/crm")
		data.SetError(msg)
		templates.Render(w, r, "crm_new", data)
	}

	if company == "" {
		renderWithError("Company name is required.")
		return
	}
	if technology != "" && !models.IsValidTechnologyType(technology) {
		renderWithError("Please select a valid technology type.")
		return
	}

	sizeMW, ok := parseNonNegative(r.FormValue("typical_project_size_mw"))
	if !ok {
		renderWithError("Typical project size must be a non-negative number.")
		return
	}
	value, ok := parseNonNegative(r.FormValue("estimated_value_gbp"))
	if !ok {
		renderWithError("Estimated value must be a non-negative number.")
		return
	}
	fee, ok := parseNonNegative(r.FormValue("success_fee_percent"))
	if !ok || fee > 100 {
		renderWithError("Success fee must be a percentage between 0 and 100.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	developer := models.CRMDeveloper{
		CompanyName:                company,
		ContactPerson:              contact,
		Email:                      email,
		Phone:                      phone,
		TechnologyType:             technology,
		LocationCountry:            country,
		LocationRegion:             region,
		TypicalProjectSizeMW:       sizeMW,
		EstimatedValueGBP:          value,
		EstimatedSuccessFeePercent: fee,
		Notes:                      notes,
	}

	if _, err := developerstore.New(h.DB).Create(ctx, developer); err != nil {
		renderWithError("Database error while creating the developer record.")
		return
	}

	ret := navigation.SafeBackURL(r, navigation.CRMBackURL)
	http.Redirect(w, r, ret, http.StatusSeeOther)
}

// parseNonNegative parses a numeric form value. Blank means zero; malformed
// or negative input is rejected.
func parseNonNegative(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
