// internal/app/features/introducer/mandates.go
package introducer

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	introducerstore "github.com/bearenergy/dealflow/internal/app/store/introducers"
	mandatestore "github.com/bearenergy/dealflow/internal/app/store/mandates"
	"github.com/bearenergy/dealflow/internal/app/system/authz"
	"github.com/bearenergy/dealflow/internal/app/system/formutil"
	"github.com/bearenergy/dealflow/internal/app/system/navigation"
	"github.com/bearenergy/dealflow/internal/app/system/normalize"
	"github.com/bearenergy/dealflow/internal/app/system/timeouts"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
)

// Risk tolerance options offered on the mandate form.
var riskTolerances = []string{"low", "medium", "high"}

type mandateFormData struct {
	formutil.Base
	InvestorName          string
	InvestorType          string
	MinInvestment         string
	MaxInvestment         string
	PreferredTechnologies string
	PreferredRegions      string
	RiskTolerance         string
	RiskTolerances        []string
}

// ServeNewMandate renders the "New Mandate" form.
// GET /introducer/mandates/new
func (h *Handler) ServeNewMandate(w http.ResponseWriter, r *http.Request) {
	data := mandateFormData{
		RiskTolerance:  "medium",
		RiskTolerances: riskTolerances,
	}
	formutil.SetBase(&data.Base, r, "New Mandate", "/introducer")

	templates.Render(w, r, "introducer_mandate_new", data)
}

// HandleCreateMandate processes the New Mandate form. The new mandate is
// active immediately, so it joins the fan-out set for future deal
// assignments.
// POST /introducer/mandates
func (h *Handler) HandleCreateMandate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/introducer")
		return
	}

	investorName := strings.TrimSpace(r.FormValue("investor_name"))
	investorType := strings.TrimSpace(r.FormValue("investor_type"))
	technologies := r.FormValue("preferred_technologies")
	regions := r.FormValue("preferred_regions")
	risk := strings.TrimSpace(r.FormValue("risk_tolerance"))

	renderWithError := func(msg string) {
		data := mandateFormData{
			InvestorName:          investorName,
			InvestorType:          investorType,
			MinInvestment:         r.FormValue("min_investment"),
			MaxInvestment:         r.FormValue("max_investment"),
			PreferredTechnologies: technologies,
			PreferredRegions:      regions,
			RiskTolerance:         risk,
			RiskTolerances:        riskTolerances,
		}
		formutil.SetBase(&data.Base, r, "New Mandate", "/introducer")
		data.SetError(msg)
		templates.Render(w, r, "introducer_mandate_new", data)
	}

	if investorName == "" {
		renderWithError("Investor name is required.")
		return
	}

	minInvestment, ok := parseInvestment(r.FormValue("min_investment"))
	if !ok {
		renderWithError("Minimum investment must be a non-negative number.")
		return
	}
	maxInvestment, ok := parseInvestment(r.FormValue("max_investment"))
	if !ok {
		renderWithError("Maximum investment must be a non-negative number.")
		return
	}
	if maxInvestment > 0 && maxInvestment < minInvestment {
		renderWithError("Maximum investment must be at least the minimum.")
		return
	}

	_, _, userID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	profile, err := introducerstore.New(h.DB).GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			renderWithError("No introducer profile is linked to your account.")
			return
		}
		h.ErrLog.LogServerError(w, r, "find introducer profile failed", err, "A database error occurred.", "/introducer")
		return
	}

	mandate := models.InvestorMandate{
		IntroducerID:          profile.ID,
		InvestorName:          investorName,
		InvestorType:          investorType,
		MinInvestment:         minInvestment,
		MaxInvestment:         maxInvestment,
		PreferredTechnologies: normalize.StringList(technologies),
		PreferredRegions:      normalize.StringList(regions),
		RiskTolerance:         normalize.Status(risk),
	}

	if _, err := mandatestore.New(h.DB).Create(ctx, mandate); err != nil {
		renderWithError("Database error while creating the mandate.")
		return
	}

	ret := navigation.SafeBackURL(r, navigation.IntroducerBackURL)
	http.Redirect(w, r, ret, http.StatusSeeOther)
}

// parseInvestment parses a money form value. Blank means zero; malformed or
// negative input is rejected.
func parseInvestment(s string) (float64, bool) {
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
