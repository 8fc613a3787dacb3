// internal/app/features/admin/introducers.go
package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	introducerstore "github.com/bearenergy/dealflow/internal/app/store/introducers"
	userstore "github.com/bearenergy/dealflow/internal/app/store/users"
	"github.com/bearenergy/dealflow/internal/app/system/formutil"
	"github.com/bearenergy/dealflow/internal/app/system/navigation"
	"github.com/bearenergy/dealflow/internal/app/system/normalize"
	"github.com/bearenergy/dealflow/internal/app/system/timeouts"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

type introducerFormData struct {
	formutil.Base
	Name           string
	Email          string
	Company        string
	Specialization string
	Regions        string
	CommissionRate string
	Username       string
}

// ServeNewIntroducer renders the "New Introducer" form.
// Authorization: RequireRole("admin") middleware in routes.go.
func (h *Handler) ServeNewIntroducer(w http.ResponseWriter, r *http.Request) {
	data := introducerFormData{}
	formutil.SetBase(&data.Base, r, "New Introducer", "/admin")

	templates.Render(w, r, "admin_introducer_new", data)
}

// HandleCreateIntroducer processes the New Introducer form submission.
// It creates both the portal login (role "introducer") and the introducer
// profile linked to it. Specialization and regions arrive as comma-separated
// text and are stored as arrays.
func (h *Handler) HandleCreateIntroducer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/admin")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	company := strings.TrimSpace(r.FormValue("company"))
	specialization := r.FormValue("specialization")
	regions := r.FormValue("regions")
	commissionRaw := strings.TrimSpace(r.FormValue("commission_rate"))
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	renderWithError := func(msg string) {
		data := introducerFormData{
			Name:           name,
			Email:          email,
			Company:        company,
			Specialization: specialization,
			Regions:        regions,
			CommissionRate: commissionRaw,
			Username:       username,
		}
		formutil.SetBase(&data.Base, r, "New Introducer", "/admin")
		data.SetError(msg)
		templates.Render(w, r, "admin_introducer_new", data)
	}

	if name == "" {
		renderWithError("Introducer name is required.")
		return
	}
	if username == "" || password == "" {
		renderWithError("A username and password are required for the introducer's login.")
		return
	}

	commission := 0.0
	if commissionRaw != "" {
		v, err := strconv.ParseFloat(commissionRaw, 64)
		if err != nil || v < 0 || v > 1 {
			renderWithError("Commission rate must be a fraction between 0 and 1 (e.g. 0.05).")
			return
		}
		commission = v
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	users := userstore.New(h.DB)
	introducers := introducerstore.New(h.DB)

	user, err := users.Create(ctx, models.User{
		Username:    username,
		Role:        models.RoleIntroducer,
		CompanyName: company,
		Email:       email,
	}, password)
	if err != nil {
		msg := "Database error while creating the introducer login."
		if errors.Is(err, userstore.ErrDuplicateUsername) {
			msg = "That username is already taken."
		}
		renderWithError(msg)
		return
	}

	introducer := models.Introducer{
		UserID:         user.ID,
		Name:           name,
		Email:          email,
		Company:        company,
		Specialization: normalize.StringList(specialization),
		Regions:        normalize.StringList(regions),
		CommissionRate: commission,
	}

	if _, err := introducers.Create(ctx, introducer); err != nil {
		h.ErrLog.LogServerError(w, r, "create introducer profile failed", err, "The login was created but the profile could not be saved.", "/admin")
		return
	}

	ret := navigation.SafeBackURL(r, navigation.AdminBackURL)
	http.Redirect(w, r, ret, http.StatusSeeOther)
}
