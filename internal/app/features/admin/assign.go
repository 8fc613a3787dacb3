// internal/app/features/admin/assign.go
package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"

	dealstore "github.com/bearenergy/dealflow/internal/app/store/deals"
	introducerstore "github.com/bearenergy/dealflow/internal/app/store/introducers"
	"github.com/bearenergy/dealflow/internal/app/store/queries/dealassign"
	"github.com/bearenergy/dealflow/internal/app/system/authz"
	"github.com/bearenergy/dealflow/internal/app/system/formutil"
	"github.com/bearenergy/dealflow/internal/app/system/timeouts"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type assignFormData struct {
	formutil.Base
	Deal        models.Deal
	Introducers []models.Introducer
}

// ServeAssignDeal renders the assignment form for a deal: a list of active
// introducers to fan the deal out to.
// GET /admin/deals/{id}/assign
func (h *Handler) ServeAssignDeal(w http.ResponseWriter, r *http.Request) {
	dealID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad deal id", err, "Invalid deal.", "/admin")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deal, err := dealstore.New(h.DB).GetByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.ErrLog.LogNotFound(w, r, "deal not found", "Deal not found.", "/admin")
			return
		}
		h.ErrLog.LogServerError(w, r, "find deal failed", err, "A database error occurred.", "/admin")
		return
	}

	introducers, err := introducerstore.New(h.DB).ListActive(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find introducers failed", err, "A database error occurred.", "/admin")
		return
	}

	data := assignFormData{
		Deal:        *deal,
		Introducers: introducers,
	}
	formutil.SetBase(&data.Base, r, "Assign Deal", "/admin")

	templates.Render(w, r, "admin_deal_assign", data)
}

// HandleAssignDeal runs the distribution workflow for a deal.
// POST /admin/deals/{id}/assign
func (h *Handler) HandleAssignDeal(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/admin")
		return
	}

	dealID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad deal id", err, "Invalid deal.", "/admin")
		return
	}

	introducerID, err := primitive.ObjectIDFromHex(strings.TrimSpace(r.FormValue("introducer_id")))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad introducer id", err, "Please choose an introducer.", "/admin")
		return
	}

	_, _, adminID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	res, err := dealassign.Assign(ctx, h.DB, h.Log, dealID, introducerID, adminID)
	if err != nil {
		switch {
		case errors.Is(err, dealassign.ErrDealNotActive):
			h.ErrLog.LogBadRequest(w, r, "deal not active", err, "This deal has already been assigned.", "/admin")
		case errors.Is(err, dealassign.ErrIntroducerNotActive):
			h.ErrLog.LogBadRequest(w, r, "introducer not active", err, "That introducer is no longer active.", "/admin")
		case errors.Is(err, dealassign.ErrNoActiveMandates):
			h.ErrLog.LogBadRequest(w, r, "no active mandates", err, "That introducer has no active mandates to receive the deal.", "/admin")
		case errors.Is(err, mongo.ErrNoDocuments):
			h.ErrLog.LogNotFound(w, r, "deal or introducer not found", "Deal or introducer not found.", "/admin")
		default:
			h.ErrLog.LogServerError(w, r, "assign deal failed", err, "Unable to assign the deal.", "/admin")
		}
		return
	}

	h.Log.Info("deal assigned",
		zap.String("deal_id", res.Deal.ID.Hex()),
		zap.String("introducer_id", res.Introducer.ID.Hex()),
		zap.Int("assignments", len(res.Assignments)))

	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/admin")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
