// internal/app/features/introducer/assignments.go
package introducer

import (
	"context"
	"errors"
	"net/http"
	"strings"

	assignmentstore "github.com/bearenergy/dealflow/internal/app/store/assignments"
	dealstore "github.com/bearenergy/dealflow/internal/app/store/deals"
	introducerstore "github.com/bearenergy/dealflow/internal/app/store/introducers"
	"github.com/bearenergy/dealflow/internal/app/system/authz"
	"github.com/bearenergy/dealflow/internal/app/system/htmlsanitize"
	"github.com/bearenergy/dealflow/internal/app/system/timeouts"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// allowedTransitions maps each assignment status to the statuses an
// introducer may move it to. Completed and rejected are terminal.
var allowedTransitions = map[string][]string{
	models.AssignmentStatusAssigned: {
		models.AssignmentStatusInProgress,
		models.AssignmentStatusCompleted,
		models.AssignmentStatusRejected,
	},
	models.AssignmentStatusInProgress: {
		models.AssignmentStatusCompleted,
		models.AssignmentStatusRejected,
	},
}

func canTransition(from, to string) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// HandleAssignmentStatus moves one of the introducer's assignments through
// the workflow. Completion bumps the introducer's running totals using the
// commission percentage frozen on the assignment.
// POST /introducer/assignments/{id}/status
func (h *Handler) HandleAssignmentStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/introducer")
		return
	}

	assignmentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad assignment id", err, "Invalid assignment.", "/introducer")
		return
	}

	status := strings.TrimSpace(r.FormValue("status"))
	notes := htmlsanitize.SanitizeStrict(strings.TrimSpace(r.FormValue("notes")))

	if !models.IsValidAssignmentStatus(status) {
		h.ErrLog.LogBadRequest(w, r, "bad assignment status", nil, "Invalid status.", "/introducer")
		return
	}

	_, _, userID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	profile, err := introducerstore.New(h.DB).GetByUserID(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find introducer profile failed", err, "A database error occurred.", "/introducer")
		return
	}

	assignments := assignmentstore.New(h.DB)

	assignment, err := assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.ErrLog.LogNotFound(w, r, "assignment not found", "Assignment not found.", "/introducer")
			return
		}
		h.ErrLog.LogServerError(w, r, "find assignment failed", err, "A database error occurred.", "/introducer")
		return
	}

	// Introducers may only work their own assignments.
	if assignment.IntroducerID != profile.ID {
		h.ErrLog.LogNotFound(w, r, "assignment not owned by introducer", "Assignment not found.", "/introducer")
		return
	}

	if !canTransition(assignment.Status, status) {
		h.ErrLog.LogBadRequest(w, r, "invalid status transition", nil, "That status change is not allowed.", "/introducer")
		return
	}

	if err := assignments.SetStatus(ctx, assignmentID, status, notes); err != nil {
		h.ErrLog.LogServerError(w, r, "update assignment failed", err, "Unable to update the assignment.", "/introducer")
		return
	}

	if status == models.AssignmentStatusCompleted {
		h.recordCompletion(ctx, profile, assignment)
	}

	h.Log.Info("assignment status updated",
		zap.String("assignment_id", assignmentID.Hex()),
		zap.String("from", assignment.Status),
		zap.String("to", status))

	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/introducer")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	http.Redirect(w, r, "/introducer", http.StatusSeeOther)
}

// recordCompletion bumps the introducer's closed-deal totals. The commission
// earned is the assignment's frozen percentage applied to the deal's
// investment requirement. Total bookkeeping failures are logged, not
// surfaced; the status change already stands.
func (h *Handler) recordCompletion(ctx context.Context, profile *models.Introducer, assignment *models.DealAssignment) {
	commission := 0.0
	deal, err := dealstore.New(h.DB).GetByID(ctx, assignment.DealID)
	if err != nil {
		h.Log.Error("deal lookup for completion failed, recording zero commission",
			zap.String("deal_id", assignment.DealID.Hex()),
			zap.String("assignment_id", assignment.ID.Hex()),
			zap.Error(err))
	} else {
		commission = assignment.CommissionPercentage * deal.InvestmentRequired
	}

	if err := introducerstore.New(h.DB).RecordClosedDeal(ctx, profile.ID, commission); err != nil {
		h.Log.Error("record closed deal failed",
			zap.String("introducer_id", profile.ID.Hex()),
			zap.String("assignment_id", assignment.ID.Hex()),
			zap.Error(err))
	}
}
