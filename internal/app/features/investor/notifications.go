// internal/app/features/investor/notifications.go
package investor

import (
	"context"
	"net/http"

	notificationstore "github.com/bearenergy/dealflow/internal/app/store/notifications"
	"github.com/bearenergy/dealflow/internal/app/system/authz"
	"github.com/bearenergy/dealflow/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleMarkRead marks one of the investor's notifications as read.
// POST /investor/notifications/{id}/read
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad notification id", err, "Invalid notification.", "/investor")
		return
	}

	_, _, userID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := notificationstore.New(h.DB).MarkRead(ctx, id, userID); err != nil {
		h.ErrLog.LogServerError(w, r, "mark notification read failed", err, "Unable to update the notification.", "/investor")
		return
	}

	http.Redirect(w, r, "/investor", http.StatusSeeOther)
}

// HandleMarkAllRead clears the investor's unread badge.
// POST /investor/notifications/read-all
func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	_, _, userID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := notificationstore.New(h.DB).MarkAllRead(ctx, userID); err != nil {
		h.ErrLog.LogServerError(w, r, "mark notifications read failed", err, "Unable to update notifications.", "/investor")
		return
	}

	http.Redirect(w, r, "/investor", http.StatusSeeOther)
}
