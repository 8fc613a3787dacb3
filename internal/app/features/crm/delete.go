// internal/app/features/crm/delete.go
package crm

import (
	"context"
	"net/http"

	developerstore "github.com/bearenergy/dealflow/internal/app/store/developers"
	"github.com/bearenergy/dealflow/internal/app/system/navigation"
	"github.com/bearenergy/dealflow/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleDelete removes a developer record. Projects that referenced it keep
// their developer_id; nothing cascades.
// POST /crm/{id}/delete
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad developer id", err, "Invalid developer.", "/crm")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deleted, err := developerstore.New(h.DB).Delete(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete developer failed", err, "Unable to delete the developer.", "/crm")
		return
	}
	if deleted == 0 {
		h.ErrLog.LogNotFound(w, r, "developer not found", "Developer not found.", "/crm")
		return
	}

	h.Log.Info("developer deleted", zap.String("developer_id", id.Hex()))

	// Delete-return should never redirect back to a URL containing this id.
	ret := navigation.SafeBackURL(r, navigation.CRMBackURL)
	http.Redirect(w, r, ret, http.StatusSeeOther)
}
