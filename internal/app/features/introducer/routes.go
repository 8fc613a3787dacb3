// internal/app/features/introducer/routes.go
package introducer

import (
	"github.com/bearenergy/dealflow/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the introducer portal under the base path
// (typically "/introducer" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("introducer"))

		pr.Get("/", h.ServeDashboard)

		pr.Post("/assignments/{id}/status", h.HandleAssignmentStatus)

		pr.Get("/mandates/new", h.ServeNewMandate)
		pr.Post("/mandates", h.HandleCreateMandate)
	})

	return r
}
