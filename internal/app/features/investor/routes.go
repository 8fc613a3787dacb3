// internal/app/features/investor/routes.go
package investor

import (
	"github.com/bearenergy/dealflow/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the investor portal under the base path
// (typically "/investor" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("investor"))

		pr.Get("/", h.ServeDashboard)

		pr.Get("/projects/{id}/documents/{idx}", h.HandleDownloadDocument)

		pr.Post("/notifications/{id}/read", h.HandleMarkRead)
		pr.Post("/notifications/read-all", h.HandleMarkAllRead)
	})

	return r
}
