// internal/app/features/crm/routes.go
package crm

import (
	"github.com/bearenergy/dealflow/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the developer CRM under the base path
// (typically "/crm" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))

		pr.Get("/", h.ServeList)
		pr.Get("/new", h.ServeNew)
		pr.Post("/", h.HandleCreate)
		pr.Post("/{id}/delete", h.HandleDelete)
	})

	return r
}
