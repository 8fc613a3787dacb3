// internal/app/features/admin/routes.go
package admin

import (
	"github.com/bearenergy/dealflow/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin dashboard under the base path
// (typically "/admin" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))

		pr.Get("/", h.ServeDashboard)

		// Deals
		pr.Get("/deals/new", h.ServeNewDeal)
		pr.Post("/deals", h.HandleCreateDeal)
		pr.Get("/deals/{id}/assign", h.ServeAssignDeal)
		pr.Post("/deals/{id}/assign", h.HandleAssignDeal)

		// Introducers
		pr.Get("/introducers/new", h.ServeNewIntroducer)
		pr.Post("/introducers", h.HandleCreateIntroducer)
	})

	return r
}
