// internal/app/features/projects/routes.go
package projects

import (
	"github.com/bearenergy/dealflow/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the project pipeline under the base path
// (typically "/projects" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))

		pr.Get("/upload", h.ServeUpload)
		pr.Post("/upload", h.HandleUpload)

		pr.Get("/distribute", h.ServeDistribute)
		pr.Post("/distribute", h.HandleDistribute)
	})

	return r
}
