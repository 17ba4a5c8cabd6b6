// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/mepad/internal/app/system/auth"
	"github.com/dalemusser/mepad/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes wires the dashboards under whatever mount point the top-level
// router chooses (e.g., "/api/dashboard").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// All dashboards require the user to be signed in.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/", h.ServePersonal)
		pr.Get("/participant", h.ServeParticipant)
		pr.With(auth.RequireRole(models.RoleAdmin)).Get("/admin", h.ServeAdmin)
	})

	return r
}
