// internal/app/features/meetings/routes.go
package meetings

import (
	"github.com/dalemusser/mepad/internal/app/system/auth"
	"github.com/dalemusser/mepad/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter mounted under /api/meetings. Every route needs a
// signed-in user; participant and pain point changes also need the admin role.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Put("/", h.HandleUpdate)
		r.Delete("/", h.HandleDelete)

		r.Post("/action-points", h.HandleAddActionPoint)
		r.Put("/action-points/{actionId}", h.HandleUpdateActionPoint)

		r.Get("/painpoints", h.HandleListPainPoints)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin))
			r.Post("/painpoints", h.HandleAddPainPoint)
			r.Put("/painpoints/{pointId}", h.HandleUpdatePainPoint)
			r.Post("/participants", h.HandleAddParticipant)
			r.Delete("/participants/{userId}", h.HandleRemoveParticipant)
		})
	})
	return r
}
