// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/dalemusser/mepad/internal/app/system/auth"
	"github.com/dalemusser/mepad/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.HandleListMine)
	r.Put("/{id}", h.HandleUpdateStatus)
	r.With(auth.RequireRole(models.RoleAdmin)).Post("/", h.HandleCreate)
	return r
}
