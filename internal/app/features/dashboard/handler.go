// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	"github.com/dalemusser/mepad/internal/app/system/authz"
	"github.com/dalemusser/mepad/internal/app/system/respond"
	"github.com/dalemusser/mepad/internal/app/system/timeouts"
	"github.com/dalemusser/mepad/internal/domain/apperr"
	"go.uber.org/zap"
)

type Handler struct {
	Svc *Service
	Log *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{
		Svc: svc,
		Log: logger,
	}
}

// ServePersonal handles GET /dashboard.
func (h *Handler) ServePersonal(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.ActorFrom(r)
	if !ok {
		respond.Error(w, r, h.Log, apperr.ErrUnauthenticated)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "personal dashboard")
	defer cancel()

	data, err := h.Svc.Personal(ctx, actor)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.OK(w, data)
}

// ServeAdmin handles GET /dashboard/admin.
func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.ActorFrom(r)
	if !ok {
		respond.Error(w, r, h.Log, apperr.ErrUnauthenticated)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin dashboard")
	defer cancel()

	data, err := h.Svc.Admin(ctx, actor)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.OK(w, data)
}

// ServeParticipant handles GET /dashboard/participant.
func (h *Handler) ServeParticipant(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.ActorFrom(r)
	if !ok {
		respond.Error(w, r, h.Log, apperr.ErrUnauthenticated)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "participant dashboard")
	defer cancel()

	data, err := h.Svc.Participant(ctx, actor)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.OK(w, data)
}
