// internal/app/features/tasks/handler.go
package tasks

import (
	"net/http"

	"github.com/dalemusser/mepad/internal/app/store/audit"
	"github.com/dalemusser/mepad/internal/app/system/auditlog"
	"github.com/dalemusser/mepad/internal/app/system/authz"
	"github.com/dalemusser/mepad/internal/app/system/normalize"
	"github.com/dalemusser/mepad/internal/app/system/respond"
	"github.com/dalemusser/mepad/internal/app/system/timeouts"
	"github.com/dalemusser/mepad/internal/domain/apperr"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler owns the /api/tasks routes.
type Handler struct {
	Svc      *Service
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(svc *Service, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:      svc,
		AuditLog: auditLog,
		Log:      logger,
	}
}

// HandleCreate handles POST /tasks.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.ActorFrom(r)
	if !ok {
		respond.Error(w, r, h.Log, apperr.ErrUnauthenticated)
		return
	}
	var in CreateInput
	if err := respond.Decode(r, w, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "task create")
	defer cancel()

	t, err := h.Svc.Create(ctx, in, actor)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	h.AuditLog.Task(ctx, r, audit.EventTaskCreated, actor.ID, t.ID, t.AssignedTo, t.Status)
	respond.Created(w, t)
}

// HandleListMine handles GET /tasks.
func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.ActorFrom(r)
	if !ok {
		respond.Error(w, r, h.Log, apperr.ErrUnauthenticated)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "task list")
	defer cancel()

	list, err := h.Svc.ListMine(ctx, actor)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.List(w, list, len(list))
}

// HandleUpdateStatus handles PUT /tasks/{id}.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.ActorFrom(r)
	if !ok {
		respond.Error(w, r, h.Log, apperr.ErrUnauthenticated)
		return
	}
	id, ok := normalize.ObjectID(chi.URLParam(r, "id"))
	if !ok {
		respond.Error(w, r, h.Log, apperr.NotFound("task"))
		return
	}
	var in StatusInput
	if err := respond.Decode(r, w, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "task status")
	defer cancel()

	t, err := h.Svc.UpdateStatus(ctx, id, in, actor)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	h.AuditLog.Task(ctx, r, audit.EventTaskStatusChanged, actor.ID, t.ID, t.AssignedTo, t.Status)
	respond.OK(w, t)
}
