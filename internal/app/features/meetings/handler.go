// internal/app/features/meetings/handler.go
package meetings

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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler owns the /api/meetings routes.
type Handler struct {
	Svc      *Service
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a Handler. auditLog may be nil.
func NewHandler(svc *Service, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:      svc,
		AuditLog: auditLog,
		Log:      logger,
	}
}

// HandleCreate handles POST /meetings.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var in CreateInput
	if err := respond.Decode(r, w, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "meeting create")
	defer cancel()

	m, err := h.Svc.Create(ctx, in, actor)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	h.AuditLog.Meeting(ctx, r, audit.EventMeetingCreated, actor.ID, m.ID, nil, map[string]string{"title": m.Title})
	respond.Created(w, m)
}

// HandleList handles GET /meetings.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "meeting list")
	defer cancel()

	list, err := h.Svc.List(ctx, actor)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.List(w, list, len(list))
}

// HandleGet handles GET /meetings/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndMeeting(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "meeting get")
	defer cancel()

	m, err := h.Svc.Get(ctx, id, actor)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.OK(w, m)
}

// HandleUpdate handles PUT /meetings/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndMeeting(w, r)
	if !ok {
		return
	}
	var patch UpdateInput
	if err := respond.Decode(r, w, &patch); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "meeting update")
	defer cancel()

	m, err := h.Svc.Update(ctx, id, patch, actor)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	h.AuditLog.Meeting(ctx, r, audit.EventMeetingUpdated, actor.ID, m.ID, nil, nil)
	respond.OK(w, m)
}

// HandleDelete handles DELETE /meetings/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndMeeting(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "meeting delete")
	defer cancel()

	if err := h.Svc.Delete(ctx, id, actor); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	h.AuditLog.Meeting(ctx, r, audit.EventMeetingDeleted, actor.ID, id, nil, nil)
	respond.OK(w, struct{}{})
}

// HandleAddActionPoint handles POST /meetings/{id}/action-points.
func (h *Handler) HandleAddActionPoint(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndMeeting(w, r)
	if !ok {
		return
	}
	var in ActionPointInput
	if err := respond.Decode(r, w, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "action point add")
	defer cancel()

	m, err := h.Svc.AddActionPoint(ctx, id, in, actor)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	added := m.ActionPoints[len(m.ActionPoints)-1]
	h.AuditLog.Meeting(ctx, r, audit.EventActionPointAdded, actor.ID, m.ID, nil,
		map[string]string{"action_point_id": added.ID.Hex()})
	respond.Created(w, m)
}

// HandleUpdateActionPoint handles PUT /meetings/{id}/action-points/{actionId}.
func (h *Handler) HandleUpdateActionPoint(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndMeeting(w, r)
	if !ok {
		return
	}
	actionID, ok := normalize.ObjectID(chi.URLParam(r, "actionId"))
	if !ok {
		respond.Error(w, r, h.Log, apperr.NotFound("action point"))
		return
	}
	var patch ActionPointPatch
	if err := respond.Decode(r, w, &patch); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "action point update")
	defer cancel()

	m, err := h.Svc.UpdateActionPoint(ctx, id, actionID, patch, actor)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	h.AuditLog.Meeting(ctx, r, audit.EventActionPointUpdated, actor.ID, m.ID, nil,
		map[string]string{"action_point_id": actionID.Hex(), "status": m.ActionPoint(actionID).Status})
	respond.OK(w, m)
}

// HandleListPainPoints handles GET /meetings/{id}/painpoints.
func (h *Handler) HandleListPainPoints(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndMeeting(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "pain point list")
	defer cancel()

	points, err := h.Svc.ListPainPoints(ctx, id, actor)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.List(w, points, len(points))
}

// HandleAddPainPoint handles POST /meetings/{id}/painpoints.
func (h *Handler) HandleAddPainPoint(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndMeeting(w, r)
	if !ok {
		return
	}
	var in PainPointInput
	if err := respond.Decode(r, w, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "pain point add")
	defer cancel()

	m, err := h.Svc.AddPainPoint(ctx, id, in, actor)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	added := m.PainPoints[len(m.PainPoints)-1]
	h.AuditLog.Meeting(ctx, r, audit.EventPainPointAdded, actor.ID, m.ID, nil,
		map[string]string{"pain_point_id": added.ID.Hex(), "severity": added.Severity})
	respond.OK(w, m)
}

// HandleUpdatePainPoint handles PUT /meetings/{id}/painpoints/{pointId}.
func (h *Handler) HandleUpdatePainPoint(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndMeeting(w, r)
	if !ok {
		return
	}
	pointID, ok := normalize.ObjectID(chi.URLParam(r, "pointId"))
	if !ok {
		respond.Error(w, r, h.Log, apperr.NotFound("pain point"))
		return
	}
	var patch PainPointPatch
	if err := respond.Decode(r, w, &patch); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "pain point update")
	defer cancel()

	m, err := h.Svc.UpdatePainPoint(ctx, id, pointID, patch, actor)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	h.AuditLog.Meeting(ctx, r, audit.EventPainPointUpdated, actor.ID, m.ID, nil,
		map[string]string{"pain_point_id": pointID.Hex(), "status": m.PainPoint(pointID).Status})
	respond.OK(w, m)
}

// HandleAddParticipant handles POST /meetings/{id}/participants.
func (h *Handler) HandleAddParticipant(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndMeeting(w, r)
	if !ok {
		return
	}
	var in ParticipantInput
	if err := respond.Decode(r, w, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "participant add")
	defer cancel()

	m, userID, err := h.Svc.AddParticipant(ctx, id, in.Email, actor)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	h.AuditLog.Meeting(ctx, r, audit.EventParticipantAdded, actor.ID, m.ID, &userID, nil)
	respond.OK(w, m)
}

// HandleRemoveParticipant handles DELETE /meetings/{id}/participants/{userId}.
func (h *Handler) HandleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndMeeting(w, r)
	if !ok {
		return
	}
	// An unparseable user ID cannot be listed, so removal is a no-op.
	userID, _ := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "participant remove")
	defer cancel()

	m, err := h.Svc.RemoveParticipant(ctx, id, userID, actor)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	h.AuditLog.Meeting(ctx, r, audit.EventParticipantRemoved, actor.ID, m.ID, &userID, nil)
	respond.OK(w, m)
}

/* -------------------------------------------------------------------------- */

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (authz.Actor, bool) {
	actor, ok := authz.ActorFrom(r)
	if !ok {
		respond.Error(w, r, h.Log, apperr.ErrUnauthenticated)
	}
	return actor, ok
}

// actorAndMeeting resolves the caller and the {id} URL parameter. A malformed
// id cannot name a stored meeting and reads as not found.
func (h *Handler) actorAndMeeting(w http.ResponseWriter, r *http.Request) (authz.Actor, primitive.ObjectID, bool) {
	actor, ok := h.actor(w, r)
	if !ok {
		return authz.Actor{}, primitive.NilObjectID, false
	}
	id, ok := normalize.ObjectID(chi.URLParam(r, "id"))
	if !ok {
		respond.Error(w, r, h.Log, apperr.NotFound("meeting"))
		return authz.Actor{}, primitive.NilObjectID, false
	}
	return actor, id, true
}
