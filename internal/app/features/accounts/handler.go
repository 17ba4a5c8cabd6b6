// internal/app/features/accounts/handler.go
package accounts

import (
	"errors"
	"net/http"

	"github.com/dalemusser/mepad/internal/app/system/auditlog"
	"github.com/dalemusser/mepad/internal/app/system/authz"
	"github.com/dalemusser/mepad/internal/app/system/respond"
	"github.com/dalemusser/mepad/internal/app/system/timeouts"
	"github.com/dalemusser/mepad/internal/domain/apperr"
	"go.uber.org/zap"
)

// Handler owns the /api/auth routes.
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

// HandleRegister handles POST /auth/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in RegisterInput
	if err := respond.Decode(r, w, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "register")
	defer cancel()

	sess, err := h.Svc.Register(ctx, in)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	h.AuditLog.Registered(ctx, r, sess.User.ID, sess.User.Email)
	respond.Created(w, sess)
}

// HandleLogin handles POST /auth/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in LoginInput
	if err := respond.Decode(r, w, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	sess, err := h.Svc.Login(ctx, in)
	var failure *LoginFailure
	if errors.As(err, &failure) {
		h.AuditLog.LoginFailed(ctx, r, failure.UserID, failure.EventType, in.Email, failure.Reason)
	}
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	h.AuditLog.LoginSuccess(ctx, r, sess.User.ID, sess.User.Email)
	respond.OK(w, sess)
}

// HandleMe handles GET /auth/me.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.ActorFrom(r)
	if !ok {
		respond.Error(w, r, h.Log, apperr.ErrUnauthenticated)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "me")
	defer cancel()

	p, err := h.Svc.Me(ctx, actor)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.OK(w, p)
}

// HandleRateLimited answers requests rejected by the auth rate limiter.
func (h *Handler) HandleRateLimited(w http.ResponseWriter, r *http.Request) {
	h.AuditLog.RateLimited(r.Context(), r)
	respond.Fail(w, http.StatusTooManyRequests, "too many requests, try again later")
}
