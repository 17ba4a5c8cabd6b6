// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/mepad/internal/app/store/audit"
	"github.com/dalemusser/mepad/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category of events.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// ValidMode reports whether s is one of the destination modes.
func ValidMode(s string) bool {
	switch s {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// Config holds audit logging configuration, one mode per category.
type Config struct {
	Auth    string
	Meeting string
	Task    string
}

// Recorder persists audit events. *audit.Store satisfies it.
type Recorder interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via a Recorder) and structured logs (via zap).
type Logger struct {
	store  Recorder
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store Recorder, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.MeetingID != nil {
		fields = append(fields, zap.String("meeting_id", event.MeetingID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryMeeting:
		setting = l.config.Meeting
	case audit.CategoryTask:
		setting = l.config.Task
	}
	if setting == "" {
		setting = ModeAll
	}
	if setting == ModeOff {
		return
	}

	if setting == ModeAll || setting == ModeLog {
		l.logToZap(event)
	}
	if (setting == ModeAll || setting == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func fromRequest(r *http.Request, ev audit.Event) audit.Event {
	ev.IP = ratelimit.ClientIP(r)
	ev.UserAgent = r.UserAgent()
	return ev
}

// --- Authentication Events ---

// Registered logs a new self-registered account.
func (l *Logger) Registered(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventRegistered,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"email": email},
	}))
}

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"email": email},
	}))
}

// LoginFailed logs a rejected login. userID is nil when the email matched no
// account. eventType is one of the audit.EventLoginFailed* constants.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, userID *primitive.ObjectID, eventType, attemptedEmail, reason string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     eventType,
		UserID:        userID,
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"attempted_email": attemptedEmail},
	}))
}

// RateLimited logs a request rejected by the auth rate limiter.
func (l *Logger) RateLimited(ctx context.Context, r *http.Request) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventRateLimited,
		Success:       false,
		FailureReason: "rate limit exceeded",
		Details:       map[string]string{"path": r.URL.Path},
	}))
}

// --- Meeting Events ---

// Meeting logs a change to a meeting or one of its embedded entities.
// subjectID names the affected participant for participant events and is
// otherwise nil. details may be nil.
func (l *Logger) Meeting(ctx context.Context, r *http.Request, eventType string, actorID, meetingID primitive.ObjectID, subjectID *primitive.ObjectID, details map[string]string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryMeeting,
		EventType: eventType,
		ActorID:   &actorID,
		MeetingID: &meetingID,
		UserID:    subjectID,
		Success:   true,
		Details:   details,
	}))
}

// --- Task Events ---

// Task logs task creation or a status change. assignee is the affected user.
func (l *Logger) Task(ctx context.Context, r *http.Request, eventType string, actorID, taskID, assignee primitive.ObjectID, status string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryTask,
		EventType: eventType,
		ActorID:   &actorID,
		UserID:    &assignee,
		Success:   true,
		Details: map[string]string{
			"task_id": taskID.Hex(),
			"status":  status,
		},
	}))
}
