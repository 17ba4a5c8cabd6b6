package auditlog_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/mepad/internal/app/store/audit"
	"github.com/dalemusser/mepad/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type memRecorder struct {
	events []audit.Event
	err    error
}

func (m *memRecorder) Log(_ context.Context, ev audit.Event) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, ev)
	return nil
}

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	req := httptest.NewRequest("POST", "/api/auth/login", nil)

	// These should all be no-ops, not panic
	logger.Log(context.Background(), audit.Event{EventType: "test"})
	logger.LoginSuccess(context.Background(), req, primitive.NewObjectID(), "a@b.c")
	logger.RateLimited(context.Background(), req)
}

func TestLogger_Modes(t *testing.T) {
	tests := []struct {
		mode     string
		wantDB   int
		wantLogs int
	}{
		{auditlog.ModeAll, 1, 1},
		{auditlog.ModeDB, 1, 0},
		{auditlog.ModeLog, 0, 1},
		{auditlog.ModeOff, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			rec := &memRecorder{}
			core, logs := observer.New(zap.InfoLevel)
			logger := auditlog.New(rec, zap.New(core), auditlog.Config{Meeting: tt.mode})

			req := httptest.NewRequest("POST", "/api/meetings", nil)
			req.RemoteAddr = "10.1.2.3:4000"
			logger.Meeting(context.Background(), req, audit.EventMeetingCreated,
				primitive.NewObjectID(), primitive.NewObjectID(), nil, map[string]string{"title": "Standup"})

			if len(rec.events) != tt.wantDB {
				t.Errorf("stored events = %d, want %d", len(rec.events), tt.wantDB)
			}
			if logs.Len() != tt.wantLogs {
				t.Errorf("zap entries = %d, want %d", logs.Len(), tt.wantLogs)
			}
			if tt.wantDB == 1 && rec.events[0].IP != "10.1.2.3" {
				t.Errorf("IP = %q, want 10.1.2.3", rec.events[0].IP)
			}
		})
	}
}

func TestLogger_FailedEventsLogAtWarn(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := auditlog.New(&memRecorder{}, zap.New(core), auditlog.Config{Auth: auditlog.ModeLog})

	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	logger.LoginFailed(context.Background(), req, nil, audit.EventLoginFailedUserNotFound, "ghost@example.com", "user not found")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].Level != zap.WarnLevel {
		t.Errorf("level = %v, want warn", entries[0].Level)
	}
}

func TestLogger_StoreErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	logger := auditlog.New(&memRecorder{err: errors.New("db down")}, zap.New(core), auditlog.Config{Task: auditlog.ModeDB})

	req := httptest.NewRequest("POST", "/api/tasks", nil)
	logger.Task(context.Background(), req, audit.EventTaskCreated,
		primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID(), "pending")

	if logs.FilterMessage("failed to store audit event").Len() != 1 {
		t.Error("expected store failure to be logged")
	}
}

func TestValidMode(t *testing.T) {
	for _, m := range []string{"all", "db", "log", "off"} {
		if !auditlog.ValidMode(m) {
			t.Errorf("ValidMode(%q) = false", m)
		}
	}
	if auditlog.ValidMode("verbose") {
		t.Error("ValidMode(verbose) = true")
	}
}
