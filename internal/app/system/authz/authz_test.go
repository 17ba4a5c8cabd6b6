package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/mepad/internal/app/system/auth"
	"github.com/dalemusser/mepad/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)

	role, name, id, ok := authz.UserCtx(req)
	if ok {
		t.Fatal("expected ok=false without a user")
	}
	if role != "visitor" || name != "" || !id.IsZero() {
		t.Errorf("unexpected values: %q %q %s", role, name, id.Hex())
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.User{ID: "not-hex", Role: "admin"})

	if _, _, _, ok := authz.UserCtx(req); ok {
		t.Error("expected malformed user ID to fail closed")
	}
	if _, ok := authz.ActorFrom(req); ok {
		t.Error("ActorFrom must fail for a malformed user ID")
	}
}

func TestActorFrom(t *testing.T) {
	oid := primitive.NewObjectID()
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.User{ID: oid.Hex(), Name: "Ada", Role: "ADMIN"})

	actor, ok := authz.ActorFrom(req)
	if !ok {
		t.Fatal("expected an actor")
	}
	if actor.ID != oid {
		t.Errorf("ID = %s, want %s", actor.ID.Hex(), oid.Hex())
	}
	if !actor.IsAdmin() {
		t.Error("role should be lowercased and recognised as admin")
	}
}
