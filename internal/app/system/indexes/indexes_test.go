package indexes

import (
	"context"
	"testing"

	"github.com/dalemusser/mepad/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexNames(t *testing.T, ctx context.Context, coll *mongo.Collection) map[string]bool {
	t.Helper()
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestKeySig(t *testing.T) {
	got := keySig(bson.D{{Key: "created_by", Value: 1}, {Key: "date", Value: -1}})
	if want := "created_by:1, date:-1"; got != want {
		t.Errorf("keySig = %q, want %q", got, want)
	}
}

func TestSameBoolPtr(t *testing.T) {
	tru, fls := true, false
	tests := []struct {
		a, b *bool
		want bool
	}{
		{nil, nil, true},
		{nil, &fls, true},
		{&fls, nil, true},
		{&tru, nil, false},
		{&tru, &tru, true},
		{&tru, &fls, false},
	}
	for _, tt := range tests {
		if got := sameBoolPtr(tt.a, tt.b); got != tt.want {
			t.Errorf("sameBoolPtr(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	expected := map[string][]string{
		"users":        {"uniq_users_email", "idx_users_role_status"},
		"meetings":     {"idx_meetings_createdby_date", "idx_meetings_participants_date", "idx_meetings_date__id"},
		"tasks":        {"idx_tasks_assignedto_status", "idx_tasks_meeting", "idx_tasks_status"},
		"audit_events": {"idx_audit_timestamp", "idx_audit_actor_timestamp"},
	}
	for coll, names := range expected {
		got := indexNames(t, ctx, db.Collection(coll))
		for _, name := range names {
			if !got[name] {
				t.Errorf("expected index %q on %s", name, coll)
			}
		}
	}
}

func TestEnsureAll_RenamesDriftedIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Same keys, legacy name.
	_, err := db.Collection("tasks").Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "status", Value: 1}},
		Options: options.Index().SetName("status_legacy"),
	})
	if err != nil {
		t.Fatalf("create legacy index: %v", err)
	}

	if err := EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	got := indexNames(t, ctx, db.Collection("tasks"))
	if got["status_legacy"] {
		t.Error("legacy index should have been replaced")
	}
	if !got["idx_tasks_status"] {
		t.Error("expected idx_tasks_status after reconcile")
	}
}
