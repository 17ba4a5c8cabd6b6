package taskstore_test

import (
	"errors"
	"testing"
	"time"

	taskstore "github.com/dalemusser/mepad/internal/app/store/tasks"
	"github.com/dalemusser/mepad/internal/domain/apperr"
	"github.com/dalemusser/mepad/internal/domain/models"
	"github.com/dalemusser/mepad/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_DefaultsPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Task{Title: "Send minutes", AssignedTo: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if created.Status != models.TaskPending {
		t.Errorf("Status = %q, want pending", created.Status)
	}
}

func TestStore_ListByAssignee_UndatedLast(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	later := time.Now().Add(72 * time.Hour).UTC()
	sooner := time.Now().Add(24 * time.Hour).UTC()
	for _, task := range []models.Task{
		{Title: "undated", AssignedTo: user},
		{Title: "later", AssignedTo: user, DueDate: &later},
		{Title: "sooner", AssignedTo: user, DueDate: &sooner},
		{Title: "not mine", AssignedTo: primitive.NewObjectID()},
	} {
		if _, err := store.Create(ctx, task); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	list, err := store.ListByAssignee(ctx, user)
	if err != nil {
		t.Fatalf("ListByAssignee failed: %v", err)
	}
	want := []string{"sooner", "later", "undated"}
	if len(list) != len(want) {
		t.Fatalf("got %d tasks, want %d", len(list), len(want))
	}
	for i, task := range list {
		if task.Title != want[i] {
			t.Errorf("list[%d] = %q, want %q", i, task.Title, want[i])
		}
	}
}

func TestStore_UpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, models.Task{Title: "Book room", AssignedTo: primitive.NewObjectID()})

	updated, err := store.UpdateStatus(ctx, created.ID, models.TaskCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if !updated.IsCompleted() {
		t.Errorf("Status = %q, want completed", updated.Status)
	}

	n, err := store.CountByStatus(ctx, models.TaskCompleted)
	if err != nil {
		t.Fatalf("CountByStatus failed: %v", err)
	}
	if n != 1 {
		t.Errorf("CountByStatus = %d, want 1", n)
	}

	if _, err := store.UpdateStatus(ctx, primitive.NewObjectID(), models.TaskCompleted); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListByMeetings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m1, m2, m3 := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	user := primitive.NewObjectID()
	for _, task := range []models.Task{
		{Title: "first", AssignedTo: user, MeetingID: &m1},
		{Title: "unlinked", AssignedTo: user},
		{Title: "second", AssignedTo: user, MeetingID: &m2},
		{Title: "third", AssignedTo: user, MeetingID: &m3},
	} {
		if _, err := store.Create(ctx, task); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	list, err := store.ListByMeetings(ctx, []primitive.ObjectID{m1, m2})
	if err != nil {
		t.Fatalf("ListByMeetings failed: %v", err)
	}
	if len(list) != 2 || list[0].Title != "first" || list[1].Title != "second" {
		t.Errorf("ListByMeetings = %+v, want first and second", list)
	}

	empty, err := store.ListByMeetings(ctx, nil)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("ListByMeetings(nil) = %v, %v; want empty slice", empty, err)
	}
}
