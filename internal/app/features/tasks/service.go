// internal/app/features/tasks/service.go
package tasks

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/mepad/internal/app/system/authz"
	"github.com/dalemusser/mepad/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mepad/internal/app/system/inputval"
	"github.com/dalemusser/mepad/internal/app/system/normalize"
	"github.com/dalemusser/mepad/internal/domain/apperr"
	"github.com/dalemusser/mepad/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStore is satisfied by *taskstore.Store.
type TaskStore interface {
	Create(ctx context.Context, t models.Task) (models.Task, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	ListByAssignee(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Task, error)
}

// UserLookup is satisfied by *userstore.Store.
type UserLookup interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// MeetingLookup is satisfied by *meetingstore.Store.
type MeetingLookup interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Meeting, error)
}

// CreateInput is the body of POST /tasks.
type CreateInput struct {
	Title       string         `json:"title" validate:"required,max=100"`
	Description string         `json:"description"`
	AssignedTo  string         `json:"assigned_to" validate:"required"`
	MeetingID   string         `json:"meeting_id"`
	DueDate     *inputval.Date `json:"due_date"`
}

// StatusInput is the body of PUT /tasks/{id}.
type StatusInput struct {
	Status string `json:"status" validate:"required"`
}

// Service creates tasks and moves them through their statuses.
type Service struct {
	tasks    TaskStore
	users    UserLookup
	meetings MeetingLookup
}

// NewService constructs a Service. meetings may be nil, in which case
// meeting_id is stored without checking it.
func NewService(tasks TaskStore, users UserLookup, meetings MeetingLookup) *Service {
	return &Service{tasks: tasks, users: users, meetings: meetings}
}

// Create stores a new pending task. Admin only.
func (s *Service) Create(ctx context.Context, in CreateInput, actor authz.Actor) (models.Task, error) {
	if !actor.IsAdmin() {
		return models.Task{}, apperr.ErrForbidden
	}
	in.Title = htmlsanitize.PlainText(in.Title)
	if err := inputval.Struct(in); err != nil {
		return models.Task{}, err
	}

	assignee, ok := normalize.ObjectID(in.AssignedTo)
	if !ok {
		return models.Task{}, apperr.Invalid("assigned_to must be a user id")
	}
	if _, err := s.users.GetByID(ctx, assignee); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return models.Task{}, apperr.Invalid("assigned user does not exist")
		}
		return models.Task{}, err
	}

	t := models.Task{
		Title:       in.Title,
		Description: htmlsanitize.Sanitize(in.Description),
		AssignedTo:  assignee,
		Status:      models.TaskPending,
		CreatedBy:   actor.ID,
	}
	if in.DueDate != nil {
		due := in.DueDate.Time
		t.DueDate = &due
	}
	if strings.TrimSpace(in.MeetingID) != "" {
		mid, err := s.meetingRef(ctx, in.MeetingID)
		if err != nil {
			return models.Task{}, err
		}
		t.MeetingID = &mid
	}
	return s.tasks.Create(ctx, t)
}

// ListMine returns the tasks assigned to actor.
func (s *Service) ListMine(ctx context.Context, actor authz.Actor) ([]models.Task, error) {
	return s.tasks.ListByAssignee(ctx, actor.ID)
}

// UpdateStatus changes the status of task id. Only the assignee or an admin
// may do so; anyone else sees apperr.ErrNotAuthorized.
func (s *Service) UpdateStatus(ctx context.Context, id primitive.ObjectID, in StatusInput, actor authz.Actor) (*models.Task, error) {
	if err := inputval.Struct(in); err != nil {
		return nil, err
	}
	status := normalize.Status(in.Status)
	if !inputval.OneOf(status, models.TaskStatuses) {
		return nil, apperr.Invalid("status must be one of: %s", strings.Join(models.TaskStatuses, ", "))
	}

	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.AssignedTo != actor.ID && !actor.IsAdmin() {
		return nil, apperr.ErrNotAuthorized
	}
	if t.Status == status {
		return t, nil
	}
	return s.tasks.UpdateStatus(ctx, id, status)
}

func (s *Service) meetingRef(ctx context.Context, hex string) (primitive.ObjectID, error) {
	mid, ok := normalize.ObjectID(hex)
	if !ok {
		return primitive.NilObjectID, apperr.Invalid("meeting_id must be a meeting id")
	}
	if s.meetings == nil {
		return mid, nil
	}
	if _, err := s.meetings.GetByID(ctx, mid); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return primitive.NilObjectID, apperr.Invalid("meeting does not exist")
		}
		return primitive.NilObjectID, err
	}
	return mid, nil
}
