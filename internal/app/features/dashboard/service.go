// internal/app/features/dashboard/service.go
package dashboard

import (
	"context"
	"time"

	"github.com/dalemusser/mepad/internal/app/system/authz"
	"github.com/dalemusser/mepad/internal/domain/apperr"
	"github.com/dalemusser/mepad/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MeetingReader is satisfied by *meetingstore.Store.
type MeetingReader interface {
	ListByCreator(ctx context.Context, userID primitive.ObjectID) ([]models.Meeting, error)
	ListByParticipant(ctx context.Context, userID primitive.ObjectID) ([]models.Meeting, error)
	ListAll(ctx context.Context) ([]models.Meeting, error)
}

// TaskReader is satisfied by *taskstore.Store.
type TaskReader interface {
	ListByAssignee(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error)
	ListByMeetings(ctx context.Context, meetingIDs []primitive.ObjectID) ([]models.Task, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

// UserReader is satisfied by *userstore.Store.
type UserReader interface {
	CountByRole(ctx context.Context, role string) (int64, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

// Service loads what each dashboard needs and hands it to the Build*
// functions. Nothing is cached; every call reads the stores again.
type Service struct {
	meetings MeetingReader
	tasks    TaskReader
	users    UserReader
	now      func() time.Time
}

func NewService(meetings MeetingReader, tasks TaskReader, users UserReader) *Service {
	return &Service{
		meetings: meetings,
		tasks:    tasks,
		users:    users,
		now:      time.Now,
	}
}

// Personal summarizes the meetings actor created.
func (s *Service) Personal(ctx context.Context, actor authz.Actor) (Personal, error) {
	meetings, err := s.meetings.ListByCreator(ctx, actor.ID)
	if err != nil {
		return Personal{}, err
	}
	return BuildPersonal(meetings, s.now()), nil
}

// Admin summarizes every meeting, with its participants and linked tasks,
// and the task and participant totals.
func (s *Service) Admin(ctx context.Context, actor authz.Actor) (Admin, error) {
	if !actor.IsAdmin() {
		return Admin{}, apperr.ErrNotAuthorized
	}
	meetings, err := s.meetings.ListAll(ctx)
	if err != nil {
		return Admin{}, err
	}
	users, err := s.users.ListByIDs(ctx, ParticipantIDs(meetings))
	if err != nil {
		return Admin{}, err
	}
	ids := make([]primitive.ObjectID, len(meetings))
	for i, m := range meetings {
		ids[i] = m.ID
	}
	tasks, err := s.tasks.ListByMeetings(ctx, ids)
	if err != nil {
		return Admin{}, err
	}

	var stats AdminStats
	if stats.TotalParticipants, err = s.users.CountByRole(ctx, models.RoleParticipant); err != nil {
		return Admin{}, err
	}
	if stats.TotalTasks, err = s.tasks.Count(ctx); err != nil {
		return Admin{}, err
	}
	if stats.CompletedTasks, err = s.tasks.CountByStatus(ctx, models.TaskCompleted); err != nil {
		return Admin{}, err
	}
	return BuildAdmin(meetings, users, tasks, stats), nil
}

// Participant summarizes the meetings actor attends and the tasks assigned
// to actor.
func (s *Service) Participant(ctx context.Context, actor authz.Actor) (ParticipantView, error) {
	meetings, err := s.meetings.ListByParticipant(ctx, actor.ID)
	if err != nil {
		return ParticipantView{}, err
	}
	tasks, err := s.tasks.ListByAssignee(ctx, actor.ID)
	if err != nil {
		return ParticipantView{}, err
	}
	return BuildParticipant(meetings, tasks, s.now()), nil
}
