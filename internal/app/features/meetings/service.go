// internal/app/features/meetings/service.go
package meetings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/mepad/internal/app/policy/meetingpolicy"
	"github.com/dalemusser/mepad/internal/app/system/authz"
	"github.com/dalemusser/mepad/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mepad/internal/app/system/inputval"
	"github.com/dalemusser/mepad/internal/app/system/normalize"
	"github.com/dalemusser/mepad/internal/domain/apperr"
	"github.com/dalemusser/mepad/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assignee modes for action points.
const (
	// AssigneeText: assigned_to is free text and required.
	AssigneeText = "text"
	// AssigneeUser: assignee_id must name an existing user; the user's
	// email is copied into assigned_to for display.
	AssigneeUser = "user"
)

// MeetingStore is the persistence the service needs. *meetingstore.Store
// satisfies it.
type MeetingStore interface {
	Create(ctx context.Context, m models.Meeting) (models.Meeting, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Meeting, error)
	ListByCreator(ctx context.Context, userID primitive.ObjectID) ([]models.Meeting, error)
	Replace(ctx context.Context, m *models.Meeting) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserLookup resolves participants and user-reference assignees.
// *userstore.Store satisfies it.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Service implements the meeting aggregate operations. Every mutation loads
// the whole document, checks access with meetingpolicy.Check, changes it in
// memory and writes it back conditioned on the version it read.
type Service struct {
	meetings MeetingStore
	users    UserLookup
	assignee string
	now      func() time.Time
}

// NewService builds a Service. An empty assigneeMode means AssigneeText.
func NewService(meetings MeetingStore, users UserLookup, assigneeMode string) *Service {
	if assigneeMode == "" {
		assigneeMode = AssigneeText
	}
	return &Service{
		meetings: meetings,
		users:    users,
		assignee: assigneeMode,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new meeting owned by actor. Action points in the input are
// appended as if added one by one after creation.
func (s *Service) Create(ctx context.Context, in CreateInput, actor authz.Actor) (models.Meeting, error) {
	in.Title = htmlsanitize.PlainText(in.Title)
	in.Venue = htmlsanitize.PlainText(in.Venue)
	in.Summary = htmlsanitize.Sanitize(in.Summary)
	for i := range in.ActionPoints {
		in.ActionPoints[i].Description = htmlsanitize.Sanitize(in.ActionPoints[i].Description)
	}
	if err := inputval.Struct(in); err != nil {
		return models.Meeting{}, err
	}

	m := models.Meeting{
		Title:        in.Title,
		Date:         in.Date.Time,
		Venue:        in.Venue,
		Summary:      in.Summary,
		CreatedBy:    actor.ID,
		Participants: []primitive.ObjectID{},
		ActionPoints: []models.ActionPoint{},
		PainPoints:   []models.PainPoint{},
	}
	for _, ap := range in.ActionPoints {
		point, err := s.newActionPoint(ctx, ap)
		if err != nil {
			return models.Meeting{}, err
		}
		m.ActionPoints = append(m.ActionPoints, point)
	}
	return s.meetings.Create(ctx, m)
}

// List returns the meetings actor created, newest date first.
func (s *Service) List(ctx context.Context, actor authz.Actor) ([]models.Meeting, error) {
	return s.meetings.ListByCreator(ctx, actor.ID)
}

// Get returns one meeting owned by actor.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID, actor authz.Actor) (*models.Meeting, error) {
	return s.load(ctx, id, actor, meetingpolicy.Owner)
}

// Update merges the non-nil fields of patch and re-validates the result.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, patch UpdateInput, actor authz.Actor) (*models.Meeting, error) {
	m, err := s.load(ctx, id, actor, meetingpolicy.Owner)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		m.Title = htmlsanitize.PlainText(*patch.Title)
	}
	if patch.Date != nil {
		if patch.Date.IsZero() {
			return nil, apperr.Invalid("date is required")
		}
		m.Date = patch.Date.Time
	}
	if patch.Venue != nil {
		m.Venue = htmlsanitize.PlainText(*patch.Venue)
	}
	if patch.Summary != nil {
		m.Summary = htmlsanitize.Sanitize(*patch.Summary)
	}
	if err := validateMeeting(m); err != nil {
		return nil, err
	}
	if err := s.save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes the meeting together with its embedded points.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID, actor authz.Actor) error {
	if _, err := s.load(ctx, id, actor, meetingpolicy.Owner); err != nil {
		return err
	}
	return s.meetings.Delete(ctx, id)
}

// AddActionPoint appends a new pending action point and returns the meeting.
// The new point is the last element of ActionPoints.
func (s *Service) AddActionPoint(ctx context.Context, meetingID primitive.ObjectID, in ActionPointInput, actor authz.Actor) (*models.Meeting, error) {
	m, err := s.load(ctx, meetingID, actor, meetingpolicy.Owner)
	if err != nil {
		return nil, err
	}
	in.Description = htmlsanitize.Sanitize(in.Description)
	if err := inputval.Struct(in); err != nil {
		return nil, err
	}
	point, err := s.newActionPoint(ctx, in)
	if err != nil {
		return nil, err
	}
	m.ActionPoints = append(m.ActionPoints, point)
	if err := s.save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateActionPoint merges patch into one action point.
func (s *Service) UpdateActionPoint(ctx context.Context, meetingID, actionID primitive.ObjectID, patch ActionPointPatch, actor authz.Actor) (*models.Meeting, error) {
	m, err := s.load(ctx, meetingID, actor, meetingpolicy.Owner)
	if err != nil {
		return nil, err
	}
	ap := m.ActionPoint(actionID)
	if ap == nil {
		return nil, apperr.NotFound("action point")
	}

	if patch.Description != nil {
		d := htmlsanitize.Sanitize(*patch.Description)
		if d == "" {
			return nil, apperr.Invalid("description is required")
		}
		ap.Description = d
	}
	if patch.DueDate != nil {
		if patch.DueDate.IsZero() {
			return nil, apperr.Invalid("due_date is required")
		}
		ap.DueDate = patch.DueDate.Time
	}
	if patch.Status != nil {
		st := normalize.Status(*patch.Status)
		if !inputval.OneOf(st, models.ActionPointStatuses) {
			return nil, apperr.Invalid("status must be one of: %s", strings.Join(models.ActionPointStatuses, ", "))
		}
		ap.Status = st
	}
	if err := s.patchAssignee(ctx, ap, patch); err != nil {
		return nil, err
	}
	ap.UpdatedAt = s.now()
	if err := s.save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// AddParticipant adds the user registered under email. It returns the
// updated meeting and the added user's ID.
func (s *Service) AddParticipant(ctx context.Context, meetingID primitive.ObjectID, email string, actor authz.Actor) (*models.Meeting, primitive.ObjectID, error) {
	m, err := s.load(ctx, meetingID, actor, meetingpolicy.Admin)
	if err != nil {
		return nil, primitive.NilObjectID, err
	}
	in := ParticipantInput{Email: normalize.Email(email)}
	if err := inputval.Struct(in); err != nil {
		return nil, primitive.NilObjectID, err
	}
	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, primitive.NilObjectID, err
	}
	if m.HasParticipant(u.ID) {
		return nil, primitive.NilObjectID, apperr.Conflict("user already added to meeting")
	}
	m.Participants = append(m.Participants, u.ID)
	if err := s.save(ctx, m); err != nil {
		return nil, primitive.NilObjectID, err
	}
	return m, u.ID, nil
}

// RemoveParticipant drops userID from the participant list. Removing a user
// who is not listed leaves the meeting untouched.
func (s *Service) RemoveParticipant(ctx context.Context, meetingID, userID primitive.ObjectID, actor authz.Actor) (*models.Meeting, error) {
	m, err := s.load(ctx, meetingID, actor, meetingpolicy.Admin)
	if err != nil {
		return nil, err
	}
	if !m.HasParticipant(userID) {
		return m, nil
	}
	kept := make([]primitive.ObjectID, 0, len(m.Participants))
	for _, p := range m.Participants {
		if p != userID {
			kept = append(kept, p)
		}
	}
	m.Participants = kept
	if err := s.save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// AddPainPoint records an open pain point raised by actor.
func (s *Service) AddPainPoint(ctx context.Context, meetingID primitive.ObjectID, in PainPointInput, actor authz.Actor) (*models.Meeting, error) {
	m, err := s.load(ctx, meetingID, actor, meetingpolicy.Admin)
	if err != nil {
		return nil, err
	}
	in.Description = htmlsanitize.Sanitize(in.Description)
	in.Severity = normalize.Status(in.Severity)
	if err := inputval.Struct(in); err != nil {
		return nil, err
	}
	if in.Severity == "" {
		in.Severity = models.SeverityMedium
	}
	m.PainPoints = append(m.PainPoints, models.PainPoint{
		ID:          primitive.NewObjectID(),
		Description: in.Description,
		Severity:    in.Severity,
		Status:      models.PainOpen,
		AddedBy:     actor.ID,
		AddedAt:     s.now(),
	})
	if err := s.save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// UpdatePainPoint changes the status, severity or description of one pain point.
func (s *Service) UpdatePainPoint(ctx context.Context, meetingID, pointID primitive.ObjectID, patch PainPointPatch, actor authz.Actor) (*models.Meeting, error) {
	m, err := s.load(ctx, meetingID, actor, meetingpolicy.Admin)
	if err != nil {
		return nil, err
	}
	pp := m.PainPoint(pointID)
	if pp == nil {
		return nil, apperr.NotFound("pain point")
	}
	if patch.Description != nil {
		d := htmlsanitize.Sanitize(*patch.Description)
		if d == "" {
			return nil, apperr.Invalid("description is required")
		}
		pp.Description = d
	}
	if patch.Severity != nil {
		sev := normalize.Status(*patch.Severity)
		if !inputval.OneOf(sev, models.Severities) {
			return nil, apperr.Invalid("severity must be one of: %s", strings.Join(models.Severities, ", "))
		}
		pp.Severity = sev
	}
	if patch.Status != nil {
		st := normalize.Status(*patch.Status)
		if !inputval.OneOf(st, models.PainPointStatuses) {
			return nil, apperr.Invalid("status must be one of: %s", strings.Join(models.PainPointStatuses, ", "))
		}
		pp.Status = st
	}
	if err := s.save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListPainPoints returns the pain points of a meeting to its creator or an admin.
func (s *Service) ListPainPoints(ctx context.Context, meetingID primitive.ObjectID, actor authz.Actor) ([]models.PainPoint, error) {
	m, err := s.load(ctx, meetingID, actor, meetingpolicy.OwnerOrAdmin)
	if err != nil {
		return nil, err
	}
	if m.PainPoints == nil {
		return []models.PainPoint{}, nil
	}
	return m.PainPoints, nil
}

/* -------------------------------------------------------------------------- */

func (s *Service) load(ctx context.Context, id primitive.ObjectID, actor authz.Actor, need meetingpolicy.Access) (*models.Meeting, error) {
	m, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := meetingpolicy.Check(m, actor, need); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) save(ctx context.Context, m *models.Meeting) error {
	return s.meetings.Replace(ctx, m)
}

func validateMeeting(m *models.Meeting) error {
	if m.Date.IsZero() {
		return apperr.Invalid("date is required")
	}
	return inputval.Struct(meetingFields{Title: m.Title, Venue: m.Venue, Summary: m.Summary})
}

func (s *Service) newActionPoint(ctx context.Context, in ActionPointInput) (models.ActionPoint, error) {
	if in.DueDate == nil || in.DueDate.IsZero() {
		return models.ActionPoint{}, apperr.Invalid("due_date is required")
	}
	now := s.now()
	ap := models.ActionPoint{
		ID:          primitive.NewObjectID(),
		Description: in.Description,
		DueDate:     in.DueDate.Time,
		Status:      models.ActionPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if s.assignee == AssigneeUser {
		id, email, err := s.resolveAssignee(ctx, in.AssigneeID)
		if err != nil {
			return models.ActionPoint{}, err
		}
		ap.AssigneeID = &id
		ap.AssignedTo = email
		return ap, nil
	}
	ap.AssignedTo = htmlsanitize.PlainText(in.AssignedTo)
	if ap.AssignedTo == "" {
		return models.ActionPoint{}, apperr.Invalid("assigned_to is required")
	}
	return ap, nil
}

func (s *Service) patchAssignee(ctx context.Context, ap *models.ActionPoint, patch ActionPointPatch) error {
	if s.assignee == AssigneeUser {
		if patch.AssigneeID == nil {
			return nil
		}
		id, email, err := s.resolveAssignee(ctx, *patch.AssigneeID)
		if err != nil {
			return err
		}
		ap.AssigneeID = &id
		ap.AssignedTo = email
		return nil
	}
	if patch.AssignedTo == nil {
		return nil
	}
	to := htmlsanitize.PlainText(*patch.AssignedTo)
	if to == "" {
		return apperr.Invalid("assigned_to is required")
	}
	ap.AssignedTo = to
	return nil
}

func (s *Service) resolveAssignee(ctx context.Context, hex string) (primitive.ObjectID, string, error) {
	if strings.TrimSpace(hex) == "" {
		return primitive.NilObjectID, "", apperr.Invalid("assignee_id is required")
	}
	id, ok := normalize.ObjectID(hex)
	if !ok {
		return primitive.NilObjectID, "", apperr.Invalid("assignee_id must be a valid id")
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return primitive.NilObjectID, "", apperr.Invalid("assignee_id does not match a user")
		}
		return primitive.NilObjectID, "", err
	}
	return u.ID, u.Email, nil
}
