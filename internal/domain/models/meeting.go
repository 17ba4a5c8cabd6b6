// internal/domain/models/meeting.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxMeetingTitle is the longest title a meeting may carry, in characters.
const MaxMeetingTitle = 50

// Action point statuses.
const (
	ActionPending    = "pending"
	ActionInProgress = "in-progress"
	ActionCompleted  = "completed"
)

// Pain point statuses and severities.
const (
	PainOpen       = "open"
	PainInProgress = "in-progress"
	PainResolved   = "resolved"
	PainClosed     = "closed"

	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// ActionPointStatuses lists the accepted action point statuses in display order.
var ActionPointStatuses = []string{ActionPending, ActionInProgress, ActionCompleted}

// PainPointStatuses lists the accepted pain point statuses in display order.
var PainPointStatuses = []string{PainOpen, PainInProgress, PainResolved, PainClosed}

// Severities lists the accepted pain point severities, lowest first.
var Severities = []string{SeverityLow, SeverityMedium, SeverityHigh}

// Meeting is the aggregate root. Action points and pain points are embedded
// and have no life outside the meeting document; participants are references
// into the users collection.
//
// NOTE:
//   - CreatedBy is set once at creation and never rewritten.
//   - Version is bumped on every write; stores use it to reject stale writes.
type Meeting struct {
	ID           primitive.ObjectID   `bson:"_id" json:"id"`
	Title        string               `bson:"title" json:"title"`
	TitleCI      string               `bson:"title_ci" json:"-"`
	Date         time.Time            `bson:"date" json:"date"`
	Venue        string               `bson:"venue" json:"venue"`
	Summary      string               `bson:"summary" json:"summary"`
	CreatedBy    primitive.ObjectID   `bson:"created_by" json:"created_by"`
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`
	ActionPoints []ActionPoint        `bson:"action_points" json:"action_points"`
	PainPoints   []PainPoint          `bson:"pain_points" json:"pain_points"`
	Version      int64                `bson:"version" json:"version"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ActionPoint is a follow-up tracked inside a meeting.
//
// AssignedTo always carries a human-readable assignee (free text, or the
// user's email when assignees are user references). AssigneeID is only set
// when assignees are user references.
type ActionPoint struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	Description string              `bson:"description" json:"description"`
	AssignedTo  string              `bson:"assigned_to" json:"assigned_to"`
	AssigneeID  *primitive.ObjectID `bson:"assignee_id,omitempty" json:"assignee_id,omitempty"`
	DueDate     time.Time           `bson:"due_date" json:"due_date"`
	Status      string              `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PainPoint is an issue raised against a meeting by an admin.
type PainPoint struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Description string             `bson:"description" json:"description"`
	Severity    string             `bson:"severity" json:"severity"`
	Status      string             `bson:"status" json:"status"`
	AddedBy     primitive.ObjectID `bson:"added_by" json:"added_by"`
	AddedAt     time.Time          `bson:"added_at" json:"added_at"`
}

// ActionPoint returns a pointer to the embedded action point with the given
// sub-identifier, or nil.
func (m *Meeting) ActionPoint(id primitive.ObjectID) *ActionPoint {
	for i := range m.ActionPoints {
		if m.ActionPoints[i].ID == id {
			return &m.ActionPoints[i]
		}
	}
	return nil
}

// PainPoint returns a pointer to the embedded pain point with the given
// sub-identifier, or nil.
func (m *Meeting) PainPoint(id primitive.ObjectID) *PainPoint {
	for i := range m.PainPoints {
		if m.PainPoints[i].ID == id {
			return &m.PainPoints[i]
		}
	}
	return nil
}

// HasParticipant reports whether userID is listed as a participant.
func (m *Meeting) HasParticipant(userID primitive.ObjectID) bool {
	for _, p := range m.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// IsUpcoming reports whether the meeting is strictly after now.
func (m *Meeting) IsUpcoming(now time.Time) bool {
	return m.Date.After(now)
}
