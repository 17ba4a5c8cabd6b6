// internal/app/features/meetings/input.go
package meetings

import "github.com/dalemusser/mepad/internal/app/system/inputval"

// CreateInput is the body of POST /meetings.
type CreateInput struct {
	Title        string             `json:"title" validate:"required,max=50"`
	Date         *inputval.Date     `json:"date" validate:"required"`
	Venue        string             `json:"venue" validate:"required"`
	Summary      string             `json:"summary" validate:"required"`
	ActionPoints []ActionPointInput `json:"action_points" validate:"omitempty,dive"`
}

// UpdateInput is a partial update; nil fields are left as stored. Nested
// collections change only through their own operations, and created_by is
// not accepted at all.
type UpdateInput struct {
	Title   *string        `json:"title"`
	Date    *inputval.Date `json:"date"`
	Venue   *string        `json:"venue"`
	Summary *string        `json:"summary"`
}

// ActionPointInput is the body of POST /meetings/{id}/action-points.
// Status is accepted for compatibility and ignored: new points start pending.
type ActionPointInput struct {
	Description string         `json:"description" validate:"required"`
	AssignedTo  string         `json:"assigned_to"`
	AssigneeID  string         `json:"assignee_id"`
	DueDate     *inputval.Date `json:"due_date" validate:"required"`
	Status      string         `json:"status"`
}

// ActionPointPatch is the body of PUT /meetings/{id}/action-points/{actionId}.
type ActionPointPatch struct {
	Description *string        `json:"description"`
	AssignedTo  *string        `json:"assigned_to"`
	AssigneeID  *string        `json:"assignee_id"`
	DueDate     *inputval.Date `json:"due_date"`
	Status      *string        `json:"status"`
}

// PainPointInput is the body of POST /meetings/{id}/painpoints.
type PainPointInput struct {
	Description string `json:"description" validate:"required"`
	Severity    string `json:"severity" validate:"omitempty,oneof=low medium high"`
}

// PainPointPatch is the body of PUT /meetings/{id}/painpoints/{pointId}.
type PainPointPatch struct {
	Description *string `json:"description"`
	Severity    *string `json:"severity"`
	Status      *string `json:"status"`
}

// ParticipantInput is the body of POST /meetings/{id}/participants.
type ParticipantInput struct {
	Email string `json:"email" validate:"required,email"`
}

// meetingFields is validated after every create and merge.
type meetingFields struct {
	Title   string `json:"title" validate:"required,max=50"`
	Venue   string `json:"venue" validate:"required"`
	Summary string `json:"summary" validate:"required"`
}
