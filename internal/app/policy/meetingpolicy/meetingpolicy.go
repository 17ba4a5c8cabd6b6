// internal/app/policy/meetingpolicy/meetingpolicy.go
package meetingpolicy

import (
	"github.com/dalemusser/mepad/internal/app/system/authz"
	"github.com/dalemusser/mepad/internal/domain/apperr"
	"github.com/dalemusser/mepad/internal/domain/models"
)

// Access is the level of access an operation needs on a meeting.
type Access int

const (
	// Owner: only the meeting's creator. Reads and edits of the meeting
	// itself and its action points.
	Owner Access = iota
	// OwnerOrAdmin: the creator or any admin. Listing pain points.
	OwnerOrAdmin
	// Admin: any admin, whoever created the meeting. Participants and
	// pain point changes.
	Admin
)

func (a Access) String() string {
	switch a {
	case Owner:
		return "owner"
	case OwnerOrAdmin:
		return "owner-or-admin"
	case Admin:
		return "admin"
	}
	return "unknown"
}

// Check decides whether actor may perform an operation needing need on m.
// Every meeting operation calls it after loading the document and before
// reading or changing anything.
//
// Ownership failures return apperr.ErrNotAuthorized; a missing admin role
// returns apperr.ErrForbidden.
func Check(m *models.Meeting, actor authz.Actor, need Access) error {
	isOwner := !actor.ID.IsZero() && m.CreatedBy == actor.ID

	switch need {
	case Owner:
		if isOwner {
			return nil
		}
		return apperr.ErrNotAuthorized
	case OwnerOrAdmin:
		if isOwner || actor.IsAdmin() {
			return nil
		}
		return apperr.ErrNotAuthorized
	case Admin:
		if actor.IsAdmin() {
			return nil
		}
		return apperr.ErrForbidden
	}
	return apperr.ErrForbidden
}
