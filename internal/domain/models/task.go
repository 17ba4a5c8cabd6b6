// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task statuses.
const (
	TaskPending    = "pending"
	TaskInProgress = "in-progress"
	TaskCompleted  = "completed"
)

// TaskStatuses lists the accepted task statuses in display order.
var TaskStatuses = []string{TaskPending, TaskInProgress, TaskCompleted}

// Task is an independent work item assigned to a user. Tasks are read by the
// dashboards; the meeting aggregate never writes them.
type Task struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	MeetingID   *primitive.ObjectID `bson:"meeting_id,omitempty" json:"meeting_id,omitempty"`
	AssignedTo  primitive.ObjectID  `bson:"assigned_to" json:"assigned_to"`
	Status      string              `bson:"status" json:"status"` // pending | in-progress | completed
	DueDate     *time.Time          `bson:"due_date,omitempty" json:"due_date,omitempty"`
	CreatedBy   primitive.ObjectID  `bson:"created_by" json:"created_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsCompleted reports whether the task has reached the completed state.
func (t Task) IsCompleted() bool { return t.Status == TaskCompleted }
