// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task status values. StatusDone is terminal: analytics treats everything
// else as open when computing overdue counts.
const (
	StatusBacklog    = "BACKLOG"
	StatusTodo       = "TODO"
	StatusInProgress = "IN_PROGRESS"
	StatusInReview   = "IN_REVIEW"
	StatusDone       = "DONE"
)

// Task priority values.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

// AllTaskStatuses lists every valid status, in board order.
var AllTaskStatuses = []string{
	StatusBacklog,
	StatusTodo,
	StatusInProgress,
	StatusInReview,
	StatusDone,
}

// AllTaskPriorities lists every valid priority.
var AllTaskPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

// Task belongs to exactly one workspace and one project. TaskCode is a
// short human-readable identifier shown in lists and URLs.
type Task struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TaskCode    string              `bson:"task_code" json:"task_code"`
	WorkspaceID primitive.ObjectID  `bson:"workspace_id" json:"workspace_id"`
	ProjectID   primitive.ObjectID  `bson:"project_id" json:"project_id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Status      string              `bson:"status" json:"status"`
	Priority    string              `bson:"priority" json:"priority"`
	AssignedTo  *primitive.ObjectID `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`
	DueDate     *time.Time          `bson:"due_date,omitempty" json:"due_date,omitempty"`
	CreatedBy   primitive.ObjectID  `bson:"created_by" json:"created_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsValidTaskStatus checks a value against the closed status enumeration.
func IsValidTaskStatus(s string) bool {
	for _, v := range AllTaskStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsValidTaskPriority checks a value against the closed priority enumeration.
func IsValidTaskPriority(p string) bool {
	for _, v := range AllTaskPriorities {
		if v == p {
			return true
		}
	}
	return false
}
