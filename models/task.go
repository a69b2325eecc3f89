package models

import "time"

// Layouts for the calendar date and time-of-day fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Task statuses. The first three are active; done/canceled are terminal.
const (
	TaskStatusBacklog  = "backlog"
	TaskStatusDoing    = "doing"
	TaskStatusWaiting  = "waiting"
	TaskStatusDone     = "done"
	TaskStatusCanceled = "canceled"
)

// Task priorities.
const (
	TaskPriorityLow    = "low"
	TaskPriorityNormal = "normal"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

// Task is a user task. The escalation pipeline reads tasks but never
// writes them; mutation belongs to the task CRUD endpoints.
type Task struct {
	ID           string    `bson:"id" json:"id"`
	ProjectID    string    `bson:"projectId,omitempty" json:"project_id,omitempty"`
	ParentTaskID string    `bson:"parentTaskId,omitempty" json:"parent_task_id,omitempty"`
	Title        string    `bson:"title" json:"title"`
	Description  string    `bson:"description" json:"description"`
	Status       string    `bson:"status" json:"status"`
	Priority     string    `bson:"priority" json:"priority"`
	DueDate      string    `bson:"dueDate,omitempty" json:"due_date,omitempty"` // "2006-01-02"
	DueTime      string    `bson:"dueTime,omitempty" json:"due_time,omitempty"` // "15:04"
	SortOrder    int       `bson:"sortOrder" json:"sort_order"`
	Source       string    `bson:"source" json:"source"`
	CreatedAt    time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updated_at"`
}

// IsTerminalStatus reports whether a task status ends its lifecycle.
func IsTerminalStatus(status string) bool {
	return status == TaskStatusDone || status == TaskStatusCanceled
}

// ValidTaskStatus reports whether the given status is one of the known values.
func ValidTaskStatus(status string) bool {
	switch status {
	case TaskStatusBacklog, TaskStatusDoing, TaskStatusWaiting, TaskStatusDone, TaskStatusCanceled:
		return true
	}
	return false
}

// ValidTaskPriority reports whether the given priority is one of the known values.
func ValidTaskPriority(priority string) bool {
	switch priority {
	case TaskPriorityLow, TaskPriorityNormal, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}
