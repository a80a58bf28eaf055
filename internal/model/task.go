package model

import "time"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusBlocked    TaskStatus = "blocked"
)

// Task priority bounds. Priorities are always clamped into this range before
// persistence.
const (
	MinPriority = 1
	MaxPriority = 5
)

// Task is an actionable work item, created either by the extraction pipeline or
// by an automation action. Source records provenance ("<provider>:<event_type>"
// for extracted tasks, "automation" for rule-created ones) and is never empty.
type Task struct {
	ID          string
	OrgID       string
	ProjectID   string // optional
	Title       string
	Description string
	Priority    int // 1..5
	Source      string
	Status      TaskStatus
	Labels      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ClampPriority forces p into [MinPriority, MaxPriority].
func ClampPriority(p int) int {
	if p < MinPriority {
		return MinPriority
	}
	if p > MaxPriority {
		return MaxPriority
	}
	return p
}
