package repository

import (
	"context"

	"taskweave/internal/model"
)

// CreateTaskOptions carries the fields for a new task. Priority is clamped to
// the valid range before persistence; Source must be non-empty.
type CreateTaskOptions struct {
	Title       string
	Description string
	Priority    int
	Source      string
	Labels      []string
	ProjectID   string
}

// ListTasksOptions filters task listings within a scope.
type ListTasksOptions struct {
	Source string
	Limit  int
}

// Repository persists tasks, always scoped to one organization.
type Repository interface {
	CreateTask(ctx context.Context, sc model.Scope, opt CreateTaskOptions) (model.Task, error)
	ListTasks(ctx context.Context, sc model.Scope, opt ListTasksOptions) ([]model.Task, error)
}
