package repository

import (
	"context"

	"taskweave/internal/model"
)

// CreateAutomationOptions carries the fields for a new automation rule.
type CreateAutomationOptions struct {
	Name       string
	Trigger    model.Trigger
	Conditions model.Conditions
	Actions    model.Actions
	Enabled    bool
}

// Repository persists automation rules. ListEnabled is read fresh on every
// evaluation; the engine never caches rules across calls.
type Repository interface {
	CreateAutomation(ctx context.Context, sc model.Scope, opt CreateAutomationOptions) (model.Automation, error)
	ListEnabled(ctx context.Context, sc model.Scope) ([]model.Automation, error)
}
