package repository

import (
	"context"

	"taskweave/internal/model"
)

// Repository looks up an organization's provider integrations. The automation
// engine uses it to decide whether an integration_action has a live target.
type Repository interface {
	// GetByProvider returns the scoped integration for provider, or a zero
	// value when none is configured.
	GetByProvider(ctx context.Context, sc model.Scope, provider string) (model.Integration, error)
}
