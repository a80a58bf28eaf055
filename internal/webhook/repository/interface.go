package repository

import (
	"context"

	"taskweave/internal/model"
)

// CreateWebhookOptions carries the fields for a new webhook registration. The
// signing secret is generated server-side at creation; callers never supply it.
type CreateWebhookOptions struct {
	URL              string
	SubscribedEvents []string
	Active           bool
}

// Repository persists webhook registrations.
type Repository interface {
	// CreateWebhook registers an endpoint and generates its signing secret.
	// The returned model carries the secret in plaintext exactly once.
	CreateWebhook(ctx context.Context, sc model.Scope, opt CreateWebhookOptions) (model.Webhook, error)

	// ListActive returns all active webhooks for the scope, secrets included,
	// for delivery signing.
	ListActive(ctx context.Context, sc model.Scope) ([]model.Webhook, error)
}
