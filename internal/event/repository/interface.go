package repository

import (
	"context"
	"time"

	"taskweave/internal/model"
)

// InsertEventOptions carries the fields for a new event row.
type InsertEventOptions struct {
	OrgID      string
	Provider   string
	ExternalID string // empty when the provider has no stable identifier
	EventType  string
	Payload    map[string]any
}

// Repository is the durable event store. ClaimUnprocessed is the concurrency
// boundary: it must atomically mark the returned rows as claimed so that two
// concurrent claimers can never observe the same event.
type Repository interface {
	// InsertEvent persists a new event. When ExternalID is non-empty and an
	// event with the same (org, provider, external_id) already exists it
	// returns ErrDuplicateEvent and writes nothing.
	InsertEvent(ctx context.Context, opt InsertEventOptions) (model.Event, error)

	// ClaimUnprocessed atomically claims up to batchSize unprocessed events.
	// Rows claimed before staleBefore and never finished are claimable again,
	// so a crashed worker's claims expire instead of wedging the backlog.
	ClaimUnprocessed(ctx context.Context, batchSize int, staleBefore time.Time) ([]model.Event, error)

	// MarkProcessed flips processed false→true and clears the claim.
	MarkProcessed(ctx context.Context, eventID string) error

	// ReleaseClaim clears the claim without marking processed, leaving the
	// event for retry on a later pass.
	ReleaseClaim(ctx context.Context, eventID string) error

	// GetEvent returns the event by id within the scope, or a zero value when
	// not found.
	GetEvent(ctx context.Context, sc model.Scope, eventID string) (model.Event, error)
}
