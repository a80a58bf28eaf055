package processor

import (
	"context"
	"errors"
	"fmt"

	eventrepo "taskweave/internal/event/repository"
	"taskweave/internal/model"
)

// ErrDuplicateEvent re-exports the store's dedup sentinel for callers of
// IngestEvent.
var ErrDuplicateEvent = eventrepo.ErrDuplicateEvent

// IngestEvent writes one normalized event into the store. Re-ingesting an item
// with the same (org, provider, external_id) returns ErrDuplicateEvent and the
// caller skips it — the skip-duplicates policy of integration sync.
func (p *Processor) IngestEvent(ctx context.Context, sc model.Scope, input IngestEventInput) (model.Event, error) {
	if input.Provider == "" {
		return model.Event{}, fmt.Errorf("processor: provider is required")
	}
	eventType := input.EventType
	if eventType == "" {
		eventType = "unknown"
	}

	ev, err := p.events.InsertEvent(ctx, eventrepo.InsertEventOptions{
		OrgID:      sc.OrgID,
		Provider:   input.Provider,
		ExternalID: input.ExternalID,
		EventType:  eventType,
		Payload:    input.Payload,
	})
	if err != nil {
		if errors.Is(err, eventrepo.ErrDuplicateEvent) {
			p.l.Debugf(ctx, "processor: duplicate event %s/%s skipped", input.Provider, input.ExternalID)
			return model.Event{}, ErrDuplicateEvent
		}
		return model.Event{}, err
	}

	p.l.Infof(ctx, "processor: ingested event %s provider=%s type=%s", ev.ID, ev.Provider, ev.EventType)
	return ev, nil
}
