package processor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"taskweave/internal/extraction"
	"taskweave/internal/model"
	taskrepo "taskweave/internal/task/repository"
)

// ProcessPendingEvents claims up to limit unprocessed events and processes
// them with bounded per-event concurrency. The claim itself is atomic in the
// store; the fan-out here only decides how many run at once. A worker never
// lets a failure escape as a panic: every event resolves to processed or
// released-for-retry.
func (p *Processor) ProcessPendingEvents(ctx context.Context, limit int) (ProcessReport, error) {
	if limit <= 0 {
		limit = p.cfg.BatchSize
	}
	staleBefore := time.Now().Add(-p.cfg.ClaimTTL)

	events, err := p.events.ClaimUnprocessed(ctx, limit, staleBefore)
	if err != nil {
		return ProcessReport{}, fmt.Errorf("processor: claim batch: %w", err)
	}

	report := ProcessReport{Claimed: len(events)}
	if len(events) == 0 {
		return report, nil
	}
	p.l.Infof(ctx, "processor: claimed %d pending events", len(events))

	var (
		processed    atomic.Int64
		failed       atomic.Int64
		tasksCreated atomic.Int64
	)

	sem := make(chan struct{}, p.cfg.Workers)
	var wg sync.WaitGroup
	for _, ev := range events {
		wg.Add(1)
		sem <- struct{}{}
		go func(ev model.Event) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					failed.Add(1)
					p.l.Errorf(ctx, "processor: panic processing event %s: %v", ev.ID, r)
					p.releaseClaim(ctx, ev.ID)
				}
			}()

			created, err := p.processEvent(ctx, ev)
			if err != nil {
				failed.Add(1)
				p.l.Errorf(ctx, "processor: event %s failed: %v", ev.ID, err)
				return
			}
			processed.Add(1)
			tasksCreated.Add(int64(created))
		}(ev)
	}
	wg.Wait()

	report.Processed = int(processed.Load())
	report.Failed = int(failed.Load())
	report.TasksCreated = int(tasksCreated.Load())
	return report, nil
}

// processEvent runs one claimed event sequentially: extraction, task
// persistence, processed flag, then automation evaluation against the same
// event. Task creation happens-before evaluation so rules can see
// tasks_created. Store failures release the claim so a later pass retries.
func (p *Processor) processEvent(ctx context.Context, ev model.Event) (int, error) {
	sc := model.Scope{OrgID: ev.OrgID}
	source := fmt.Sprintf("%s:%s", ev.Provider, ev.EventType)

	// Best-effort: extraction failure yields zero candidates, never an error.
	candidates := p.extractor.ExtractTasks(ctx, ev)

	created := 0
	for _, cand := range candidates {
		priority := p.extractor.ScorePriority(ctx, cand, source, extraction.OrgContext{})

		category := cand.Category
		if category == "" {
			category = "auto-generated"
		}

		_, err := p.tasks.CreateTask(ctx, sc, taskrepo.CreateTaskOptions{
			Title:       cand.Title,
			Description: cand.Description,
			Priority:    priority,
			Source:      source,
			Labels:      []string{category},
		})
		if err != nil {
			// Store-level failure: leave the event unprocessed for retry.
			p.releaseClaim(ctx, ev.ID)
			return created, fmt.Errorf("persist task: %w", err)
		}
		created++
	}

	if err := p.events.MarkProcessed(ctx, ev.ID); err != nil {
		p.releaseClaim(ctx, ev.ID)
		return created, fmt.Errorf("mark processed: %w", err)
	}

	// Evaluation failures are contained per rule inside the engine; a load
	// failure here is logged but the event stays processed, matching the
	// at-least-once delivery posture.
	if err := p.engine.Evaluate(ctx, sc, eventLike(ev, created)); err != nil {
		p.l.Errorf(ctx, "processor: automation evaluation failed for event %s: %v", ev.ID, err)
	}

	p.l.Infof(ctx, "processor: event %s processed tasks_created=%d", ev.ID, created)
	return created, nil
}

// eventLike flattens the event for rule matching: payload top-level keys plus
// the identity and derived fields rules can condition on.
func eventLike(ev model.Event, tasksCreated int) map[string]any {
	doc := make(map[string]any, len(ev.Payload)+4)
	for k, v := range ev.Payload {
		doc[k] = v
	}
	doc["provider"] = ev.Provider
	doc["event_type"] = ev.EventType
	doc["event_id"] = ev.ID
	doc["tasks_created"] = tasksCreated
	return doc
}

func (p *Processor) releaseClaim(ctx context.Context, eventID string) {
	if err := p.events.ReleaseClaim(ctx, eventID); err != nil {
		p.l.Errorf(ctx, "processor: release claim for %s: %v", eventID, err)
	}
}
