package automation

import (
	"context"
	"fmt"
	"time"

	"taskweave/internal/model"
	taskrepo "taskweave/internal/task/repository"
)

// Evaluate loads the scope's enabled automations fresh and runs each against
// the event-like document. Per-rule failures are contained.
func (e *implEngine) Evaluate(ctx context.Context, sc model.Scope, eventLike map[string]any) error {
	automations, err := e.autoRepo.ListEnabled(ctx, sc)
	if err != nil {
		return fmt.Errorf("automation: load enabled rules: %w", err)
	}

	for _, a := range automations {
		if err := e.evaluateOne(ctx, sc, a, eventLike); err != nil {
			e.l.Errorf(ctx, "automation: execution failed id=%s: %v", a.ID, err)
		}
	}
	return nil
}

// evaluateOne matches and dispatches a single rule. The recover guard keeps a
// misbehaving rule from taking down the rest of the evaluation.
func (e *implEngine) evaluateOne(ctx context.Context, sc model.Scope, a model.Automation, eventLike map[string]any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if !matchesTrigger(a.Trigger, eventLike) {
		return nil
	}
	if !matchesConditions(a.Conditions, eventLike) {
		return nil
	}

	if err := e.dispatch(ctx, sc, a, eventLike); err != nil {
		return err
	}
	e.l.Infof(ctx, "automation: executed id=%s action=%s org=%s", a.ID, a.Actions.Type, sc.OrgID)
	return nil
}

func (e *implEngine) dispatch(ctx context.Context, sc model.Scope, a model.Automation, eventLike map[string]any) error {
	switch a.Actions.Type {
	case model.ActionCreateTask:
		return e.createTask(ctx, sc, a.Actions)
	case model.ActionSendNotification:
		return e.sendNotification(ctx, sc, a, eventLike)
	case model.ActionWebhook:
		return e.triggerWebhook(ctx, sc, a, eventLike)
	case model.ActionIntegrationAction:
		return e.integrationAction(ctx, sc, a.Actions)
	default:
		// Unknown action kinds are a logged no-op, not an error.
		e.l.Warnf(ctx, "automation: unknown action type %q for id=%s", a.Actions.Type, a.ID)
		return nil
	}
}

func (e *implEngine) createTask(ctx context.Context, sc model.Scope, actions model.Actions) error {
	title := actions.TaskTitle
	if title == "" {
		title = "Automated Task"
	}
	description := actions.TaskDescription
	if description == "" {
		description = "Created by automation"
	}
	priority := actions.TaskPriority
	if priority == 0 {
		priority = 3
	}
	labels := actions.TaskLabels
	if len(labels) == 0 {
		labels = []string{"automated"}
	}

	_, err := e.taskRepo.CreateTask(ctx, sc, taskrepo.CreateTaskOptions{
		Title:       title,
		Description: description,
		Priority:    priority,
		Source:      "automation",
		Labels:      labels,
	})
	return err
}

func (e *implEngine) sendNotification(ctx context.Context, sc model.Scope, a model.Automation, eventLike map[string]any) error {
	message := a.Actions.Message
	if message == "" {
		message = "Automation triggered"
	}

	payload := map[string]any{
		"type":            "automation_notification",
		"message":         message,
		"automation_name": a.Name,
		"trigger_data":    eventLike,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	}
	_, err := e.webhooks.Deliver(ctx, sc, "notification", payload)
	return err
}

func (e *implEngine) triggerWebhook(ctx context.Context, sc model.Scope, a model.Automation, eventLike map[string]any) error {
	payload := map[string]any{
		"type":            "automation_webhook",
		"automation_name": a.Name,
		"trigger_data":    eventLike,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	}
	_, err := e.webhooks.Deliver(ctx, sc, "automation", payload)
	return err
}

// integrationAction is a hook, not a guaranteed delivery: if the org has no
// integration for the named provider this logs and no-ops.
func (e *implEngine) integrationAction(ctx context.Context, sc model.Scope, actions model.Actions) error {
	if actions.Provider == "" {
		e.l.Warnf(ctx, "automation: integration_action without provider, skipping")
		return nil
	}

	integration, err := e.intRepo.GetByProvider(ctx, sc, actions.Provider)
	if err != nil {
		return err
	}
	if integration.ID == "" || !integration.Enabled {
		e.l.Warnf(ctx, "automation: integration not found for provider=%s org=%s", actions.Provider, sc.OrgID)
		return nil
	}

	e.l.Infof(ctx, "automation: integration action triggered provider=%s org=%s", actions.Provider, sc.OrgID)
	return nil
}
