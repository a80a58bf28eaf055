package sqlite

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	repo "taskweave/internal/automation/repository"
	"taskweave/internal/model"
)

// CreateAutomation inserts an automation rule.
func (r *implRepository) CreateAutomation(ctx context.Context, sc model.Scope, opt repo.CreateAutomationOptions) (model.Automation, error) {
	if strings.TrimSpace(opt.Name) == "" {
		return model.Automation{}, repo.ErrEmptyName
	}

	a := model.Automation{
		ID:         uuid.NewString(),
		OrgID:      sc.OrgID,
		Name:       opt.Name,
		Trigger:    opt.Trigger,
		Conditions: opt.Conditions,
		Actions:    opt.Actions,
		Enabled:    opt.Enabled,
		CreatedAt:  time.Now().UTC(),
	}
	if a.Conditions == nil {
		a.Conditions = model.Conditions{}
	}

	triggerJSON, err := json.Marshal(a.Trigger)
	if err != nil {
		return model.Automation{}, repo.ErrFailedToInsert
	}
	conditionsJSON, err := json.Marshal(a.Conditions)
	if err != nil {
		return model.Automation{}, repo.ErrFailedToInsert
	}
	actionsJSON, err := json.Marshal(a.Actions)
	if err != nil {
		return model.Automation{}, repo.ErrFailedToInsert
	}

	const query = `
		INSERT INTO automations (id, org_id, name, trigger_json, conditions_json, actions_json, enabled, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		a.ID, a.OrgID, a.Name, string(triggerJSON), string(conditionsJSON), string(actionsJSON),
		boolToInt(a.Enabled), a.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		r.l.Errorf(ctx, "automation/repository/sqlite.CreateAutomation: %v", err)
		return model.Automation{}, repo.ErrFailedToInsert
	}
	return a, nil
}

// ListEnabled returns all enabled automations for the scope. Called fresh on
// every evaluation so rule edits take effect immediately.
func (r *implRepository) ListEnabled(ctx context.Context, sc model.Scope) ([]model.Automation, error) {
	const query = `
		SELECT id, org_id, name, trigger_json, conditions_json, actions_json, enabled, created_at
		FROM automations
		WHERE org_id = ? AND enabled = 1
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, sc.OrgID)
	if err != nil {
		r.l.Errorf(ctx, "automation/repository/sqlite.ListEnabled: %v", err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var automations []model.Automation
	for rows.Next() {
		var (
			a              model.Automation
			triggerJSON    string
			conditionsJSON string
			actionsJSON    string
			enabled        int
			createdAt      string
		)
		if err := rows.Scan(&a.ID, &a.OrgID, &a.Name, &triggerJSON, &conditionsJSON, &actionsJSON, &enabled, &createdAt); err != nil {
			r.l.Errorf(ctx, "automation/repository/sqlite.ListEnabled: scan: %v", err)
			return nil, repo.ErrFailedToList
		}
		a.Enabled = enabled != 0
		if err := json.Unmarshal([]byte(triggerJSON), &a.Trigger); err != nil {
			r.l.Warnf(ctx, "automation/repository/sqlite.ListEnabled: bad trigger for %s: %v", a.ID, err)
		}
		if err := json.Unmarshal([]byte(conditionsJSON), &a.Conditions); err != nil {
			a.Conditions = model.Conditions{}
		}
		if err := json.Unmarshal([]byte(actionsJSON), &a.Actions); err != nil {
			r.l.Warnf(ctx, "automation/repository/sqlite.ListEnabled: bad actions for %s: %v", a.ID, err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			a.CreatedAt = ts
		}
		automations = append(automations, a)
	}
	return automations, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
