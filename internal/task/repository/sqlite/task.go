package sqlite

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskweave/internal/model"
	repo "taskweave/internal/task/repository"
)

// CreateTask inserts a task row. Priority is clamped to [1,5] and Source is
// required for provenance auditability.
func (r *implRepository) CreateTask(ctx context.Context, sc model.Scope, opt repo.CreateTaskOptions) (model.Task, error) {
	if strings.TrimSpace(opt.Title) == "" {
		return model.Task{}, repo.ErrEmptyTitle
	}
	if strings.TrimSpace(opt.Source) == "" {
		return model.Task{}, repo.ErrEmptySource
	}

	now := time.Now().UTC()
	t := model.Task{
		ID:          uuid.NewString(),
		OrgID:       sc.OrgID,
		ProjectID:   opt.ProjectID,
		Title:       opt.Title,
		Description: opt.Description,
		Priority:    model.ClampPriority(opt.Priority),
		Source:      opt.Source,
		Status:      model.TaskStatusTodo,
		Labels:      opt.Labels,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	labelsJSON, err := json.Marshal(labelsOrEmpty(t.Labels))
	if err != nil {
		r.l.Errorf(ctx, "task/repository/sqlite.CreateTask: marshal labels: %v", err)
		return model.Task{}, repo.ErrFailedToInsert
	}

	const query = `
		INSERT INTO tasks (id, org_id, project_id, title, description, priority, source, status, labels_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		t.ID, t.OrgID, nullable(t.ProjectID), t.Title, t.Description, t.Priority,
		t.Source, string(t.Status), string(labelsJSON),
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		r.l.Errorf(ctx, "task/repository/sqlite.CreateTask: %v", err)
		return model.Task{}, repo.ErrFailedToInsert
	}
	return t, nil
}

// ListTasks returns tasks in the scope, newest first.
func (r *implRepository) ListTasks(ctx context.Context, sc model.Scope, opt repo.ListTasksOptions) ([]model.Task, error) {
	query := `SELECT id, org_id, project_id, title, description, priority, source, status, labels_json, created_at, updated_at
		FROM tasks WHERE org_id = ?`
	args := []any{sc.OrgID}

	if opt.Source != "" {
		query += ` AND source = ?`
		args = append(args, opt.Source)
	}
	query += ` ORDER BY created_at DESC`
	if opt.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opt.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.l.Errorf(ctx, "task/repository/sqlite.ListTasks: %v", err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var (
			t          model.Task
			projectID  []byte
			status     string
			labelsJSON string
			createdAt  string
			updatedAt  string
		)
		if err := rows.Scan(&t.ID, &t.OrgID, &projectID, &t.Title, &t.Description, &t.Priority, &t.Source, &status, &labelsJSON, &createdAt, &updatedAt); err != nil {
			r.l.Errorf(ctx, "task/repository/sqlite.ListTasks: scan: %v", err)
			return nil, repo.ErrFailedToList
		}
		t.ProjectID = string(projectID)
		t.Status = model.TaskStatus(status)
		if err := json.Unmarshal([]byte(labelsJSON), &t.Labels); err != nil {
			t.Labels = nil
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			t.CreatedAt = ts
		}
		if ts, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
			t.UpdatedAt = ts
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func labelsOrEmpty(labels []string) []string {
	if labels == nil {
		return []string{}
	}
	return labels
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
