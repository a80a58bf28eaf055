package sqlite

import (
	"context"
	"database/sql"
	"time"

	repo "taskweave/internal/integration/repository"
	"taskweave/internal/model"
	"taskweave/pkg/log"
)

type implRepository struct {
	db *sql.DB
	l  log.Logger
}

// New creates a SQLite-backed integration Repository.
func New(db *sql.DB, l log.Logger) repo.Repository {
	if db == nil {
		panic("integration/repository/sqlite: db is required")
	}
	return &implRepository{db: db, l: l}
}

// GetByProvider returns the scoped integration, or zero value when absent.
func (r *implRepository) GetByProvider(ctx context.Context, sc model.Scope, provider string) (model.Integration, error) {
	const query = `
		SELECT id, org_id, provider, enabled, created_at
		FROM integrations
		WHERE org_id = ? AND provider = ?
		LIMIT 1`

	var (
		in        model.Integration
		enabled   int
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, query, sc.OrgID, provider).Scan(&in.ID, &in.OrgID, &in.Provider, &enabled, &createdAt)
	if err == sql.ErrNoRows {
		return model.Integration{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "integration/repository/sqlite.GetByProvider: %v", err)
		return model.Integration{}, repo.ErrFailedToGet
	}
	in.Enabled = enabled != 0
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		in.CreatedAt = ts
	}
	return in, nil
}
