package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate applies the schema. Statements are idempotent so this is safe to run
// on every startup.
func Migrate(ctx context.Context, conn *sql.DB) error {
	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS organizations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		provider TEXT NOT NULL,
		external_id TEXT,
		event_type TEXT NOT NULL,
		payload_json TEXT NOT NULL DEFAULT '{}',
		ingested_at TEXT NOT NULL,
		claimed_at TEXT,
		processed INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_events_dedup
		ON events(org_id, provider, external_id)
		WHERE external_id IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_events_processed ON events(processed)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		project_id TEXT,
		title TEXT NOT NULL,
		description TEXT,
		priority INTEGER NOT NULL DEFAULT 3 CHECK (priority BETWEEN 1 AND 5),
		source TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'todo',
		labels_json TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_org ON tasks(org_id)`,

	`CREATE TABLE IF NOT EXISTS automations (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		name TEXT NOT NULL,
		trigger_json TEXT NOT NULL DEFAULT '{}',
		conditions_json TEXT NOT NULL DEFAULT '{}',
		actions_json TEXT NOT NULL DEFAULT '{}',
		enabled INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_automations_org_enabled ON automations(org_id, enabled)`,

	`CREATE TABLE IF NOT EXISTS webhooks (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		url TEXT NOT NULL,
		secret TEXT NOT NULL,
		events_json TEXT NOT NULL DEFAULT '[]',
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_webhooks_org_active ON webhooks(org_id, active)`,

	`CREATE TABLE IF NOT EXISTS integrations (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		provider TEXT NOT NULL,
		enabled INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_integrations_org_provider ON integrations(org_id, provider)`,
}
