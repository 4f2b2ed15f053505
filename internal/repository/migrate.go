package repository

import (
	"context"
	"fmt"
)

// migrations run in order; statements are portable between SQLite and Postgres.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		filename TEXT,
		doc_type TEXT,
		cancelled INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS classifications (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL,
		model_type TEXT NOT NULL,
		model_confidence REAL NOT NULL,
		rule_type TEXT,
		final_type TEXT NOT NULL,
		schema_id TEXT,
		source TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS schemas (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		doc_type TEXT NOT NULL,
		status TEXT NOT NULL,
		current_version INTEGER,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS schema_versions (
		schema_id TEXT NOT NULL,
		version INTEGER NOT NULL,
		definition_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (schema_id, version)
	)`,
	`CREATE TABLE IF NOT EXISTS review_tasks (
		document_id TEXT PRIMARY KEY,
		assignee TEXT,
		due_at TEXT,
		status TEXT NOT NULL,
		notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS task_events (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL,
		actor TEXT NOT NULL,
		type TEXT NOT NULL,
		payload_json TEXT,
		at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sla_evaluations (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL,
		task_id TEXT,
		doc_type TEXT NOT NULL,
		risk TEXT NOT NULL,
		reason TEXT NOT NULL,
		evaluated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS usage_ledger (
		id TEXT PRIMARY KEY,
		scope TEXT NOT NULL,
		user_id TEXT,
		model_id TEXT NOT NULL,
		input_tokens INTEGER NOT NULL,
		output_tokens INTEGER NOT NULL,
		cost_usd REAL NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id TEXT PRIMARY KEY,
		actor_id TEXT NOT NULL,
		document_id TEXT NOT NULL,
		action TEXT NOT NULL,
		description TEXT,
		metadata_json TEXT,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_task_events_document ON task_events(document_id, at)`,
	`CREATE INDEX IF NOT EXISTS idx_sla_evaluations_document ON sla_evaluations(document_id, evaluated_at)`,
	`CREATE INDEX IF NOT EXISTS idx_schemas_lookup ON schemas(user_id, doc_type, status)`,
}

// Migrate applies the schema. Safe to run repeatedly.
func Migrate(ctx context.Context, db *DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
