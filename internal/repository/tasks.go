package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vilmerfrost/solvix/constants"
	"github.com/vilmerfrost/solvix/internal/common"
	"github.com/vilmerfrost/solvix/internal/workflow"
)

// taskRepository implements workflow.Repository.
type taskRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewTaskRepository(db *DB, logger *slog.Logger) workflow.Repository {
	return &taskRepository{db: db, logger: logger}
}

func (r *taskRepository) UpsertTask(ctx context.Context, t workflow.Task) (workflow.Task, error) {
	var dueAt any
	if t.DueAt != nil {
		dueAt = ts(*t.DueAt)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO review_tasks (document_id, assignee, due_at, status, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (document_id) DO UPDATE SET
			assignee = excluded.assignee,
			due_at = excluded.due_at,
			status = excluded.status,
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		t.DocumentID, nullable(t.Assignee), dueAt, string(t.Status), nullable(t.Notes), ts(t.CreatedAt), ts(t.UpdatedAt))
	if err != nil {
		r.logger.Error("failed to upsert review task", "document_id", t.DocumentID, "error", err)
		return workflow.Task{}, err
	}
	return t, nil
}

func (r *taskRepository) GetTask(ctx context.Context, documentID string) (workflow.Task, error) {
	var t workflow.Task
	var assignee, dueAt, notes sql.NullString
	var status, createdAt, updatedAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT document_id, assignee, due_at, status, notes, created_at, updated_at
		 FROM review_tasks WHERE document_id = ?`, documentID).
		Scan(&t.DocumentID, &assignee, &dueAt, &status, &notes, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return workflow.Task{}, common.ErrNotFound
	}
	if err != nil {
		return workflow.Task{}, err
	}
	t.Assignee = assignee.String
	if dueAt.Valid {
		d := parseTS(dueAt.String)
		t.DueAt = &d
	}
	t.Status = constants.ReviewStatus(status)
	t.Notes = notes.String
	t.CreatedAt = parseTS(createdAt)
	t.UpdatedAt = parseTS(updatedAt)
	return t, nil
}

func (r *taskRepository) AppendTaskEvent(ctx context.Context, ev workflow.TaskEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	var payload any
	if len(ev.Payload) > 0 {
		b, err := json.Marshal(ev.Payload)
		if err != nil {
			return err
		}
		payload = string(b)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO task_events (id, document_id, actor, type, payload_json, at) VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.DocumentID, ev.Actor, ev.Type, payload, ts(ev.At))
	if err != nil {
		r.logger.Error("failed to append task event", "document_id", ev.DocumentID, "error", err)
	}
	return err
}

func (r *taskRepository) ListTaskEvents(ctx context.Context, documentID string) ([]workflow.TaskEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, document_id, actor, type, payload_json, at
		 FROM task_events WHERE document_id = ? ORDER BY at ASC, id ASC`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []workflow.TaskEvent
	for rows.Next() {
		var ev workflow.TaskEvent
		var payload sql.NullString
		var at string
		if err := rows.Scan(&ev.ID, &ev.DocumentID, &ev.Actor, &ev.Type, &payload, &at); err != nil {
			return nil, err
		}
		if payload.Valid {
			if err := json.Unmarshal([]byte(payload.String), &ev.Payload); err != nil {
				return nil, err
			}
		}
		ev.At = parseTS(at)
		out = append(out, ev)
	}
	return out, rows.Err()
}
