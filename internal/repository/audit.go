package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vilmerfrost/solvix/internal/events"
)

// auditRepository implements events.AuditRecorder.
type auditRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewAuditRepository(db *DB, logger *slog.Logger) events.AuditRecorder {
	return &auditRepository{db: db, logger: logger}
}

func (r *auditRepository) Record(ctx context.Context, rec events.AuditRecord) error {
	var metadata any
	if len(rec.Metadata) > 0 {
		b, err := json.Marshal(rec.Metadata)
		if err != nil {
			return err
		}
		metadata = string(b)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, actor_id, document_id, action, description, metadata_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), rec.ActorID, rec.DocumentID, rec.Action,
		nullable(rec.Description), metadata, ts(time.Now()))
	if err != nil {
		r.logger.Error("failed to record audit entry", "document_id", rec.DocumentID, "action", rec.Action, "error", err)
	}
	return err
}
