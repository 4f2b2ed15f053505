package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vilmerfrost/solvix/constants"
	"github.com/vilmerfrost/solvix/internal/sla"
)

// SlaRepository appends evaluations and supports compliance auditing queries.
type SlaRepository interface {
	sla.Repository
	ListEvaluations(ctx context.Context, documentID string) ([]sla.Evaluation, error)
}

type slaRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewSlaRepository(db *DB, logger *slog.Logger) SlaRepository {
	return &slaRepository{db: db, logger: logger}
}

func (r *slaRepository) AppendEvaluation(ctx context.Context, ev sla.Evaluation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sla_evaluations (id, document_id, task_id, doc_type, risk, reason, evaluated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), ev.DocumentID, nullable(ev.TaskID),
		string(ev.DocType), string(ev.Risk), ev.Reason, ts(ev.EvaluatedAt))
	if err != nil {
		r.logger.Error("failed to append sla evaluation", "document_id", ev.DocumentID, "error", err)
	}
	return err
}

func (r *slaRepository) ListEvaluations(ctx context.Context, documentID string) ([]sla.Evaluation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT document_id, task_id, doc_type, risk, reason, evaluated_at
		 FROM sla_evaluations WHERE document_id = ? ORDER BY evaluated_at ASC, id ASC`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sla.Evaluation
	for rows.Next() {
		var ev sla.Evaluation
		var taskID sql.NullString
		var docType, risk, evaluatedAt string
		if err := rows.Scan(&ev.DocumentID, &taskID, &docType, &risk, &ev.Reason, &evaluatedAt); err != nil {
			return nil, err
		}
		ev.TaskID = taskID.String
		ev.DocType = constants.DocType(docType)
		ev.Risk = constants.SlaRisk(risk)
		ev.EvaluatedAt = parseTS(evaluatedAt)
		out = append(out, ev)
	}
	return out, rows.Err()
}
