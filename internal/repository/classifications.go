package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vilmerfrost/solvix/constants"
	"github.com/vilmerfrost/solvix/internal/classify"
)

// ClassificationRepository persists decisions verbatim; classification must
// stay auditable including the path that produced it.
type ClassificationRepository interface {
	SaveDecision(ctx context.Context, documentID string, d classify.Decision) error
	LatestDecision(ctx context.Context, documentID string) (classify.Decision, error)
}

type classificationRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewClassificationRepository(db *DB, logger *slog.Logger) ClassificationRepository {
	return &classificationRepository{db: db, logger: logger}
}

func (r *classificationRepository) SaveDecision(ctx context.Context, documentID string, d classify.Decision) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO classifications (id, document_id, model_type, model_confidence, rule_type, final_type, schema_id, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), documentID,
		string(d.ModelType), d.ModelConfidence,
		nullable(string(d.RuleType)), string(d.FinalType),
		nullable(d.SchemaID), string(d.Source), ts(time.Now()))
	if err != nil {
		r.logger.Error("failed to save classification", "document_id", documentID, "error", err)
	}
	return err
}

// LatestDecision returns the most recent decision; reprocessing supersedes
// older rows without mutating them.
func (r *classificationRepository) LatestDecision(ctx context.Context, documentID string) (classify.Decision, error) {
	var d classify.Decision
	var ruleType, schemaID sql.NullString
	var modelType, finalType, source string
	err := r.db.QueryRowContext(ctx,
		`SELECT model_type, model_confidence, rule_type, final_type, schema_id, source
		 FROM classifications WHERE document_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`, documentID).
		Scan(&modelType, &d.ModelConfidence, &ruleType, &finalType, &schemaID, &source)
	if err != nil {
		return classify.Decision{}, err
	}
	d.ModelType = constants.DocType(modelType)
	d.RuleType = constants.DocType(ruleType.String)
	d.FinalType = constants.DocType(finalType)
	d.SchemaID = schemaID.String
	d.Source = constants.DecisionSource(source)
	return d, nil
}
