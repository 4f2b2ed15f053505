package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vilmerfrost/solvix/constants"
	"github.com/vilmerfrost/solvix/internal/common"
	"github.com/vilmerfrost/solvix/internal/schema"
)

// SchemaRepository owns the schemas + schema_versions write path and
// implements schema.Repository for extraction-time resolution.
// Versions are immutable once created; publish is a pointer update on the
// parent schema row, never a version mutation.
type SchemaRepository interface {
	schema.Repository
	CreateSchema(ctx context.Context, userID string, docType constants.DocType) (string, error)
	CreateVersion(ctx context.Context, schemaID string, tpl schema.TemplateDefinition) (int, error)
	Publish(ctx context.Context, schemaID string, version int) error
}

type schemaRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewSchemaRepository(db *DB, logger *slog.Logger) SchemaRepository {
	return &schemaRepository{db: db, logger: logger}
}

func (r *schemaRepository) CreateSchema(ctx context.Context, userID string, docType constants.DocType) (string, error) {
	id := uuid.New().String()
	now := ts(time.Now())
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO schemas (id, user_id, doc_type, status, current_version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, NULL, ?, ?)`,
		id, userID, string(docType), string(schema.StatusDraft), now, now)
	if err != nil {
		r.logger.Error("failed to create schema", "user_id", userID, "error", err)
		return "", err
	}
	return id, nil
}

func (r *schemaRepository) CreateVersion(ctx context.Context, schemaID string, tpl schema.TemplateDefinition) (int, error) {
	var maxVersion sql.NullInt64
	if err := r.db.QueryRowContext(ctx,
		`SELECT MAX(version) FROM schema_versions WHERE schema_id = ?`, schemaID).Scan(&maxVersion); err != nil {
		return 0, err
	}
	version := int(maxVersion.Int64) + 1

	tpl.SchemaID = schemaID
	tpl.Version = version
	def, err := json.Marshal(tpl)
	if err != nil {
		return 0, fmt.Errorf("marshal schema definition: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO schema_versions (schema_id, version, definition_json, created_at) VALUES (?, ?, ?, ?)`,
		schemaID, version, string(def), ts(time.Now()))
	if err != nil {
		r.logger.Error("failed to create schema version", "schema_id", schemaID, "error", err)
		return 0, err
	}
	return version, nil
}

func (r *schemaRepository) Publish(ctx context.Context, schemaID string, version int) error {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM schema_versions WHERE schema_id = ? AND version = ?`, schemaID, version).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return common.NewAppError("SCHEMA_VERSION", fmt.Sprintf("version %d of schema %s does not exist", version, schemaID), common.ErrNotFound)
	}
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE schemas SET status = ?, current_version = ?, updated_at = ? WHERE id = ?`,
		string(schema.StatusPublished), version, ts(time.Now()), schemaID)
	if err != nil {
		r.logger.Error("failed to publish schema", "schema_id", schemaID, "version", version, "error", err)
	}
	return err
}

// ResolvePublishedByID returns the published version of one schema.
// Drafts are invisible to production extraction.
func (r *schemaRepository) ResolvePublishedByID(ctx context.Context, userID, schemaID string) (schema.TemplateDefinition, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT v.definition_json
		 FROM schemas s JOIN schema_versions v ON v.schema_id = s.id AND v.version = s.current_version
		 WHERE s.id = ? AND s.user_id = ? AND s.status = ?`,
		schemaID, userID, string(schema.StatusPublished))
	return scanTemplate(row)
}

// ResolvePublishedByType returns the most recently updated published schema
// for the (user, doc type) pair.
func (r *schemaRepository) ResolvePublishedByType(ctx context.Context, userID string, docType constants.DocType) (schema.TemplateDefinition, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT v.definition_json
		 FROM schemas s JOIN schema_versions v ON v.schema_id = s.id AND v.version = s.current_version
		 WHERE s.user_id = ? AND s.doc_type = ? AND s.status = ?
		 ORDER BY s.updated_at DESC LIMIT 1`,
		userID, string(docType), string(schema.StatusPublished))
	return scanTemplate(row)
}

func scanTemplate(row *sql.Row) (schema.TemplateDefinition, error) {
	var def string
	if err := row.Scan(&def); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schema.TemplateDefinition{}, common.ErrNotFound
		}
		return schema.TemplateDefinition{}, err
	}
	var tpl schema.TemplateDefinition
	if err := json.Unmarshal([]byte(def), &tpl); err != nil {
		return schema.TemplateDefinition{}, fmt.Errorf("unmarshal schema definition: %w", err)
	}
	return tpl, nil
}
