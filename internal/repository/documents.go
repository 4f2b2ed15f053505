package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/vilmerfrost/solvix/constants"
	"github.com/vilmerfrost/solvix/internal/common"
)

// Document is the persisted document row. Raw text is not persisted by this
// core; storage of file content is an external concern.
type Document struct {
	ID        string
	UserID    string
	Filename  string
	DocType   constants.DocType
	Cancelled bool
	CreatedAt time.Time
}

type DocumentRepository interface {
	CreateDocument(ctx context.Context, d Document) error
	GetDocument(ctx context.Context, id string) (Document, error)
	SetDocType(ctx context.Context, id string, dt constants.DocType) error
	SetCancelled(ctx context.Context, id string, cancelled bool) error
	IsCancelled(ctx context.Context, id string) (bool, error)
}

type documentRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewDocumentRepository(db *DB, logger *slog.Logger) DocumentRepository {
	return &documentRepository{db: db, logger: logger}
}

func (r *documentRepository) CreateDocument(ctx context.Context, d Document) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, user_id, filename, doc_type, cancelled, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.UserID, nullable(d.Filename), nullable(string(d.DocType)), boolInt(d.Cancelled), ts(d.CreatedAt))
	if err != nil {
		r.logger.Error("failed to insert document", "document_id", d.ID, "error", err)
	}
	return err
}

func (r *documentRepository) GetDocument(ctx context.Context, id string) (Document, error) {
	var d Document
	var filename, docType sql.NullString
	var cancelled int
	var createdAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, filename, doc_type, cancelled, created_at FROM documents WHERE id = ?`, id).
		Scan(&d.ID, &d.UserID, &filename, &docType, &cancelled, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, common.ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}
	d.Filename = filename.String
	d.DocType = constants.DocType(docType.String)
	d.Cancelled = cancelled != 0
	d.CreatedAt = parseTS(createdAt)
	return d, nil
}

func (r *documentRepository) SetDocType(ctx context.Context, id string, dt constants.DocType) error {
	_, err := r.db.ExecContext(ctx, `UPDATE documents SET doc_type = ? WHERE id = ?`, string(dt), id)
	return err
}

func (r *documentRepository) SetCancelled(ctx context.Context, id string, cancelled bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE documents SET cancelled = ? WHERE id = ?`, boolInt(cancelled), id)
	return err
}

func (r *documentRepository) IsCancelled(ctx context.Context, id string) (bool, error) {
	var cancelled int
	err := r.db.QueryRowContext(ctx, `SELECT cancelled FROM documents WHERE id = ?`, id).Scan(&cancelled)
	if errors.Is(err, sql.ErrNoRows) {
		return false, common.ErrNotFound
	}
	if err != nil {
		return false, err
	}
	return cancelled != 0, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
