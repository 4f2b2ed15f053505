package schema

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vilmerfrost/solvix/constants"
	"github.com/vilmerfrost/solvix/internal/common"
)

// Repository is the persistence contract the store depends on.
// Implementations must only return published versions from the resolve calls.
type Repository interface {
	ResolvePublishedByID(ctx context.Context, userID, schemaID string) (TemplateDefinition, error)
	ResolvePublishedByType(ctx context.Context, userID string, docType constants.DocType) (TemplateDefinition, error)
}

type Store struct {
	repo Repository
	log  *slog.Logger
}

func NewStore(repo Repository, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{repo: repo, log: logger}
}

// Resolution is the outcome of one schema lookup.
type Resolution struct {
	Template    TemplateDefinition
	UsedDefault bool
}

// Resolve returns the active schema for the pair, preferring an explicit
// schema id over a type lookup and synthesizing the default when nothing is
// published. Drafts never resolve.
func (s *Store) Resolve(ctx context.Context, userID string, docType constants.DocType, schemaID string) (Resolution, error) {
	if schemaID != "" && schemaID != DefaultSchemaID {
		tpl, err := s.repo.ResolvePublishedByID(ctx, userID, schemaID)
		if err == nil {
			return Resolution{Template: tpl}, nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			return Resolution{}, err
		}
		s.log.Warn("schema.resolve.pinned_missing", "user_id", userID, "schema_id", schemaID)
	}

	tpl, err := s.repo.ResolvePublishedByType(ctx, userID, docType)
	if err == nil {
		return Resolution{Template: tpl}, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return Resolution{}, err
	}

	s.log.Info("schema.resolve.default", "user_id", userID, "doc_type", docType)
	return Resolution{Template: DefaultTemplate(docType), UsedDefault: true}, nil
}
