package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vilmerfrost/solvix/internal/catalog"
)

// Ledger scopes. Platform-managed usage never lands in the user scope.
const (
	ScopePlatform = "platform"
	ScopeUser     = "user"
)

// UsageRepository appends to the cost ledger. Inserts are keyed by
// user+timestamp and need no cross-request coordination.
type UsageRepository interface {
	RecordPlatformUsage(ctx context.Context, userID, modelID string, usage catalog.Usage, costUSD float64) error
	RecordUserUsage(ctx context.Context, userID, modelID string, usage catalog.Usage, costUSD float64) error
}

type usageRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewUsageRepository(db *DB, logger *slog.Logger) UsageRepository {
	return &usageRepository{db: db, logger: logger}
}

func (r *usageRepository) RecordPlatformUsage(ctx context.Context, userID, modelID string, usage catalog.Usage, costUSD float64) error {
	return r.record(ctx, ScopePlatform, userID, modelID, usage, costUSD)
}

func (r *usageRepository) RecordUserUsage(ctx context.Context, userID, modelID string, usage catalog.Usage, costUSD float64) error {
	return r.record(ctx, ScopeUser, userID, modelID, usage, costUSD)
}

func (r *usageRepository) record(ctx context.Context, scope, userID, modelID string, usage catalog.Usage, costUSD float64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO usage_ledger (id, scope, user_id, model_id, input_tokens, output_tokens, cost_usd, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), scope, nullable(userID), modelID,
		usage.InputTokens, usage.OutputTokens, costUSD, ts(time.Now()))
	if err != nil {
		r.logger.Error("failed to record usage", "scope", scope, "model_id", modelID, "error", err)
	}
	return err
}
