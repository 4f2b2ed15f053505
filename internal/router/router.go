// Package router resolves model and credential for a user, dispatches to the
// matching provider adapter, and tracks cost and usage.
package router

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vilmerfrost/solvix/constants"
	"github.com/vilmerfrost/solvix/internal/catalog"
	"github.com/vilmerfrost/solvix/internal/common"
	"github.com/vilmerfrost/solvix/internal/llm"
)

// Adapters is the static dispatch table from provider to adapter.
// All providers must be present; NewRouter checks exhaustiveness.
type Adapters map[constants.Provider]llm.Adapter

type Router struct {
	adapters Adapters
	usage    UsageRecorder
	log      *slog.Logger
}

func NewRouter(adapters Adapters, usage UsageRecorder, logger *slog.Logger) (*Router, error) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, p := range constants.Providers {
		if adapters[p] == nil {
			return nil, common.NewAppError("ROUTER_CONFIG", fmt.Sprintf("no adapter registered for provider %q", p), common.ErrInvalidInput)
		}
	}
	return &Router{adapters: adapters, usage: usage, log: logger}, nil
}

// Route resolves the model and API key for userID, invokes the adapter, and
// enriches the outcome. Configuration problems (unknown model, no key) return
// a structured error; adapter-level failures come back inside the result.
func (r *Router) Route(ctx context.Context, userID string, req llm.ExtractionRequest, keys ResolvedKeys) (llm.ExtractionResult, error) {
	rid := uuid.New().String()

	modelID := keys.PreferredModelID
	var model catalog.Model
	var err error
	if modelID == "" {
		model = catalog.Default()
	} else if model, err = catalog.Lookup(modelID); err != nil {
		r.log.Error("router.extract.unknown_model", "req_id", rid, "user_id", userID, "model", modelID)
		return llm.ExtractionResult{}, err
	}
	req.Model = model

	adapter := r.adapters[model.Provider]
	if !adapter.SupportsContentType(req.Kind) {
		r.log.Error("router.extract.unsupported_kind", "req_id", rid, "model", model.ID, "kind", req.Kind)
		return llm.ExtractionResult{}, common.NewAppError("UNSUPPORTED_CONTENT",
			fmt.Sprintf("model %s does not accept %s content", model.ID, req.Kind), common.ErrInvalidInput)
	}

	apiKey, source := keys.resolveKey(model.Provider)
	if source == keySourceNone {
		r.log.Error("router.extract.no_api_key", "req_id", rid, "user_id", userID, "provider", model.Provider)
		return llm.ExtractionResult{}, common.NewAppError("NO_API_KEY",
			fmt.Sprintf("no usable API key for provider %q", model.Provider), common.ErrNoAPIKey)
	}

	r.log.Info("router.extract.start",
		"req_id", rid,
		"user_id", userID,
		"model", model.ID,
		"provider", model.Provider,
		"managed_key", source == keySourcePlatform,
		"kind", req.Kind,
	)

	res := adapter.Extract(ctx, req, apiKey)
	res.CostUSD = model.Cost(res.Usage)

	if res.Success && source == keySourcePlatform && r.usage != nil {
		// Managed-key consumption bills the platform ledger, never the user's BYOK ledger.
		if err := r.usage.RecordPlatformUsage(ctx, userID, model.ID, res.Usage, res.CostUSD); err != nil {
			r.log.Error("router.extract.usage_record_failed", "req_id", rid, "error", err)
		}
	}

	if res.Success {
		if meta, ok := ParseLocaleMetadata(res.RawText); ok {
			res.Locale = meta
		}
	}

	r.log.Info("router.extract.done",
		"req_id", rid,
		"success", res.Success,
		"rows", len(res.Rows),
		"category", res.ErrCategory,
		"cost_usd", res.CostUSD,
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
