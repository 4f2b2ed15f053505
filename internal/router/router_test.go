package router

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilmerfrost/solvix/constants"
	"github.com/vilmerfrost/solvix/internal/catalog"
	"github.com/vilmerfrost/solvix/internal/common"
	"github.com/vilmerfrost/solvix/internal/llm"
)

type fakeAdapter struct {
	lastKey string
	result  llm.ExtractionResult
}

func (f *fakeAdapter) SupportsContentType(constants.ContentKind) bool { return true }

func (f *fakeAdapter) Extract(_ context.Context, req llm.ExtractionRequest, apiKey string) llm.ExtractionResult {
	f.lastKey = apiKey
	res := f.result
	res.ModelID = req.Model.ID
	res.Provider = req.Model.Provider
	return res
}

type fakeUsage struct {
	calls int
	cost  float64
}

func (f *fakeUsage) RecordPlatformUsage(_ context.Context, _, _ string, _ catalog.Usage, costUSD float64) error {
	f.calls++
	f.cost = costUSD
	return nil
}

func successResult() llm.ExtractionResult {
	return llm.ExtractionResult{
		Success:  true,
		Rows:     []llm.ExtractedRow{{Material: "wood", WeightKG: 1, Unit: "kg"}},
		Usage:    catalog.Usage{InputTokens: 1000, OutputTokens: 500},
		Duration: time.Second,
	}
}

func newTestRouter(t *testing.T, adapter llm.Adapter, usage UsageRecorder) *Router {
	t.Helper()
	r, err := NewRouter(Adapters{
		constants.ProviderOpenAI:    adapter,
		constants.ProviderAnthropic: adapter,
		constants.ProviderGoogle:    adapter,
	}, usage, nil)
	require.NoError(t, err)
	return r
}

func TestNewRouterRequiresAllProviders(t *testing.T) {
	_, err := NewRouter(Adapters{constants.ProviderOpenAI: &fakeAdapter{}}, nil, nil)
	assert.Error(t, err)
}

func TestRouteUserKeyBeatsPlatformKey(t *testing.T) {
	adapter := &fakeAdapter{result: successResult()}
	usage := &fakeUsage{}
	r := newTestRouter(t, adapter, usage)

	res, err := r.Route(context.Background(), "u1", llm.ExtractionRequest{Kind: constants.ContentSpreadsheet}, ResolvedKeys{
		UserKeys:        map[constants.Provider]ProviderKey{constants.ProviderOpenAI: {Key: "user-key", Valid: true}},
		PlatformKeys:    map[constants.Provider]string{constants.ProviderOpenAI: "platform-key"},
		ManagedEligible: true,
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "user-key", adapter.lastKey)
	assert.Equal(t, 0, usage.calls, "BYOK usage never hits the platform ledger")
}

func TestRouteInvalidUserKeyFallsBackToPlatform(t *testing.T) {
	adapter := &fakeAdapter{result: successResult()}
	usage := &fakeUsage{}
	r := newTestRouter(t, adapter, usage)

	res, err := r.Route(context.Background(), "u1", llm.ExtractionRequest{Kind: constants.ContentSpreadsheet}, ResolvedKeys{
		UserKeys:        map[constants.Provider]ProviderKey{constants.ProviderOpenAI: {Key: "stale", Valid: false}},
		PlatformKeys:    map[constants.Provider]string{constants.ProviderOpenAI: "platform-key"},
		ManagedEligible: true,
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "platform-key", adapter.lastKey)
	assert.Equal(t, 1, usage.calls)
	assert.Equal(t, res.CostUSD, usage.cost)
}

func TestRouteFailsClosedWithoutKey(t *testing.T) {
	adapter := &fakeAdapter{result: successResult()}
	r := newTestRouter(t, adapter, &fakeUsage{})

	_, err := r.Route(context.Background(), "u1", llm.ExtractionRequest{Kind: constants.ContentSpreadsheet}, ResolvedKeys{
		PlatformKeys:    map[constants.Provider]string{constants.ProviderOpenAI: "platform-key"},
		ManagedEligible: false,
	})
	assert.ErrorIs(t, err, common.ErrNoAPIKey, "platform keys are unusable without eligibility")
}

func TestRouteUnknownModel(t *testing.T) {
	r := newTestRouter(t, &fakeAdapter{result: successResult()}, nil)
	_, err := r.Route(context.Background(), "u1", llm.ExtractionRequest{Kind: constants.ContentSpreadsheet}, ResolvedKeys{
		PreferredModelID: "gpt-99-ultra",
	})
	assert.ErrorIs(t, err, common.ErrUnknownModel)
}

func TestRouteFailureSkipsLedger(t *testing.T) {
	adapter := &fakeAdapter{result: llm.ExtractionResult{
		Success:     false,
		ErrCategory: llm.ErrCategoryRateLimit,
		Usage:       catalog.Usage{InputTokens: 100},
	}}
	usage := &fakeUsage{}
	r := newTestRouter(t, adapter, usage)

	res, err := r.Route(context.Background(), "u1", llm.ExtractionRequest{Kind: constants.ContentSpreadsheet}, ResolvedKeys{
		PlatformKeys:    map[constants.Provider]string{constants.ProviderOpenAI: "platform-key"},
		ManagedEligible: true,
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 0, usage.calls, "failed calls are not billed")
}

func TestRouteCostComputedFromCatalog(t *testing.T) {
	adapter := &fakeAdapter{result: successResult()}
	r := newTestRouter(t, adapter, nil)

	res, err := r.Route(context.Background(), "u1", llm.ExtractionRequest{Kind: constants.ContentSpreadsheet}, ResolvedKeys{
		UserKeys: map[constants.Provider]ProviderKey{constants.ProviderOpenAI: {Key: "k", Valid: true}},
	})
	require.NoError(t, err)
	want := catalog.Default().Cost(catalog.Usage{InputTokens: 1000, OutputTokens: 500})
	assert.InDelta(t, want, res.CostUSD, 1e-12)
}

func TestRouteEnrichesLocaleMetadata(t *testing.T) {
	result := successResult()
	result.RawText = `{"items":[]} Bankgiro: 123-4567 OCR: 1234567890`
	adapter := &fakeAdapter{result: result}
	r := newTestRouter(t, adapter, nil)

	res, err := r.Route(context.Background(), "u1", llm.ExtractionRequest{Kind: constants.ContentSpreadsheet}, ResolvedKeys{
		UserKeys: map[constants.Provider]ProviderKey{constants.ProviderOpenAI: {Key: "k", Valid: true}},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Locale)
	assert.Equal(t, []string{"123-4567"}, res.Locale.BankgiroNumbers)
	assert.Equal(t, []string{"1234567890"}, res.Locale.PaymentReferences)
}
