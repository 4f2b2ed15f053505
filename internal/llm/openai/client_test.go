package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilmerfrost/solvix/constants"
	"github.com/vilmerfrost/solvix/internal/catalog"
	"github.com/vilmerfrost/solvix/internal/llm"
)

func testRequest() llm.ExtractionRequest {
	model, _ := catalog.Lookup("gpt-4o-mini")
	return llm.ExtractionRequest{
		Model: model,
		Kind:  constants.ContentSpreadsheet,
		Text:  "Date\tMaterial\tWeight\n2024-01-02\tWood\t120",
	}
}

func TestExtractUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer srv.Close()

	a := New(Config{BaseURL: srv.URL}, nil)
	res := a.Extract(context.Background(), testRequest(), "bad-key")

	assert.False(t, res.Success)
	assert.Equal(t, llm.ErrCategoryAPIKey, res.ErrCategory)
	assert.Zero(t, res.Usage.InputTokens)
	assert.Zero(t, res.Usage.OutputTokens)
	assert.NotEmpty(t, res.Suggestions)
}

func TestExtractRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := New(Config{BaseURL: srv.URL}, nil)
	res := a.Extract(context.Background(), testRequest(), "key")
	assert.Equal(t, llm.ErrCategoryRateLimit, res.ErrCategory)
}

func TestExtractSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body["model"])

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{
					"content": `{"items":[{"date":"2024-01-02","material":"Wood","weight":120,"unit":"kg"}]}`,
				}},
			},
			"usage": map[string]any{"prompt_tokens": 321, "completion_tokens": 45},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	a := New(Config{BaseURL: srv.URL}, nil)
	res := a.Extract(context.Background(), testRequest(), "key")

	require.True(t, res.Success, "err=%s %s", res.ErrCategory, res.ErrMessage)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Wood", res.Rows[0].Material)
	assert.Equal(t, 120.0, res.Rows[0].WeightKG)
	assert.Equal(t, 321, res.Usage.InputTokens)
	assert.Equal(t, 45, res.Usage.OutputTokens)
}

func TestExtractUnparseableOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "I cannot find any line items."}},
			},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 8},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	a := New(Config{BaseURL: srv.URL}, nil)
	res := a.Extract(context.Background(), testRequest(), "key")

	assert.False(t, res.Success)
	assert.Equal(t, llm.ErrCategoryInvalidResponse, res.ErrCategory)
	assert.Equal(t, 10, res.Usage.InputTokens, "token usage is kept for failed parses")
}

func TestSupportsContentType(t *testing.T) {
	a := New(Config{}, nil)
	assert.True(t, a.SupportsContentType(constants.ContentSpreadsheet))
	assert.True(t, a.SupportsContentType(constants.ContentImage))
	assert.False(t, a.SupportsContentType(constants.ContentPDF))
}
