package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vilmerfrost/solvix/constants"
	"github.com/vilmerfrost/solvix/internal/catalog"
	"github.com/vilmerfrost/solvix/internal/llm"
)

// SupportsContentType reports full support; generateContent takes inlineData
// parts for both images and PDFs.
func (a *Adapter) SupportsContentType(kind constants.ContentKind) bool {
	switch kind {
	case constants.ContentSpreadsheet, constants.ContentPDF, constants.ContentImage:
		return true
	}
	return false
}

// Extract implements llm.Adapter via models/{model}:generateContent.
func (a *Adapter) Extract(ctx context.Context, req llm.ExtractionRequest, apiKey string) llm.ExtractionResult {
	rid := uuid.New().String()
	start := time.Now()

	a.log.Info("gemini.extract.start",
		"req_id", rid,
		"model", req.Model.ID,
		"kind", req.Kind,
		"text_len", len(req.Text),
		"content_bytes", len(req.Content),
	)

	parts := []map[string]any{{"text": llm.BuildPrompt(req)}}
	if req.Kind.Binary() {
		parts = append(parts, map[string]any{
			"inline_data": map[string]any{
				"mime_type": req.MimeType,
				"data":      base64.StdEncoding.EncodeToString(req.Content),
			},
		})
	}

	body := map[string]any{
		"contents": []map[string]any{{"parts": parts}},
		"generationConfig": map[string]any{
			"temperature":      0,
			"maxOutputTokens":  llm.MaxTokens(req),
			"responseMimeType": "application/json",
		},
	}

	endpoint := strings.TrimRight(a.cfg.BaseURL, "/") + "/models/" + req.Model.ID + ":generateContent"
	headers := map[string]string{"x-goog-api-key": apiKey}
	raw, status, err := llm.PostJSON(ctx, a.http, endpoint, body, headers, a.log)
	if err != nil {
		cat := llm.CategorizeErr(err)
		if status != 0 {
			cat = llm.CategorizeStatus(status)
		}
		a.log.Error("gemini.extract.http_error",
			"req_id", rid, "status", status, "category", cat, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Failure(req.Model, cat, fmt.Sprintf("gemini request failed: %v", err), string(raw), time.Since(start))
	}

	var gc struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		UsageMetadata struct {
			PromptTokenCount     int `json:"promptTokenCount"`
			CandidatesTokenCount int `json:"candidatesTokenCount"`
		} `json:"usageMetadata"`
	}
	if err := json.Unmarshal(raw, &gc); err != nil {
		a.log.Error("gemini.extract.decode_error", "req_id", rid, "error", err, "raw_bytes", len(raw))
		return llm.Failure(req.Model, llm.ErrCategoryInvalidResponse, fmt.Sprintf("decode gemini response: %v", err), string(raw), time.Since(start))
	}
	usage := catalog.Usage{InputTokens: gc.UsageMetadata.PromptTokenCount, OutputTokens: gc.UsageMetadata.CandidatesTokenCount}
	if len(gc.Candidates) == 0 {
		a.log.Error("gemini.extract.no_candidates", "req_id", rid, "raw_bytes", len(raw))
		res := llm.Failure(req.Model, llm.ErrCategoryInvalidResponse, "no candidates in gemini response", string(raw), time.Since(start))
		res.Usage = usage
		return res
	}

	var text strings.Builder
	for _, p := range gc.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}

	res := llm.ResultFromOutput(req.Model, strings.TrimSpace(text.String()), usage, time.Since(start))
	a.log.Info("gemini.extract.done",
		"req_id", rid,
		"success", res.Success,
		"rows", len(res.Rows),
		"input_tokens", usage.InputTokens,
		"output_tokens", usage.OutputTokens,
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res
}
