package anthropic

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

// SupportsContentType reports full support; the messages API takes both
// image and document (PDF) base64 source blocks.
func (a *Adapter) SupportsContentType(kind constants.ContentKind) bool {
	switch kind {
	case constants.ContentSpreadsheet, constants.ContentPDF, constants.ContentImage:
		return true
	}
	return false
}

// Extract implements llm.Adapter via the /v1/messages endpoint.
func (a *Adapter) Extract(ctx context.Context, req llm.ExtractionRequest, apiKey string) llm.ExtractionResult {
	rid := uuid.New().String()
	start := time.Now()

	a.log.Info("anthropic.extract.start",
		"req_id", rid,
		"model", req.Model.ID,
		"kind", req.Kind,
		"text_len", len(req.Text),
		"content_bytes", len(req.Content),
	)

	prompt := llm.BuildPrompt(req)
	content := []map[string]any{{"type": "text", "text": prompt}}
	if req.Kind.Binary() {
		blockType := "image"
		if req.Kind == constants.ContentPDF {
			blockType = "document"
		}
		content = append(content, map[string]any{
			"type": blockType,
			"source": map[string]any{
				"type":       "base64",
				"media_type": req.MimeType,
				"data":       base64.StdEncoding.EncodeToString(req.Content),
			},
		})
	}

	body := map[string]any{
		"model":       req.Model.ID,
		"temperature": 0,
		"max_tokens":  llm.MaxTokens(req),
		"messages": []map[string]any{
			{"role": "user", "content": content},
		},
	}

	endpoint := strings.TrimRight(a.cfg.BaseURL, "/") + "/v1/messages"
	headers := map[string]string{
		"x-api-key":         apiKey,
		"anthropic-version": a.cfg.Version,
	}
	raw, status, err := llm.PostJSON(ctx, a.http, endpoint, body, headers, a.log)
	if err != nil {
		cat := llm.CategorizeErr(err)
		if status != 0 {
			cat = llm.CategorizeStatus(status)
		}
		a.log.Error("anthropic.extract.http_error",
			"req_id", rid, "status", status, "category", cat, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Failure(req.Model, cat, fmt.Sprintf("anthropic request failed: %v", err), string(raw), time.Since(start))
	}

	var msg struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		a.log.Error("anthropic.extract.decode_error", "req_id", rid, "error", err, "raw_bytes", len(raw))
		return llm.Failure(req.Model, llm.ErrCategoryInvalidResponse, fmt.Sprintf("decode anthropic response: %v", err), string(raw), time.Since(start))
	}
	usage := catalog.Usage{InputTokens: msg.Usage.InputTokens, OutputTokens: msg.Usage.OutputTokens}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		a.log.Error("anthropic.extract.empty_content", "req_id", rid, "raw_bytes", len(raw))
		res := llm.Failure(req.Model, llm.ErrCategoryInvalidResponse, "no text content in anthropic response", string(raw), time.Since(start))
		res.Usage = usage
		return res
	}

	res := llm.ResultFromOutput(req.Model, strings.TrimSpace(text.String()), usage, time.Since(start))
	a.log.Info("anthropic.extract.done",
		"req_id", rid,
		"success", res.Success,
		"rows", len(res.Rows),
		"input_tokens", usage.InputTokens,
		"output_tokens", usage.OutputTokens,
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res
}
