package openai

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

// SupportsContentType reports spreadsheet and image support; OpenAI
// chat/completions has no native PDF attachment.
func (a *Adapter) SupportsContentType(kind constants.ContentKind) bool {
	return kind == constants.ContentSpreadsheet || kind == constants.ContentImage
}

// Extract implements llm.Adapter via chat/completions with image_url data URIs.
func (a *Adapter) Extract(ctx context.Context, req llm.ExtractionRequest, apiKey string) llm.ExtractionResult {
	rid := uuid.New().String()
	start := time.Now()

	a.log.Info("openai.extract.start",
		"req_id", rid,
		"model", req.Model.ID,
		"kind", req.Kind,
		"text_len", len(req.Text),
		"content_bytes", len(req.Content),
	)

	prompt := llm.BuildPrompt(req)
	var userContent any = prompt
	if req.Kind.Binary() {
		dataURI := "data:" + req.MimeType + ";base64," + base64.StdEncoding.EncodeToString(req.Content)
		userContent = []map[string]any{
			{"type": "text", "text": prompt},
			{"type": "image_url", "image_url": map[string]any{"url": dataURI}},
		}
	}

	body := map[string]any{
		"model":           req.Model.ID,
		"temperature":     0,
		"max_tokens":      llm.MaxTokens(req),
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "user", "content": userContent},
		},
	}

	endpoint := strings.TrimRight(a.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + apiKey}
	raw, status, err := llm.PostJSON(ctx, a.http, endpoint, body, headers, a.log)
	if err != nil {
		cat := llm.CategorizeErr(err)
		if status != 0 {
			cat = llm.CategorizeStatus(status)
		}
		a.log.Error("openai.extract.http_error",
			"req_id", rid, "status", status, "category", cat, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Failure(req.Model, cat, fmt.Sprintf("openai request failed: %v", err), string(raw), time.Since(start))
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		a.log.Error("openai.extract.decode_error", "req_id", rid, "error", err, "raw_bytes", len(raw))
		return llm.Failure(req.Model, llm.ErrCategoryInvalidResponse, fmt.Sprintf("decode openai response: %v", err), string(raw), time.Since(start))
	}
	usage := catalog.Usage{InputTokens: cc.Usage.PromptTokens, OutputTokens: cc.Usage.CompletionTokens}
	if len(cc.Choices) == 0 {
		a.log.Error("openai.extract.no_choices", "req_id", rid, "raw_bytes", len(raw))
		res := llm.Failure(req.Model, llm.ErrCategoryInvalidResponse, "no choices in openai response", string(raw), time.Since(start))
		res.Usage = usage
		return res
	}

	res := llm.ResultFromOutput(req.Model, strings.TrimSpace(cc.Choices[0].Message.Content), usage, time.Since(start))
	a.log.Info("openai.extract.done",
		"req_id", rid,
		"success", res.Success,
		"rows", len(res.Rows),
		"input_tokens", usage.InputTokens,
		"output_tokens", usage.OutputTokens,
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res
}
