package llm

import (
	"context"
	"time"

	"github.com/vilmerfrost/solvix/constants"
	"github.com/vilmerfrost/solvix/internal/catalog"
)

// Settings is the optional per-request behavior bag.
type Settings struct {
	MaterialSynonyms map[string]string `json:"material_synonyms,omitempty"`
	KnownReceivers   []string          `json:"known_receivers,omitempty"`
	MaxOutputTokens  int               `json:"max_output_tokens,omitempty"`
}

// ExtractionRequest is one extraction attempt's input. Immutable per call.
type ExtractionRequest struct {
	Model        catalog.Model
	Kind         constants.ContentKind
	Text         string // tabular/plain text content (spreadsheet flow)
	Content      []byte // binary content (pdf/image flow), attached base64 inline
	MimeType     string
	Filename     string
	Instructions string // free-text custom instructions
	Settings     Settings
}

// ExtractedRow is one normalized material/weight line item.
// Order must be preserved from source.
type ExtractedRow struct {
	Date       string             `json:"date"`
	Location   string             `json:"location"`
	Material   string             `json:"material"`
	WeightKG   float64            `json:"weight_kg"`
	Unit       string             `json:"unit"`
	Receiver   string             `json:"receiver"`
	Hazardous  bool               `json:"hazardous"`
	Confidence map[string]float64 `json:"confidence,omitempty"`
}

// LocaleMetadata is best-effort payment metadata parsed from the raw
// provider response (Swedish conventions).
type LocaleMetadata struct {
	OrgNumbers        []string `json:"org_numbers,omitempty"`
	PaymentReferences []string `json:"payment_references,omitempty"`
	BankgiroNumbers   []string `json:"bankgiro_numbers,omitempty"`
	PlusgiroNumbers   []string `json:"plusgiro_numbers,omitempty"`
	VATAmounts        []string `json:"vat_amounts,omitempty"`
}

// ExtractionResult is the outcome of one extraction attempt.
// Failures are tagged results, never panics or raw errors past the adapter.
type ExtractionResult struct {
	Success     bool
	Rows        []ExtractedRow
	ModelID     string
	Provider    constants.Provider
	Usage       catalog.Usage
	CostUSD     float64
	Duration    time.Duration
	ErrCategory ErrorCategory
	ErrMessage  string
	Suggestions []string
	RawText     string // raw output text, kept for enrichment and diagnosis
	Locale      *LocaleMetadata
}

// Adapter is the uniform per-provider extraction contract.
// Adapters are stateless and safely reusable across requests.
type Adapter interface {
	SupportsContentType(kind constants.ContentKind) bool
	Extract(ctx context.Context, req ExtractionRequest, apiKey string) ExtractionResult
}

// Failure builds a failed result carrying the taxonomy category and,
// when available, the raw response for diagnosis.
func Failure(model catalog.Model, cat ErrorCategory, msg, raw string, elapsed time.Duration) ExtractionResult {
	return ExtractionResult{
		Success:     false,
		ModelID:     model.ID,
		Provider:    model.Provider,
		Duration:    elapsed,
		ErrCategory: cat,
		ErrMessage:  msg,
		Suggestions: Suggestions(cat),
		RawText:     raw,
	}
}
