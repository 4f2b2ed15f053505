// Package catalog is the static registry of known extraction models.
// Pure data; no behavior beyond lookup and cost math.
package catalog

import (
	"fmt"

	"github.com/vilmerfrost/solvix/constants"
	"github.com/vilmerfrost/solvix/internal/common"
)

// Model describes one extraction model offered by a provider.
type Model struct {
	ID           string
	Provider     constants.Provider
	DisplayName  string
	InputPerM    float64 // USD per 1M input tokens
	OutputPerM   float64 // USD per 1M output tokens
	SupportsPDF  bool
	SupportsImg  bool
	PlatformUse  bool // eligible as a platform-managed-key model
	DefaultModel bool
}

// Usage is the token count reported by a provider for one call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Cost returns the monetary cost of a call in USD.
func (m Model) Cost(u Usage) float64 {
	return float64(u.InputTokens)/1e6*m.InputPerM + float64(u.OutputTokens)/1e6*m.OutputPerM
}

// models is declaration-ordered; the first DefaultModel entry wins Default().
var models = []Model{
	{
		ID:           "gpt-4o-mini",
		Provider:     constants.ProviderOpenAI,
		DisplayName:  "GPT-4o mini",
		InputPerM:    0.15,
		OutputPerM:   0.60,
		SupportsPDF:  false,
		SupportsImg:  true,
		PlatformUse:  true,
		DefaultModel: true,
	},
	{
		ID:          "gpt-4o",
		Provider:    constants.ProviderOpenAI,
		DisplayName: "GPT-4o",
		InputPerM:   2.50,
		OutputPerM:  10.00,
		SupportsImg: true,
		PlatformUse: true,
	},
	{
		ID:          "claude-sonnet-4-20250514",
		Provider:    constants.ProviderAnthropic,
		DisplayName: "Claude Sonnet 4",
		InputPerM:   3.00,
		OutputPerM:  15.00,
		SupportsPDF: true,
		SupportsImg: true,
		PlatformUse: true,
	},
	{
		ID:          "claude-3-5-haiku-20241022",
		Provider:    constants.ProviderAnthropic,
		DisplayName: "Claude 3.5 Haiku",
		InputPerM:   0.80,
		OutputPerM:  4.00,
		SupportsImg: true,
	},
	{
		ID:          "gemini-2.0-flash",
		Provider:    constants.ProviderGoogle,
		DisplayName: "Gemini 2.0 Flash",
		InputPerM:   0.10,
		OutputPerM:  0.40,
		SupportsPDF: true,
		SupportsImg: true,
		PlatformUse: true,
	},
}

// Lookup resolves a model by id.
func Lookup(id string) (Model, error) {
	for _, m := range models {
		if m.ID == id {
			return m, nil
		}
	}
	return Model{}, common.NewAppError("UNKNOWN_MODEL", fmt.Sprintf("model %q is not in the catalog", id), common.ErrUnknownModel)
}

// Default returns the platform default model.
func Default() Model {
	for _, m := range models {
		if m.DefaultModel {
			return m
		}
	}
	return models[0]
}

// All returns a copy of the registry in declaration order.
func All() []Model {
	out := make([]Model, len(models))
	copy(out, models)
	return out
}
