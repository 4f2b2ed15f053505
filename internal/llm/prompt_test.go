package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptDeterministicSynonyms(t *testing.T) {
	req := ExtractionRequest{
		Settings: Settings{
			MaterialSynonyms: map[string]string{
				"trä": "wood", "järn": "iron", "betong": "concrete", "glas": "glass",
			},
		},
	}
	first := BuildPrompt(req)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, BuildPrompt(req), "prompt text must not depend on map order")
	}
	assert.Contains(t, first, "'trä' means 'wood'")
}

func TestBuildPromptIncludesContext(t *testing.T) {
	p := BuildPrompt(ExtractionRequest{
		Filename:     "jan.xlsx",
		Text:         "Date\tMaterial",
		Instructions: "Ignore the summary sheet.",
		Settings:     Settings{KnownReceivers: []string{"Ragn-Sells", "Stena"}},
	})
	assert.Contains(t, p, "Filename: jan.xlsx")
	assert.Contains(t, p, "Document content:\nDate\tMaterial")
	assert.Contains(t, p, "Additional instructions: Ignore the summary sheet.")
	assert.Contains(t, p, "Ragn-Sells, Stena")
}

func TestMaxTokens(t *testing.T) {
	assert.Equal(t, DefaultMaxOutputTokens, MaxTokens(ExtractionRequest{}))
	assert.Equal(t, 512, MaxTokens(ExtractionRequest{Settings: Settings{MaxOutputTokens: 512}}))
}
