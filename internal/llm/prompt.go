package llm

import (
	"sort"
	"strings"
)

// BuildPrompt builds the single textual prompt shared by all adapters.
// Behavioral parity across providers depends on every adapter sending
// exactly this text; provider-specific code only decides how binary
// content is attached.
func BuildPrompt(req ExtractionRequest) string {
	parts := []string{
		"You are a waste and material tracking parser.",
		"Extract every material/weight line item from the document.",
		`Return ONLY JSON of the shape {"items": [...]}.`,
		"Each item has: date (YYYY-MM-DD), location, material, weight (number), unit, receiver, hazardous (boolean).",
		"Weights must be numbers, never strings. Use kilograms when the unit is ambiguous.",
		"Preserve the row order of the source document.",
		"Never output null. If a field is not present, omit it.",
	}

	if len(req.Settings.MaterialSynonyms) > 0 {
		// deterministic prompt text regardless of map iteration order
		keys := make([]string, 0, len(req.Settings.MaterialSynonyms))
		for k := range req.Settings.MaterialSynonyms {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString("Normalize material names using these synonyms:")
		for _, k := range keys {
			b.WriteString(" '" + k + "' means '" + req.Settings.MaterialSynonyms[k] + "'.")
		}
		parts = append(parts, b.String())
	}
	if len(req.Settings.KnownReceivers) > 0 {
		parts = append(parts, "Known receivers (prefer exact matches): "+strings.Join(req.Settings.KnownReceivers, ", ")+".")
	}
	if s := strings.TrimSpace(req.Instructions); s != "" {
		parts = append(parts, "Additional instructions: "+s)
	}

	var b strings.Builder
	b.WriteString(strings.Join(parts, " "))
	if req.Filename != "" {
		b.WriteString("\n\nFilename: ")
		b.WriteString(req.Filename)
	}
	if req.Text != "" {
		b.WriteString("\n\nDocument content:\n")
		b.WriteString(req.Text)
	}
	return b.String()
}
