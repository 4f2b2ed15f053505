package structured

import (
	"regexp"

	"github.com/vilmerfrost/solvix/internal/schema"
)

// TableExtractor is the pluggable strategy for table-row extraction.
// The contract downstream code relies on: a non-nil row array per declared
// table key, whatever the implementation maturity.
type TableExtractor interface {
	ExtractTable(def schema.TableDef, text string) (rows []map[string]string, detected bool)
}

var reLineItemMarker = regexp.MustCompile(`(?im)^\s*\d+\s*[x×]\s|\b(?:qty|quantity|antal|unit price|à-pris|line item|artikel)\b`)

// PresenceHeuristic detects line-item-like markers without parsing rows.
// A dedicated table-extraction pass can replace it behind the same interface.
type PresenceHeuristic struct{}

func (PresenceHeuristic) ExtractTable(_ schema.TableDef, text string) ([]map[string]string, bool) {
	return []map[string]string{}, reLineItemMarker.MatchString(text)
}
