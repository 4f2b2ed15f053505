// Package structured applies a schema to raw text with deterministic
// regex/heuristic field fill. No network calls; the office-document flow
// substitutes this extractor for provider adapters.
package structured

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/vilmerfrost/solvix/constants"
	"github.com/vilmerfrost/solvix/internal/schema"
)

// Extraction is one schema application outcome. Every declared table key is
// present in Tables, regardless of extraction maturity.
type Extraction struct {
	Fields  map[string]string              `json:"fields"`
	Tables  map[string][]map[string]string `json:"tables"`
	Links   map[string]string              `json:"links,omitempty"`
	Signals map[string]string              `json:"signals,omitempty"`
}

type Extractor struct {
	homeCurrency string
	tables       TableExtractor
	log          *slog.Logger
}

func New(homeCurrency string, tables TableExtractor, logger *slog.Logger) *Extractor {
	if homeCurrency == "" {
		homeCurrency = "SEK"
	}
	if tables == nil {
		tables = PresenceHeuristic{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{homeCurrency: homeCurrency, tables: tables, log: logger}
}

var (
	reISODate    = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	reDateLbl    = regexp.MustCompile(`(?i)(?:date|datum)\D{0,10}(\d{4}-\d{2}-\d{2})`)
	reDueDate    = regexp.MustCompile(`(?i)(?:due date|förfallodatum)\D{0,10}(\d{4}-\d{2}-\d{2})`)
	reRenewal    = regexp.MustCompile(`(?i)(?:renewal|förnyelse)\D{0,10}(\d{4}-\d{2}-\d{2})`)
	reAmount     = regexp.MustCompile(`(?i)(?:total|amount due|att betala|belopp|summa)\D{0,10}([\d][\d .,]*\d|\d)`)
	reCurrency   = regexp.MustCompile(`\b(SEK|EUR|USD|GBP|NOK|DKK)\b`)
	reDocumentID = regexp.MustCompile(`(?i)(?:invoice (?:no|number|#)|fakturanr|faktura nr|po number|order (?:no|number)|document id)\W{0,3}([A-Za-z0-9-]{2,})`)
	reSupplier   = regexp.MustCompile(`(?i)(?:supplier|leverantör|from|seller)[:\s]+([^\n]{2,60})`)
	reCustomer   = regexp.MustCompile(`(?i)(?:customer|kund|bill to|buyer)[:\s]+([^\n]{2,60})`)
	reParties    = regexp.MustCompile(`(?i)between\s+(.{2,60}?)\s+and\s+(.{2,60}?)[,.\n]`)
	reTicketID   = regexp.MustCompile(`(?i)ticket\W{0,3}#?([A-Za-z0-9-]{2,})`)
	reSeverity   = regexp.MustCompile(`(?i)severity[:\s]+(\w+)`)
	reSystem     = regexp.MustCompile(`(?i)(?:affected system|system)[:\s]+([^\n]{2,60})`)
	reStatus     = regexp.MustCompile(`(?i)status[:\s]+(\w[\w ]{0,30})`)
	reAssetID    = regexp.MustCompile(`(?i)asset\W{0,3}#?([A-Za-z0-9-]{2,})`)
)

// Extract fills the template's declared fields and tables from text.
func (e *Extractor) Extract(tpl schema.TemplateDefinition, text string) Extraction {
	candidates := e.candidates(tpl.DocType, text)

	out := Extraction{
		Fields:  make(map[string]string, len(tpl.Fields)),
		Tables:  make(map[string][]map[string]string, len(tpl.Tables)),
		Links:   make(map[string]string),
		Signals: make(map[string]string),
	}

	for _, f := range tpl.Fields {
		if v, ok := candidates[f.Key]; ok && v != "" {
			out.Fields[f.Key] = v
			continue
		}
		for _, alias := range f.Aliases {
			if v, ok := candidates[alias]; ok && v != "" {
				out.Fields[f.Key] = v
				break
			}
		}
	}

	for _, t := range tpl.Tables {
		rows, detected := e.tables.ExtractTable(t, text)
		if rows == nil {
			rows = []map[string]string{}
		}
		out.Tables[t.Key] = rows
		if detected {
			out.Signals["tables."+t.Key] = "detected"
		} else {
			out.Signals["tables."+t.Key] = "none"
		}
	}

	if id := candidates["ticketId"]; id != "" {
		out.Links["ticketId"] = id
	}
	if m := reAssetID.FindStringSubmatch(text); m != nil {
		out.Links["assetId"] = strings.TrimSpace(m[1])
	}
	if st := candidates["status"]; st != "" {
		out.Signals["status"] = st
	}

	e.log.Info("structured.extract.done",
		"doc_type", tpl.DocType,
		"schema_id", tpl.SchemaID,
		"fields", len(out.Fields),
		"tables", len(out.Tables),
	)
	return out
}

// candidates produces heuristic values keyed by canonical field keys:
// shared fields first, then the type-specific ones.
func (e *Extractor) candidates(docType constants.DocType, text string) map[string]string {
	c := make(map[string]string)

	if m := reDateLbl.FindStringSubmatch(text); m != nil {
		c["date"] = m[1]
	} else if m := reISODate.FindStringSubmatch(text); m != nil {
		c["date"] = m[1]
	}
	if m := reDueDate.FindStringSubmatch(text); m != nil {
		c["dueDate"] = m[1]
	}
	if m := reAmount.FindStringSubmatch(text); m != nil {
		c["amount"] = normalizeAmount(m[1])
	}
	if m := reCurrency.FindStringSubmatch(text); m != nil {
		c["currency"] = m[1]
	} else {
		c["currency"] = e.homeCurrency
	}

	switch docType {
	case constants.DocTypeInvoice, constants.DocTypePurchaseOrder, constants.DocTypeWeighSlip:
		if m := reSupplier.FindStringSubmatch(text); m != nil {
			c["supplier"] = strings.TrimSpace(m[1])
		}
		if m := reCustomer.FindStringSubmatch(text); m != nil {
			c["customer"] = strings.TrimSpace(m[1])
		}
		if m := reDocumentID.FindStringSubmatch(text); m != nil {
			c["documentId"] = strings.TrimSpace(m[1])
		}
	case constants.DocTypeContract:
		if m := reParties.FindStringSubmatch(text); m != nil {
			c["partyA"] = strings.TrimSpace(m[1])
			c["partyB"] = strings.TrimSpace(m[2])
		}
		if m := reRenewal.FindStringSubmatch(text); m != nil {
			c["renewalDate"] = m[1]
		}
	case constants.DocTypeSupportTicket:
		if m := reTicketID.FindStringSubmatch(text); m != nil {
			c["ticketId"] = strings.TrimSpace(m[1])
		}
		if m := reSeverity.FindStringSubmatch(text); m != nil {
			c["severity"] = strings.ToLower(strings.TrimSpace(m[1]))
		}
		if m := reSystem.FindStringSubmatch(text); m != nil {
			c["affectedSystem"] = strings.TrimSpace(m[1])
		}
	}
	if m := reStatus.FindStringSubmatch(text); m != nil {
		c["status"] = strings.TrimSpace(m[1])
	}
	return c
}

func normalizeAmount(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	// Swedish decimal comma, unless the comma is a thousands separator.
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	return s
}
