package router

import (
	"regexp"
	"strings"

	"github.com/vilmerfrost/solvix/internal/llm"
)

// Secondary enrichment: Swedish payment metadata parsed from the raw provider
// response. Best-effort only; a miss returns ok=false and is never escalated.

var (
	reOrgNumber = regexp.MustCompile(`\b(\d{6}-\d{4})\b`)
	reBankgiro  = regexp.MustCompile(`(?i)bankgiro\D{0,5}(\d{3,4}-\d{4})`)
	rePlusgiro  = regexp.MustCompile(`(?i)plusgiro\D{0,5}(\d{1,7}-\d)`)
	reOCRRef    = regexp.MustCompile(`(?i)\bOCR\D{0,5}(\d{5,25})`)
	reVAT       = regexp.MustCompile(`(?i)\b(?:moms|vat)\D{0,5}(\d+(?:[.,]\d{2})?)`)
)

// ParseLocaleMetadata scans raw text for organization numbers, payment
// references and VAT figures. Returns ok=false when nothing was found.
func ParseLocaleMetadata(raw string) (*llm.LocaleMetadata, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	meta := &llm.LocaleMetadata{
		OrgNumbers:        captures(reOrgNumber, raw),
		BankgiroNumbers:   captures(reBankgiro, raw),
		PlusgiroNumbers:   captures(rePlusgiro, raw),
		PaymentReferences: captures(reOCRRef, raw),
		VATAmounts:        captures(reVAT, raw),
	}

	// Bankgiro matches also satisfy the generic org-number shape; prefer the
	// labeled interpretation.
	if len(meta.BankgiroNumbers) > 0 {
		meta.OrgNumbers = subtract(meta.OrgNumbers, meta.BankgiroNumbers)
	}

	if len(meta.OrgNumbers) == 0 && len(meta.BankgiroNumbers) == 0 && len(meta.PlusgiroNumbers) == 0 &&
		len(meta.PaymentReferences) == 0 && len(meta.VATAmounts) == 0 {
		return nil, false
	}
	return meta, true
}

func captures(re *regexp.Regexp, s string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		v := m[1]
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func subtract(from, remove []string) []string {
	drop := make(map[string]struct{}, len(remove))
	for _, v := range remove {
		drop[v] = struct{}{}
	}
	var out []string
	for _, v := range from {
		if _, hit := drop[v]; !hit {
			out = append(out, v)
		}
	}
	return out
}
