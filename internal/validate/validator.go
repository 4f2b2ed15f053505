// Package validate checks required fields and declared schema rules against
// extracted data. It never fails outright; absence of signal degrades to a
// low-completeness outcome so every document ends in a reviewable state.
package validate

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/vilmerfrost/solvix/internal/schema"
	"github.com/vilmerfrost/solvix/internal/structured"
)

// Outcome is one validation result.
type Outcome struct {
	Completeness   int      `json:"completeness"` // 0..100, over ALL declared fields
	Confidence     int      `json:"confidence"`   // 0..100, carried from classification
	BlockingIssues []string `json:"blocking_issues"`
	WarningIssues  []string `json:"warning_issues"`
}

type Validator struct {
	log *slog.Logger
}

func New(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{log: logger}
}

// Validate merges two issue sources: required-flag checks on every declared
// field, and independently evaluated schema rules of expression-type
// "required" with their declared severity.
func (v *Validator) Validate(tpl schema.TemplateDefinition, ex structured.Extraction, classificationConfidence float64) Outcome {
	out := Outcome{
		BlockingIssues: []string{},
		WarningIssues:  []string{},
	}

	populated := 0
	for _, f := range tpl.Fields {
		if fieldPopulated(f, ex.Fields[f.Key]) {
			populated++
		} else if f.Required {
			out.BlockingIssues = append(out.BlockingIssues, "Missing required field: "+f.Label)
		}
	}

	for _, r := range tpl.Rules {
		if r.Expr != "required" {
			continue
		}
		f, ok := tpl.FieldByKey(r.Field)
		if !ok {
			f = schema.FieldDef{Key: r.Field, Label: r.Field}
		}
		if fieldPopulated(f, ex.Fields[r.Field]) {
			continue
		}
		msg := r.Message
		if msg == "" {
			msg = "Rule " + r.Key + " failed: " + f.Label + " is required"
		}
		if r.Severity == schema.SeverityBlocking {
			out.BlockingIssues = append(out.BlockingIssues, msg)
		} else {
			out.WarningIssues = append(out.WarningIssues, msg)
		}
	}

	// Complete means fully filled, not merely unblocked: all declared fields
	// count, required and optional alike.
	if len(tpl.Fields) > 0 {
		out.Completeness = int(math.Round(float64(populated) / float64(len(tpl.Fields)) * 100))
	}
	out.Confidence = int(math.Round(classificationConfidence * 100))

	v.log.Info("validate.done",
		"schema_id", tpl.SchemaID,
		"completeness", out.Completeness,
		"blocking", len(out.BlockingIssues),
		"warnings", len(out.WarningIssues),
	)
	return out
}

// fieldPopulated applies the emptiness check: trimmed non-empty strings, and
// finite parseable values for numeric field types.
func fieldPopulated(f schema.FieldDef, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	switch f.Type {
	case "number", "currency":
		if f.Type == "currency" && !isNumeric(value) {
			// currency fields hold either an amount or a code; codes pass
			return true
		}
		fv, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		return !math.IsNaN(fv) && !math.IsInf(fv, 0)
	}
	return true
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
