// Package classify scores raw document text against a keyword taxonomy and
// merges the result with user-defined override rules into one auditable
// classification decision.
package classify

import (
	"log/slog"
	"strings"

	"github.com/vilmerfrost/solvix/constants"
)

const (
	// Zero keyword hits still classify; "no signal" is not "no document".
	unknownConfidence = 0.35
	baseConfidence    = 0.5
	perHitConfidence  = 0.1
	maxConfidence     = 0.95

	// Below this model confidence an unknown final type is reported as
	// fallback rather than model.
	fallbackThreshold = 0.45
)

// Decision is one immutable classification outcome.
type Decision struct {
	ModelType       constants.DocType        `json:"model_type"`
	ModelConfidence float64                  `json:"model_confidence"`
	RuleType        constants.DocType        `json:"rule_type,omitempty"`
	FinalType       constants.DocType        `json:"final_type"`
	SchemaID        string                   `json:"schema_id,omitempty"`
	Source          constants.DecisionSource `json:"source"`
}

type Classifier struct {
	rules []OverrideRule
	log   *slog.Logger
}

func New(rules []OverrideRule, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{rules: sortRules(rules), log: logger}
}

// Classify produces the final decision for one document.
func (c *Classifier) Classify(filename, body string) Decision {
	modelType, confidence := score(filename, body)

	d := Decision{
		ModelType:       modelType,
		ModelConfidence: confidence,
		FinalType:       modelType,
		Source:          constants.SourceModel,
	}

	if rule, ok := c.firstMatch(filename, body); ok {
		d.RuleType = rule.TargetDocType
		d.Source = constants.SourceRuleOverride
		if rule.TargetDocType != "" {
			d.FinalType = rule.TargetDocType
		}
		d.SchemaID = rule.TargetSchemaID
	} else if d.FinalType == constants.DocTypeUnknown && confidence < fallbackThreshold {
		// No reliable signal at all, as opposed to a different answer.
		d.Source = constants.SourceFallback
	}

	c.log.Info("classify.decision",
		"model_type", d.ModelType,
		"model_confidence", d.ModelConfidence,
		"final_type", d.FinalType,
		"source", d.Source,
		"schema_id", d.SchemaID,
	)
	return d
}

// score counts keyword hits over filename + body; the highest count wins and
// ties favor the first-declared type.
func score(filename, body string) (constants.DocType, float64) {
	haystack := strings.ToLower(filename + " " + body)

	best := constants.DocTypeUnknown
	bestHits := 0
	for _, dt := range constants.DocTypes {
		hits := 0
		for _, kw := range taxonomy[dt] {
			if strings.Contains(haystack, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best = dt
			bestHits = hits
		}
	}

	if bestHits == 0 {
		return constants.DocTypeUnknown, unknownConfidence
	}
	confidence := baseConfidence + float64(bestHits)*perHitConfidence
	if confidence > maxConfidence {
		confidence = maxConfidence
	}
	return best, confidence
}
