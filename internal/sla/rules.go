package sla

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vilmerfrost/solvix/constants"
)

// Rule is one per-document-type SLA threshold pair, in minutes.
type Rule struct {
	DocType        constants.DocType `yaml:"doc_type" json:"doc_type"`
	WarningMinutes int               `yaml:"warning_minutes" json:"warning_minutes"`
	BreachMinutes  int               `yaml:"breach_minutes" json:"breach_minutes"`
}

// LoadRulesYAML parses SLA rules from YAML config.
func LoadRulesYAML(data []byte) ([]Rule, error) {
	var doc struct {
		Sla []Rule `yaml:"sla"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse sla rules: %w", err)
	}
	for _, r := range doc.Sla {
		if r.WarningMinutes <= 0 || r.BreachMinutes <= 0 || r.BreachMinutes < r.WarningMinutes {
			return nil, fmt.Errorf("invalid sla rule for %q: warning=%d breach=%d", r.DocType, r.WarningMinutes, r.BreachMinutes)
		}
	}
	return doc.Sla, nil
}
