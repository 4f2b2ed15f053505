package classify

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vilmerfrost/solvix/constants"
)

// OverrideRule is one user-defined classification override. Rules are
// evaluated in ascending priority order and the first match wins. Conditions
// are optional, but every present condition must hold.
type OverrideRule struct {
	Priority        int               `yaml:"priority" json:"priority"`
	FilenamePattern string            `yaml:"filename_pattern,omitempty" json:"filename_pattern,omitempty"`
	Keyword         string            `yaml:"keyword,omitempty" json:"keyword,omitempty"`
	TargetDocType   constants.DocType `yaml:"target_doc_type,omitempty" json:"target_doc_type,omitempty"`
	TargetSchemaID  string            `yaml:"target_schema_id,omitempty" json:"target_schema_id,omitempty"`
}

// matches evaluates the rule's conditions against filename and body text.
// A rule with no conditions never matches.
func (r OverrideRule) matches(filename, body string) bool {
	if r.FilenamePattern == "" && r.Keyword == "" {
		return false
	}
	if r.FilenamePattern != "" && !strings.Contains(strings.ToLower(filename), strings.ToLower(r.FilenamePattern)) {
		return false
	}
	if r.Keyword != "" && !strings.Contains(strings.ToLower(body), strings.ToLower(r.Keyword)) {
		return false
	}
	return true
}

func (c *Classifier) firstMatch(filename, body string) (OverrideRule, bool) {
	for _, r := range c.rules {
		if r.matches(filename, body) {
			return r, true
		}
	}
	return OverrideRule{}, false
}

// sortRules orders by ascending priority, stable on input order.
func sortRules(rules []OverrideRule) []OverrideRule {
	out := make([]OverrideRule, len(rules))
	copy(out, rules)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

// LoadRulesYAML parses override rules from YAML config.
func LoadRulesYAML(data []byte) ([]OverrideRule, error) {
	var doc struct {
		Overrides []OverrideRule `yaml:"overrides"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse override rules: %w", err)
	}
	return doc.Overrides, nil
}
