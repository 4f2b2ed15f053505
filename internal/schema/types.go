// Package schema resolves the published field/table schema for a
// (user, document type) pair, with versioning and a synthesized default.
package schema

import (
	"github.com/vilmerfrost/solvix/constants"
)

// Status of a schema row. Only published schemas resolve at extraction time.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Severity of a declared rule.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityBlocking Severity = "blocking"
)

// FieldDef declares one extractable field.
type FieldDef struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Type       string   `json:"type"` // text | number | date | currency | enum
	Required   bool     `json:"required,omitempty"`
	Enum       []string `json:"enum,omitempty"`
	Validators []string `json:"validators,omitempty"`
	Aliases    []string `json:"aliases,omitempty"`
}

// TableDef declares one extractable table with its own row fields.
type TableDef struct {
	Key    string     `json:"key"`
	Label  string     `json:"label"`
	Fields []FieldDef `json:"fields"`
}

// RuleDef declares one validation rule.
type RuleDef struct {
	Key      string   `json:"key"`
	Severity Severity `json:"severity"`
	Expr     string   `json:"expr"` // currently "required" only
	Field    string   `json:"field"`
	Message  string   `json:"message"`
}

// TemplateDefinition is one immutable schema version. Versions are
// append-only; "published" is a pointer on the parent schema row.
type TemplateDefinition struct {
	SchemaID string            `json:"schema_id"`
	Version  int               `json:"version"`
	DocType  constants.DocType `json:"doc_type"`
	Fields   []FieldDef        `json:"fields"`
	Tables   []TableDef        `json:"tables"`
	Rules    []RuleDef         `json:"rules"`
}

// FieldByKey returns the field definition for key, if declared.
func (t TemplateDefinition) FieldByKey(key string) (FieldDef, bool) {
	for _, f := range t.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldDef{}, false
}
