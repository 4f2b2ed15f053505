package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilmerfrost/solvix/constants"
	"github.com/vilmerfrost/solvix/internal/schema"
	"github.com/vilmerfrost/solvix/internal/structured"
)

func invoiceTemplate() schema.TemplateDefinition {
	return schema.TemplateDefinition{
		SchemaID: "tpl-1",
		Version:  1,
		DocType:  constants.DocTypeInvoice,
		Fields: []schema.FieldDef{
			{Key: "documentId", Label: "Document ID", Type: "text", Required: true},
			{Key: "date", Label: "Date", Type: "date", Required: true},
			{Key: "amount", Label: "Amount", Type: "number"},
			{Key: "currency", Label: "Currency", Type: "currency"},
		},
	}
}

func TestValidateMissingRequiredField(t *testing.T) {
	v := New(nil)
	out := v.Validate(invoiceTemplate(), structured.Extraction{
		Fields: map[string]string{"documentId": "INV-1", "amount": "100"},
	}, 0.8)

	require.Len(t, out.BlockingIssues, 1)
	assert.Equal(t, "Missing required field: Date", out.BlockingIssues[0])
	assert.Equal(t, 50, out.Completeness, "2 of 4 declared fields populated")
	assert.Equal(t, 80, out.Confidence)
}

func TestValidateCompletenessCountsAllFields(t *testing.T) {
	v := New(nil)
	tpl := invoiceTemplate()

	none := v.Validate(tpl, structured.Extraction{Fields: map[string]string{}}, 0.5)
	assert.Equal(t, 0, none.Completeness)

	all := v.Validate(tpl, structured.Extraction{Fields: map[string]string{
		"documentId": "INV-1", "date": "2025-01-01", "amount": "100", "currency": "SEK",
	}}, 0.5)
	assert.Equal(t, 100, all.Completeness)
	assert.Empty(t, all.BlockingIssues)

	assert.GreaterOrEqual(t, all.Completeness, none.Completeness, "more fields never lowers completeness")
}

func TestValidateNumericEmptiness(t *testing.T) {
	v := New(nil)
	tpl := schema.TemplateDefinition{Fields: []schema.FieldDef{
		{Key: "amount", Label: "Amount", Type: "number", Required: true},
	}}

	out := v.Validate(tpl, structured.Extraction{Fields: map[string]string{"amount": "not-a-number"}}, 0)
	require.Len(t, out.BlockingIssues, 1)

	out = v.Validate(tpl, structured.Extraction{Fields: map[string]string{"amount": "42.5"}}, 0)
	assert.Empty(t, out.BlockingIssues)
}

func TestValidateCurrencyCodePasses(t *testing.T) {
	v := New(nil)
	tpl := schema.TemplateDefinition{Fields: []schema.FieldDef{
		{Key: "currency", Label: "Currency", Type: "currency", Required: true},
	}}
	out := v.Validate(tpl, structured.Extraction{Fields: map[string]string{"currency": "SEK"}}, 0)
	assert.Empty(t, out.BlockingIssues)
	assert.Equal(t, 100, out.Completeness)
}

func TestValidateRuleSeverities(t *testing.T) {
	v := New(nil)
	tpl := schema.TemplateDefinition{
		Fields: []schema.FieldDef{
			{Key: "supplier", Label: "Supplier", Type: "text"},
			{Key: "dueDate", Label: "Due Date", Type: "date"},
		},
		Rules: []schema.RuleDef{
			{Key: "r1", Severity: schema.SeverityBlocking, Expr: "required", Field: "supplier", Message: "Supplier must be set"},
			{Key: "r2", Severity: schema.SeverityWarning, Expr: "required", Field: "dueDate"},
		},
	}

	out := v.Validate(tpl, structured.Extraction{Fields: map[string]string{}}, 0)
	require.Len(t, out.BlockingIssues, 1)
	assert.Equal(t, "Supplier must be set", out.BlockingIssues[0])
	require.Len(t, out.WarningIssues, 1)
	assert.Contains(t, out.WarningIssues[0], "Due Date")
}
