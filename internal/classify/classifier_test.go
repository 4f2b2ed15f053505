package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilmerfrost/solvix/constants"
)

func TestClassifyInvoiceKeywords(t *testing.T) {
	c := New(nil, nil)
	d := c.Classify("scan-001.pdf", "Invoice\nOCR: 1234567890\nBankgiro: 123-4567\nAtt betala: 10 000 SEK")

	assert.Equal(t, constants.DocTypeInvoice, d.FinalType)
	assert.Equal(t, constants.SourceModel, d.Source)
	assert.GreaterOrEqual(t, d.ModelConfidence, 0.5)
}

func TestClassifyConfidenceBounds(t *testing.T) {
	c := New(nil, nil)
	// Every invoice keyword present still caps at 0.95.
	body := strings.Join(taxonomy[constants.DocTypeInvoice], " ")
	d := c.Classify("x", body)
	assert.Equal(t, constants.DocTypeInvoice, d.FinalType)
	assert.LessOrEqual(t, d.ModelConfidence, 0.95)
}

func TestClassifyUnknownFallback(t *testing.T) {
	c := New(nil, nil)
	d := c.Classify("notes.txt", "random unrelated words about gardening")

	assert.Equal(t, constants.DocTypeUnknown, d.FinalType)
	assert.Equal(t, 0.35, d.ModelConfidence)
	assert.Equal(t, constants.SourceFallback, d.Source)
}

func TestClassifyRuleOverrideWins(t *testing.T) {
	rules := []OverrideRule{
		{Priority: 10, Keyword: "faktura", TargetDocType: constants.DocTypeContract, TargetSchemaID: "s-1"},
	}
	c := New(rules, nil)
	d := c.Classify("a.pdf", "faktura 2024-01-01")

	assert.Equal(t, constants.DocTypeContract, d.FinalType)
	assert.Equal(t, constants.SourceRuleOverride, d.Source)
	assert.Equal(t, "s-1", d.SchemaID)
	// The model's own answer is preserved for audit.
	assert.Equal(t, constants.DocTypeInvoice, d.ModelType)
}

func TestClassifyRulePriorityOrdering(t *testing.T) {
	rules := []OverrideRule{
		{Priority: 20, Keyword: "faktura", TargetDocType: constants.DocTypeWeighSlip},
		{Priority: 5, Keyword: "faktura", TargetDocType: constants.DocTypePurchaseOrder},
	}
	c := New(rules, nil)
	d := c.Classify("a.pdf", "faktura")
	assert.Equal(t, constants.DocTypePurchaseOrder, d.FinalType, "lowest priority value matches first")
}

func TestRuleWithoutConditionsNeverMatches(t *testing.T) {
	c := New([]OverrideRule{{Priority: 1, TargetDocType: constants.DocTypeContract}}, nil)
	d := c.Classify("a.pdf", "faktura")
	assert.Equal(t, constants.SourceModel, d.Source)
	assert.Equal(t, constants.DocTypeInvoice, d.FinalType)
}

func TestRuleBothConditionsMustHold(t *testing.T) {
	rules := []OverrideRule{
		{Priority: 1, FilenamePattern: "weigh", Keyword: "faktura", TargetDocType: constants.DocTypeWeighSlip},
	}
	c := New(rules, nil)

	d := c.Classify("a.pdf", "faktura")
	assert.Equal(t, constants.SourceModel, d.Source, "filename condition missing")

	d = c.Classify("weigh-2024.pdf", "faktura")
	assert.Equal(t, constants.DocTypeWeighSlip, d.FinalType)
}

func TestLoadRulesYAML(t *testing.T) {
	data := []byte(`
overrides:
  - priority: 1
    keyword: vågsedel
    target_doc_type: weigh_slip
  - priority: 2
    filename_pattern: contract
    target_doc_type: contract
    target_schema_id: legal-v2
`)
	rules, err := LoadRulesYAML(data)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, constants.DocTypeWeighSlip, rules[0].TargetDocType)
	assert.Equal(t, "legal-v2", rules[1].TargetSchemaID)
}
