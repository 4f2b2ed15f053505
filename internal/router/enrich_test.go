package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocaleMetadata(t *testing.T) {
	raw := `Leverantör: Acme AB 556677-1234
Bankgiro: 5678-9012
Plusgiro: 1234567-8
OCR: 94340123456789
Moms: 2500,00`

	meta, ok := ParseLocaleMetadata(raw)
	require.True(t, ok)
	assert.Equal(t, []string{"556677-1234"}, meta.OrgNumbers)
	assert.Equal(t, []string{"5678-9012"}, meta.BankgiroNumbers)
	assert.Equal(t, []string{"1234567-8"}, meta.PlusgiroNumbers)
	assert.Equal(t, []string{"94340123456789"}, meta.PaymentReferences)
	assert.Equal(t, []string{"2500,00"}, meta.VATAmounts)
}

func TestParseLocaleMetadataNoMatch(t *testing.T) {
	meta, ok := ParseLocaleMetadata("plain text without payment details")
	assert.False(t, ok)
	assert.Nil(t, meta)

	meta, ok = ParseLocaleMetadata("   ")
	assert.False(t, ok)
	assert.Nil(t, meta)
}

func TestParseLocaleMetadataDeduplicates(t *testing.T) {
	meta, ok := ParseLocaleMetadata("556677-1234 appears twice 556677-1234")
	require.True(t, ok)
	assert.Equal(t, []string{"556677-1234"}, meta.OrgNumbers)
}
