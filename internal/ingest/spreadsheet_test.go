package ingest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vilmerfrost/solvix/internal/llm"
)

func workbook(t *testing.T) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Date", "Material", "Weight"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"2024-01-02", "Wood", 120}))

	_, err := f.NewSheet("Notes")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Notes", "A1", &[]any{"internal"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestSpreadsheetToTSV(t *testing.T) {
	out, err := SpreadsheetToTSV(workbook(t))
	require.NoError(t, err)

	assert.Contains(t, out, "# Sheet1\n")
	assert.Contains(t, out, "Date\tMaterial\tWeight\n")
	assert.Contains(t, out, "2024-01-02\tWood\t120\n")
	assert.Contains(t, out, "# Notes\n")
}

func TestSpreadsheetToTSVRejectsGarbage(t *testing.T) {
	_, err := SpreadsheetToTSV(bytes.NewReader([]byte("not a zip archive")))
	assert.Error(t, err)
}

func TestBuildRequestXLSX(t *testing.T) {
	req, err := BuildRequest("jan.xlsx", workbook(t).Bytes(), "", llm.Settings{})
	require.NoError(t, err)
	assert.Contains(t, req.Text, "Wood")
	assert.Empty(t, req.Content, "workbooks never pass through as binary")
}
