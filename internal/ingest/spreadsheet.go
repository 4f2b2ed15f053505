// Package ingest prepares uploaded files for the pipeline: spreadsheets are
// flattened to tab-separated text so every downstream stage works on plain
// text, and binary content is routed by extension.
package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// MaxSheetRows caps how many rows a single sheet contributes; pathological
// workbooks should not blow up prompt sizes.
const MaxSheetRows = 5000

// SpreadsheetToTSV renders every sheet of an xlsx workbook as tab-separated
// lines, sheets separated by a blank line with a "# <sheet>" header. Cell
// values come out formatted, not raw.
func SpreadsheetToTSV(r io.Reader) (string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for i, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "# %s\n", sheet)
		for n, row := range rows {
			if n >= MaxSheetRows {
				break
			}
			b.WriteString(strings.Join(row, "\t"))
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}
