package llm

import (
	"time"

	"github.com/vilmerfrost/solvix/internal/catalog"
)

// ResultFromOutput runs the shared tail of every adapter: parse the output
// text, normalize rows, and validate the normalized payload. A parse or
// validation failure becomes an invalid_response result carrying the raw
// output for diagnosis.
func ResultFromOutput(model catalog.Model, output string, usage catalog.Usage, elapsed time.Duration) ExtractionResult {
	items, err := ParseItems(output)
	if err != nil {
		res := Failure(model, ErrCategoryInvalidResponse, err.Error(), output, elapsed)
		res.Usage = usage
		return res
	}
	rows := NormalizeRows(items)
	if err := ValidateRows(rows); err != nil {
		res := Failure(model, ErrCategoryInvalidResponse, err.Error(), output, elapsed)
		res.Usage = usage
		return res
	}
	return ExtractionResult{
		Success:  true,
		Rows:     rows,
		ModelID:  model.ID,
		Provider: model.Provider,
		Usage:    usage,
		Duration: elapsed,
		RawText:  output,
	}
}
