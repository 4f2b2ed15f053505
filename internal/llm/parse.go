package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var reItemsArray = regexp.MustCompile(`(?s)"items"\s*:\s*(\[.*?\])`)

// ParseItems extracts the raw items array from model output text using a
// three-stage fallback: direct parse, brace extraction, then regex
// extraction of the "items" array. This tolerates providers that wrap
// JSON in prose or code fences.
func ParseItems(output string) ([]map[string]any, error) {
	output = strings.TrimSpace(output)

	var doc struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.Unmarshal([]byte(output), &doc); err == nil && doc.Items != nil {
		return doc.Items, nil
	}

	// Stage 2: the outermost brace pair, skipping prose and code fences.
	if start, end := strings.Index(output, "{"), strings.LastIndex(output, "}"); start >= 0 && end > start {
		if err := json.Unmarshal([]byte(output[start:end+1]), &doc); err == nil && doc.Items != nil {
			return doc.Items, nil
		}
	}

	// Stage 3: the items array itself.
	if m := reItemsArray.FindStringSubmatch(output); m != nil {
		var items []map[string]any
		if err := json.Unmarshal([]byte(m[1]), &items); err == nil {
			return items, nil
		}
	}

	return nil, fmt.Errorf("no parseable items array in model output (%d bytes)", len(output))
}

// NormalizeRow converts one raw item into an ExtractedRow.
// Missing weight -> 0, missing unit -> "kg", hazardous strictly boolean.
func NormalizeRow(item map[string]any) ExtractedRow {
	row := ExtractedRow{
		Date:     str(item["date"]),
		Location: str(item["location"]),
		Material: str(item["material"]),
		Receiver: str(item["receiver"]),
		Unit:     str(item["unit"]),
	}

	switch w := item["weight"].(type) {
	case float64:
		row.WeightKG = w
	case string:
		if f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(w), ",", "."), 64); err == nil {
			row.WeightKG = f
		}
	}
	if row.WeightKG < 0 {
		row.WeightKG = 0
	}
	if strings.TrimSpace(row.Unit) == "" {
		row.Unit = "kg"
	}
	if hz, ok := item["hazardous"].(bool); ok {
		row.Hazardous = hz
	}
	if conf, ok := item["confidence"].(map[string]any); ok {
		row.Confidence = make(map[string]float64, len(conf))
		for k, v := range conf {
			if f, ok := v.(float64); ok {
				row.Confidence[k] = f
			}
		}
	}
	return row
}

// NormalizeRows normalizes a whole items array, preserving source order.
func NormalizeRows(items []map[string]any) []ExtractedRow {
	rows := make([]ExtractedRow, len(items))
	for i, it := range items {
		rows[i] = NormalizeRow(it)
	}
	return rows
}

func str(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
