package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildRowsJSONSchema returns a JSON-Schema (draft 2020-12 subset) for the
// normalized row array. Normalized output is validated against it before a
// result is declared successful, so the row invariants hold at the boundary.
func BuildRowsJSONSchema() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"date":      map[string]any{"type": "string"},
				"location":  map[string]any{"type": "string"},
				"material":  map[string]any{"type": "string"},
				"weight_kg": map[string]any{"type": "number", "minimum": 0.0},
				"unit":      map[string]any{"type": "string", "minLength": 1},
				"receiver":  map[string]any{"type": "string"},
				"hazardous": map[string]any{"type": "boolean"},
				"confidence": map[string]any{
					"type":                 "object",
					"additionalProperties": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
				},
			},
			"required": []string{"unit", "weight_kg"},
		},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// ValidateRows marshals normalized rows and validates them against the row schema.
func ValidateRows(rows []ExtractedRow) error {
	b, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal rows: %w", err)
	}
	return ValidateJSONAgainstSchema(BuildRowsJSONSchema(), b)
}
