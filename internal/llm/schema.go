package llm

import "github.com/recordstack/chronology/constants"

// BuildEventsJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a generic map.
// We pass this to OpenAI as a structured output constraint and also use it locally to validate.
func BuildEventsJSONSchema() map[string]any {
	event := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"date":       map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"summary":    map[string]any{"type": "string", "minLength": 1},
			"type":       map[string]any{"type": "string", "enum": constants.EventTypeStrings()},
			"is_primary": map[string]any{"type": "boolean"},
			"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		},
		"required": []string{"date", "summary"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"events":        map[string]any{"type": "array", "items": event},
			"document_type": map[string]any{"type": "string"},
		},
		"required": []string{"events"},
	}
}
