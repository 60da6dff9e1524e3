package conversation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Model output is untrusted input. Every reply is validated against an
// explicit schema before it is unmarshalled into a typed value.

const intentSchemaJSON = `{
	"type": "object",
	"properties": {
		"type": {
			"type": "string",
			"enum": [
				"booking_request", "reschedule", "cancellation", "status_inquiry",
				"confirmation", "clarification_needed", "multi_service", "general"
			]
		},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1}
	},
	"required": ["type", "confidence"]
}`

const extractionSchemaJSON = `{
	"type": "object",
	"properties": {
		"service":  {"type": ["string", "null"]},
		"date":     {"type": ["string", "null"]},
		"time":     {"type": ["string", "null"]},
		"location": {"type": ["string", "null"]}
	},
	"required": ["service"]
}`

var (
	intentSchema     = gojsonschema.NewStringLoader(intentSchemaJSON)
	extractionSchema = gojsonschema.NewStringLoader(extractionSchemaJSON)
)

func validateAgainst(schema gojsonschema.JSONLoader, raw string) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		return fmt.Errorf("model output does not match schema: %v", result.Errors())
	}
	return nil
}
