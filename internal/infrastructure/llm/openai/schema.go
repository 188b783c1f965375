package openai

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// correctionSchema constrains the correction-stage model output before it is
// trusted by the pipeline.
const correctionSchema = `{
	"type": "object",
	"required": ["corrected_text", "confidence"],
	"properties": {
		"corrected_text": {"type": "string"},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1},
		"corrections": {"type": "array", "items": {"type": "string"}}
	}
}`

var compileCorrectionSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("correction.json", strings.NewReader(correctionSchema)); err != nil {
		return nil, fmt.Errorf("add correction schema: %w", err)
	}
	return compiler.Compile("correction.json")
})

func validateCorrectionPayload(data []byte) error {
	schema, err := compileCorrectionSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal correction payload: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("correction payload does not match schema: %w", err)
	}
	return nil
}
