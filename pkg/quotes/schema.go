package quotes

import (
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// payloadSchema is the JSON schema every successful step payload must match:
// an array of objects each carrying a non-empty quote and a source string.
const payloadSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["quote", "source"],
		"properties": {
			"quote": {"type": "string", "minLength": 1},
			"source": {"type": "string"}
		}
	}
}`

// ValidatePayload validates response bytes against the quote list schema.
func ValidatePayload(payload []byte) error {
	if len(payload) == 0 {
		return errors.New("empty payload")
	}

	schemaLoader := gojsonschema.NewStringLoader(payloadSchema)
	documentLoader := gojsonschema.NewBytesLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		// Collect all validation errors into one message
		var errMsg string
		for i, desc := range result.Errors() {
			if i > 0 {
				errMsg += "; "
			}
			errMsg += desc.String()
		}
		return fmt.Errorf("invalid payload: %s", errMsg)
	}

	return nil
}
