// Package schemas provides JSON Schema validation for the loosely-typed
// payloads the generation backend returns. Schemas are embedded at compile
// time; validation runs before field-by-field coercion so shape problems are
// reported with field paths instead of surfacing as silent zero values.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed requirements.schema.json
var requirementsSchema string

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// ValidationError represents a schema validation failure with field paths
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateRequirements checks an extractor response against the
// ExtractedRequirements schema. It returns *ValidationError when the document
// parses as JSON but violates the schema, and a plain error when the document
// is not JSON at all.
func ValidateRequirements(jsonText string) error {
	schemaLoader := gojsonschema.NewStringLoader(requirementsSchema)
	documentLoader := gojsonschema.NewStringLoader(jsonText)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return ve
}
