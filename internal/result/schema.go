package result

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	_ "embed"

	"github.com/xeipuuv/gojsonschema"
)

const rootField = "(root)"

//go:embed schema/analysis_result.json
var schemaJSON string

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, &SchemaLoadError{Message: "compile embedded schema", Cause: err}
	}
	return schema, nil
})

// Validate checks raw against the analysis result schema and decodes it.
// The three scores are required and must be within [0,100]; every other field is optional.
func Validate(raw []byte) (*AnalysisResult, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, rootError("empty analysis result")
	}

	if !json.Valid(raw) {
		return nil, rootError("malformed JSON")
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, err
	}

	res, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, rootError(err.Error())
	}

	if !res.Valid() {
		validationErr := &ValidationError{
			Errors: make([]FieldError, 0, len(res.Errors())),
		}
		for _, desc := range res.Errors() {
			validationErr.Errors = append(validationErr.Errors, FieldError{
				Field:   fieldOf(desc),
				Message: desc.Description(),
			})
		}
		return nil, validationErr
	}

	var out AnalysisResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, rootError(err.Error())
	}

	return &out, nil
}

// ReadFile loads and validates a saved service response.
func ReadFile(path string) (*AnalysisResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading analysis result %q: %w", path, err)
	}

	return Validate(data)
}

// fieldOf points required-property errors at the missing property rather than its parent.
func fieldOf(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if desc.Type() != "required" {
		return field
	}

	property, ok := desc.Details()["property"].(string)
	if !ok || property == "" {
		return field
	}
	if field == "" || field == rootField {
		return property
	}
	return field + "." + property
}
