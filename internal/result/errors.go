package result

import (
	"fmt"
	"strings"
)

// ValidationError is returned when a raw result does not match the analysis result schema.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single problem at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	parts := make([]string, 0, len(ve.Errors))
	for _, err := range ve.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return "invalid analysis result: " + strings.Join(parts, "; ")
}

// HasField reports whether any error points at the given field.
func (ve *ValidationError) HasField(field string) bool {
	for _, err := range ve.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

func rootError(message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: rootField, Message: message}}}
}

// SchemaLoadError means the embedded schema itself could not be compiled.
type SchemaLoadError struct {
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load analysis result schema: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load analysis result schema: %s", e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}
