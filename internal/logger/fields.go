package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldSubmission is the structured log field key for the submission id.
	FieldSubmission = "submission_id"
	// FieldPhase is the structured log field key for the presenter phase.
	FieldPhase = "phase"
	// FieldStage is the structured log field key for a render stage name.
	FieldStage = "stage"
	// FieldServiceURL is the structured log field key for the analysis service base URL.
	FieldServiceURL = "service_url"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields, dropping entries whose key or value is blank.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to the logger, falling back to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// SubmissionFields describes one analysis request. Empty values are skipped.
func SubmissionFields(submissionID, serviceURL string) []zap.Field {
	return StringFields(
		StringField{Key: FieldSubmission, Value: submissionID},
		StringField{Key: FieldServiceURL, Value: serviceURL},
	)
}

// WithSubmission attaches the submission fields to the logger.
func WithSubmission(logger *zap.Logger, submissionID, serviceURL string) *zap.Logger {
	return WithFields(logger, SubmissionFields(submissionID, serviceURL)...)
}
