package presentation

import (
	"errors"

	"github.com/spigell/resume-scorecard/internal/analyzer"
	"github.com/spigell/resume-scorecard/internal/result"
)

const defaultFailureMessage = "Failed to analyze resume"

type FailureKind string

const (
	FailureValidation FailureKind = "validation"
	FailureTransport  FailureKind = "transport"
	FailureService    FailureKind = "service"
	FailureInternal   FailureKind = "internal"
)

// Failure is the error surfaced to the user after a failed submission.
type Failure struct {
	Kind       FailureKind
	Message    string
	StatusCode int
}

func classify(err error) Failure {
	var (
		serviceErr    *analyzer.ServiceError
		transportErr  *analyzer.TransportError
		validationErr *result.ValidationError
	)

	switch {
	case errors.As(err, &serviceErr):
		return Failure{Kind: FailureService, Message: serviceErr.Error(), StatusCode: serviceErr.StatusCode}
	case errors.As(err, &transportErr):
		return Failure{Kind: FailureTransport, Message: transportErr.Error()}
	case errors.As(err, &validationErr):
		return Failure{Kind: FailureValidation, Message: validationErr.Error()}
	case err != nil && err.Error() != "":
		return Failure{Kind: FailureInternal, Message: err.Error()}
	default:
		return Failure{Kind: FailureInternal, Message: defaultFailureMessage}
	}
}
