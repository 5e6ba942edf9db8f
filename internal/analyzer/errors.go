package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// DefaultErrorMessage is used when the service fails without a usable detail.
const DefaultErrorMessage = "Failed to analyze resume"

// ServiceError is a non-2xx response. Detail is the message reported by the service.
type ServiceError struct {
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	return e.Detail
}

// TransportError means the request never produced a response.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%v. Make sure the analysis service is running at %s (run with --debug for details)", e.Err, e.URL)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type errorBody struct {
	Detail any `json:"detail"`
}

// validationIssue is one entry of a FastAPI validation error list.
type validationIssue struct {
	Loc  []any  `mapstructure:"loc"`
	Msg  string `mapstructure:"msg"`
	Type string `mapstructure:"type"`
}

// detailMessage extracts the service message from an error body. It returns an empty string when the
// body carries no usable detail.
func detailMessage(body []byte) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}

	switch detail := parsed.Detail.(type) {
	case string:
		if strings.TrimSpace(detail) == "" {
			return ""
		}
		return detail
	case []any:
		var issues []validationIssue
		if err := mapstructure.Decode(detail, &issues); err != nil {
			return ""
		}
		return joinIssues(issues)
	case map[string]any:
		var issue validationIssue
		if err := mapstructure.Decode(detail, &issue); err != nil {
			return ""
		}
		return joinIssues([]validationIssue{issue})
	default:
		return ""
	}
}

func joinIssues(issues []validationIssue) string {
	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		msg := strings.TrimSpace(issue.Msg)
		if msg == "" {
			continue
		}

		loc := make([]string, 0, len(issue.Loc))
		for _, part := range issue.Loc {
			loc = append(loc, fmt.Sprint(part))
		}
		if len(loc) > 0 {
			msg = strings.Join(loc, ".") + ": " + msg
		}
		messages = append(messages, msg)
	}
	return strings.Join(messages, "; ")
}

func newServiceError(status int, body []byte) *ServiceError {
	detail := detailMessage(body)
	if detail == "" {
		detail = DefaultErrorMessage
	}
	return &ServiceError{StatusCode: status, Detail: detail}
}
