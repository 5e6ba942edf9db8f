// Package analyzer is the client of the resume analysis service.
package analyzer

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultURL     = "http://localhost:8000"
	DefaultTimeout = 60 * time.Second
	userAgent      = "spigell/resume-scorecard"

	analyzePath = "/analyze"
	healthPath  = "/health"

	requestIDHeader = "X-Request-ID"
	// Response bodies are cut to this many characters in debug logs.
	previewLimit = 512
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	URL       string
	Timeout   time.Duration
	Token     string
	UserAgent string
}

type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(logger *zap.Logger, opts Options) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	apiURL := strings.TrimRight(strings.TrimSpace(opts.URL), "/")
	if apiURL == "" {
		apiURL = DefaultURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	agent := strings.TrimSpace(opts.UserAgent)
	if agent == "" {
		agent = userAgent
	}

	return &Client{
		token:  strings.TrimSpace(opts.Token),
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		UserAgent: agent,
		APIURL:    apiURL,
	}
}

type requestIDKey struct{}

// WithRequestID attaches id to ctx. The client sends it as the X-Request-ID header.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
