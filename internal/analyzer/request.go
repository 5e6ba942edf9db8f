package analyzer

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-scorecard/internal/logger"
	"github.com/spigell/resume-scorecard/internal/result"
	"github.com/spigell/resume-scorecard/internal/upload"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
	resumeMIMEType  = "application/pdf"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Analyze posts the submission to /analyze and validates the returned result.
func (c *Client) Analyze(ctx context.Context, sub upload.Submission) (*result.AnalysisResult, error) {
	body, formType, err := encodeSubmission(sub)
	if err != nil {
		return nil, fmt.Errorf("encoding submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL+analyzePath, body)
	if err != nil {
		return nil, err
	}
	req = c.setHeaders(ctx, req)
	req.Header.Set("Content-Type", formType)

	status, data, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, newServiceError(status, data)
	}

	res, err := result.Validate(data)
	if err != nil {
		return nil, fmt.Errorf("decoding analysis result: %w", err)
	}

	logger.WithSubmission(c.logger, RequestID(ctx), c.APIURL).Debug("analysis result received",
		zap.Float64("overall_score", res.OverallScore),
		zap.Int("matched_keywords", res.MatchedKeywordsCount),
		zap.Int("missing_keywords", res.MissingKeywordsCount),
	)
	return res, nil
}

// HealthStatus is the /health response.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+healthPath, nil)
	if err != nil {
		return nil, err
	}
	req = c.setHeaders(ctx, req)
	req.Header.Set("Content-Type", contentType)

	status, data, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, newServiceError(status, data)
	}

	var health HealthStatus
	if err := json.Unmarshal(data, &health); err != nil {
		return nil, fmt.Errorf("decoding health response: %w", err)
	}
	return &health, nil
}

func encodeSubmission(sub upload.Submission) (io.Reader, string, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="resume"; filename="%s"`, quoteEscaper.Replace(sub.FileName)))
	header.Set("Content-Type", resumeMIMEType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(sub.Data); err != nil {
		return nil, "", err
	}

	field, err := w.CreateFormField("job_description")
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(field, strings.NewReader(sub.JobDescription)); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &b, w.FormDataContentType(), nil
}

// do sends req and returns the status with the decoded body. Failures before a complete response
// are TransportErrors.
func (c *Client) do(req *http.Request) (int, []byte, error) {
	c.logger.Debug("make request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("request_id", req.Header.Get(requestIDHeader)),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, &TransportError{URL: c.APIURL, Err: err}
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == contentEncoding {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return 0, nil, &TransportError{URL: c.APIURL, Err: fmt.Errorf("decoding gzip body: %w", err)}
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return 0, nil, &TransportError{URL: c.APIURL, Err: fmt.Errorf("reading response: %w", err)}
	}

	c.logger.Debug("got response",
		zap.Int("status", resp.StatusCode),
		zap.String("body", logger.TruncateForLog(string(data), previewLimit)),
	)
	return resp.StatusCode, data, nil
}

func (c *Client) setHeaders(ctx context.Context, req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
	if id := RequestID(ctx); id != "" {
		req.Header.Set(requestIDHeader, id)
	}

	return req
}
