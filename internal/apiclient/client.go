// Package apiclient talks to the notebook backend's chat and report endpoints.
package apiclient

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_backend.go -package=mocks -mock_names=Backend=MockBackend notebook-ai/internal/apiclient Backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"resty.dev/v3"

	"notebook-ai/internal/contextutil"
	"notebook-ai/internal/notebook"
)

// ErrRequestFailed is returned when the backend answers with success=false or an error status.
var ErrRequestFailed = errors.New("backend request failed")

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Query   string            `json:"query"`
	Sources []notebook.Source `json:"sources"`
	Model   string            `json:"model"`
}

// ReportRequest is the body of POST /api/generate-report.
type ReportRequest struct {
	Topic string `json:"topic"`
	Model string `json:"model"`
	Mode  string `json:"mode,omitempty"`
}

// envelope covers both endpoints' success and failure bodies.
type envelope struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
	Report   string `json:"report"`
	Error    string `json:"error"`
}

// Backend is the subset of the backend API used by notebook sessions.
type Backend interface {
	// Chat returns the assistant's answer for the request.
	Chat(ctx context.Context, req ChatRequest) (string, error)
	// GenerateReport returns the raw report text for the request.
	GenerateReport(ctx context.Context, req ReportRequest) (string, error)
}

// Client is a resty-backed Backend.
type Client struct {
	httpClient *resty.Client
}

// New creates a client for the backend at baseURL. A zero timeout means none.
func New(baseURL string, timeout time.Duration) *Client {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &Client{httpClient: client}
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	return c.httpClient.Close()
}

// Chat posts to /api/chat.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if req.Sources == nil {
		req.Sources = []notebook.Source{}
	}
	body, err := c.post(ctx, "/api/chat", req)
	if err != nil {
		return "", err
	}
	return body.Response, nil
}

// GenerateReport posts to /api/generate-report.
func (c *Client) GenerateReport(ctx context.Context, req ReportRequest) (string, error) {
	body, err := c.post(ctx, "/api/generate-report", req)
	if err != nil {
		return "", err
	}
	return body.Report, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*envelope, error) {
	logger := contextutil.LoggerFromContext(ctx)
	start := time.Now()

	response, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&envelope{}).
		SetError(&envelope{}).
		Post(path)
	if err != nil {
		logger.ErrorContext(ctx, "backend request failed", "path", path, "error", err)
		return nil, fmt.Errorf("post %s: %w", path, err)
	}

	logger.DebugContext(ctx, "backend response",
		"path", path,
		"status", response.StatusCode(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if response.IsError() {
		msg := response.String()
		if failure, ok := response.Error().(*envelope); ok && failure != nil && failure.Error != "" {
			msg = failure.Error
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrRequestFailed, response.StatusCode(), msg)
	}

	body, ok := response.Result().(*envelope)
	if !ok || body == nil || !body.Success {
		msg := response.String()
		if ok && body != nil && body.Error != "" {
			msg = body.Error
		}
		return nil, fmt.Errorf("%w: %s", ErrRequestFailed, msg)
	}
	return body, nil
}
