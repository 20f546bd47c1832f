package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/avast/retry-go"
)

// maxErrorBody caps how much of a failed response is kept in a StatusError.
const maxErrorBody = 4 << 10

// StatusError is returned when the API answers with a non-200 status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status %d: %s", e.Code, e.Body)
}

type transportError struct{ err error }

func (e *transportError) Error() string { return "send request: " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// Retryable reports whether err is worth another attempt: a 429, a 5xx or a
// failed round trip. Context cancellation never is.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusTooManyRequests || statusErr.Code >= http.StatusInternalServerError
	}
	var te *transportError
	return errors.As(err, &te)
}

// withRetries runs attempt once plus up to retries more times while it fails
// with a Retryable error, backing off between attempts.
func withRetries(ctx context.Context, retries uint, attempt func() error) error {
	return retry.Do(attempt,
		retry.Context(ctx),
		retry.Attempts(retries+1),
		retry.RetryIf(Retryable),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

// postJSON sends payload to url with bearer auth. A non-200 response is closed
// and returned as a *StatusError; the caller owns the body of a 200.
func postJSON(ctx context.Context, hc *http.Client, url, apiKey string, payload any, accept string) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := hc.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &transportError{err: err}
	}
	if resp.StatusCode == http.StatusOK {
		return resp, nil
	}

	defer func() {
		_ = resp.Body.Close()
	}()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return nil, &StatusError{Code: resp.StatusCode, Body: string(raw)}
}

// decodeJSON reads a 200 response into out and closes the body.
func decodeJSON(resp *http.Response, out any) error {
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
