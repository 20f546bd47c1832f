package llm

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var errNoChoices = errors.New("completion returned no choices")

// Client talks to an OpenAI-compatible chat completions API such as Groq,
// OpenAI or a local llama.cpp server.
type Client struct {
	BaseURL    string
	APIKey     string
	Model      string
	MaxRetries uint
	client     *http.Client
}

// NewClient returns a Client for baseURL that uses model when a request names none.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		client:  http.DefaultClient,
	}
}

// WithMaxRetries sets how many times a Retryable failure is retried.
func (c *Client) WithMaxRetries(n uint) *Client {
	c.MaxRetries = n
	return c
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type completionChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (c *Client) endpoint() string {
	return c.BaseURL + "/v1/chat/completions"
}

func (c *Client) request(messages []Message, params ChatParams, stream bool) completionRequest {
	model := params.Model
	if model == "" {
		model = c.Model
	}
	return completionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
		Stream:      stream,
	}
}

// Complete returns the trimmed content of the first choice.
func (c *Client) Complete(ctx context.Context, messages []Message, params ChatParams) (string, error) {
	payload := c.request(messages, params, false)

	var reply string
	err := withRetries(ctx, c.MaxRetries, func() error {
		resp, err := postJSON(ctx, c.client, c.endpoint(), c.APIKey, payload, "application/json")
		if err != nil {
			return err
		}
		var decoded completionResponse
		if err := decodeJSON(resp, &decoded); err != nil {
			return err
		}
		if len(decoded.Choices) == 0 {
			return errNoChoices
		}
		reply = strings.TrimSpace(decoded.Choices[0].Message.Content)
		return nil
	})
	return reply, err
}

// StreamComplete requests a server-sent event stream and hands every non-empty
// content delta to callback. Streams are not retried once started.
func (c *Client) StreamComplete(ctx context.Context, messages []Message, params ChatParams, callback func(chunk string) error) error {
	resp, err := postJSON(ctx, c.client, c.endpoint(), c.APIKey, c.request(messages, params, true), "text/event-stream")
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	return readDeltas(resp.Body, callback)
}

// readDeltas consumes "data:" lines until [DONE], a finish reason or EOF.
// Lines that are not valid chunks are skipped.
func readDeltas(r io.Reader, callback func(chunk string) error) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		data, ok := strings.CutPrefix(scanner.Text(), "data:")
		if !ok {
			continue
		}
		data = strings.TrimSpace(data)
		if data == "[DONE]" {
			return nil
		}

		var chunk completionChunk
		if json.Unmarshal([]byte(data), &chunk) != nil || len(chunk.Choices) == 0 {
			continue
		}
		choice := chunk.Choices[0]
		if choice.Delta.Content != "" {
			if err := callback(choice.Delta.Content); err != nil {
				return fmt.Errorf("stream callback: %w", err)
			}
		}
		if choice.FinishReason != "" {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return nil
}
