package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// DefaultEmbeddingBatchSize bounds how many texts go into one embeddings request.
const DefaultEmbeddingBatchSize = 32

// Embedder turns texts into vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbeddingsClient is a client for OpenAI-compatible embeddings APIs.
type EmbeddingsClient struct {
	BaseURL      string
	APIKey       string
	Model        string
	ExpectedSize int // vector size configured for the collection
	BatchSize    int
	MaxRetries   uint
	client       *http.Client
}

// NewEmbeddingsClient creates a new embeddings client.
// All embeddings returned by EmbedTexts are validated against expectedSize.
func NewEmbeddingsClient(baseURL, apiKey, model string, expectedSize int) *EmbeddingsClient {
	return &EmbeddingsClient{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		APIKey:       apiKey,
		Model:        model,
		ExpectedSize: expectedSize,
		BatchSize:    DefaultEmbeddingBatchSize,
		client:       http.DefaultClient,
	}
}

// EmbeddingsRequest represents the request payload for embeddings API.
type EmbeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// EmbeddingData represents a single embedding in the response.
type EmbeddingData struct {
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}

// EmbeddingsResponse represents the response from the embeddings API.
type EmbeddingsResponse struct {
	Data []EmbeddingData `json:"data"`
}

// EmbedTexts generates embeddings for the given texts, one vector per input, in input order.
// Inputs larger than BatchSize are split across several requests.
func (c *EmbeddingsClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty input array")
	}

	batch := c.BatchSize
	if batch <= 0 {
		batch = DefaultEmbeddingBatchSize
	}

	result := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batch {
		end := min(start+batch, len(texts))

		var vectors [][]float32
		err := withRetries(ctx, c.MaxRetries, func() error {
			var err error
			vectors, err = c.embedBatch(ctx, texts[start:end])
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
		result = append(result, vectors...)
	}

	return result, nil
}

func (c *EmbeddingsClient) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := postJSON(ctx, c.client, c.BaseURL+"/v1/embeddings", c.APIKey, EmbeddingsRequest{Model: c.Model, Input: texts}, "application/json")
	if err != nil {
		return nil, err
	}
	var decoded EmbeddingsResponse
	if err := decodeJSON(resp, &decoded); err != nil {
		return nil, err
	}
	return c.vectors(decoded, len(texts))
}

// vectors places each embedding at its reported index and checks its dimension.
func (c *EmbeddingsClient) vectors(resp EmbeddingsResponse, want int) ([][]float32, error) {
	if len(resp.Data) != want {
		return nil, fmt.Errorf("expected %d embeddings, got %d", want, len(resp.Data))
	}

	result := make([][]float32, want)
	for _, data := range resp.Data {
		if data.Index < 0 || data.Index >= want || result[data.Index] != nil {
			return nil, fmt.Errorf("embedding index %d out of range or repeated", data.Index)
		}
		if len(data.Embedding) != c.ExpectedSize {
			return nil, fmt.Errorf("embedding %d has size %d, expected %d", data.Index, len(data.Embedding), c.ExpectedSize)
		}
		vec := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vec[j] = float32(v)
		}
		result[data.Index] = vec
	}
	return result, nil
}
