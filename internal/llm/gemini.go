package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	DefaultGeminiModel          = "gemini-1.5-flash-latest"
	DefaultGeminiEmbeddingModel = "text-embedding-004"

	geminiRoleUser  = "user"
	geminiRoleModel = "model"
)

// ErrEmptyCompletion is returned when the provider answers without any text.
var ErrEmptyCompletion = errors.New("empty completion")

// GeminiClient implements Completer and Embedder on top of the Gemini API.
type GeminiClient struct {
	client         *genai.Client
	Model          string
	EmbeddingModel string
}

// NewGeminiClient creates a Gemini client authenticated with apiKey.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{
		client:         client,
		Model:          model,
		EmbeddingModel: DefaultGeminiEmbeddingModel,
	}, nil
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// Complete runs the conversation as a chat session. System messages become the
// system instruction; earlier turns become history and the final user turn is sent.
func (c *GeminiClient) Complete(ctx context.Context, messages []Message, params ChatParams) (string, error) {
	system, history, last, err := splitForGemini(messages)
	if err != nil {
		return "", err
	}

	name := params.Model
	if name == "" || !strings.HasPrefix(name, "gemini") {
		name = c.Model
	}
	model := c.client.GenerativeModel(name)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if params.Temperature > 0 {
		model.SetTemperature(params.Temperature)
	}
	if params.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(params.MaxTokens))
	}

	session := model.StartChat()
	session.History = history

	resp, err := session.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return "", fmt.Errorf("gemini SendMessage failed: %w", err)
	}
	return geminiText(resp)
}

// EmbedTexts embeds each text with the configured embedding model.
func (c *GeminiClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty input array")
	}

	em := c.client.EmbeddingModel(c.EmbeddingModel)
	batch := em.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	res, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("gemini embedding request failed: %w", err)
	}
	if len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(res.Embeddings))
	}

	out := make([][]float32, len(res.Embeddings))
	for i, e := range res.Embeddings {
		if e == nil || len(e.Values) == 0 {
			return nil, fmt.Errorf("embedding %d is empty", i)
		}
		out[i] = e.Values
	}
	return out, nil
}

func splitForGemini(messages []Message) (system string, history []*genai.Content, last string, err error) {
	var systemParts []string
	var turns []Message
	for _, m := range messages {
		if m.Role == RoleSystem {
			systemParts = append(systemParts, m.Content)
			continue
		}
		turns = append(turns, m)
	}

	if len(turns) == 0 || turns[len(turns)-1].Role != RoleUser {
		return "", nil, "", fmt.Errorf("conversation must end with a user message")
	}

	for _, m := range turns[:len(turns)-1] {
		role := geminiRoleUser
		if m.Role == RoleAssistant {
			role = geminiRoleModel
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	return strings.Join(systemParts, "\n\n"), history, turns[len(turns)-1].Content, nil
}

func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyCompletion
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	if text.Len() == 0 {
		return "", ErrEmptyCompletion
	}
	return strings.TrimSpace(text.String()), nil
}
