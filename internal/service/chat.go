package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks notebook-ai/internal/service LLMClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_retriever.go -package=mocks notebook-ai/internal/service Retriever
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService notebook-ai/internal/service ChatService

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"notebook-ai/internal/contextutil"
	"notebook-ai/internal/llm"
	"notebook-ai/internal/notebook"
)

const (
	// DefaultModel is used when a request does not name a model.
	DefaultModel = "llama-3.1-70b-versatile"

	untitledSource  = "Untitled"
	chatTemperature = 0.5
	chatMaxTokens   = 2000
)

// LLMClient is the completion API the services need.
type LLMClient interface {
	llm.Completer
	// StreamComplete delivers the reply to callback chunk by chunk.
	StreamComplete(ctx context.Context, messages []llm.Message, params llm.ChatParams, callback func(chunk string) error) error
}

// Retriever narrows a notebook's sources to the passages relevant to a query.
type Retriever interface {
	Narrow(ctx context.Context, query string, sources []notebook.Source) ([]notebook.Source, error)
}

// ChatRequest represents a chat request in the domain layer.
type ChatRequest struct {
	Query   string `validate:"required"`
	Sources []notebook.Source
	Model   string
}

// ChatResponse represents a chat response in the domain layer.
type ChatResponse struct {
	Reply string
}

// ChatService answers questions grounded in a set of sources.
type ChatService interface {
	// ProcessChat processes a chat request and returns a response.
	ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error)
	// StreamChat processes a chat request and streams the response via callback.
	StreamChat(ctx context.Context, req ChatRequest, callback func(chunk string) error) error
}

// chatService implements ChatService.
type chatService struct {
	llmClient    LLMClient
	retriever    Retriever
	defaultModel string
}

// ChatOption configures a ChatService.
type ChatOption func(*chatService)

// WithRetriever narrows sources through r before building the prompt.
func WithRetriever(r Retriever) ChatOption {
	return func(s *chatService) {
		s.retriever = r
	}
}

// WithDefaultModel overrides DefaultModel.
func WithDefaultModel(model string) ChatOption {
	return func(s *chatService) {
		if model != "" {
			s.defaultModel = model
		}
	}
}

// NewChatService creates a new ChatService.
func NewChatService(llmClient LLMClient, opts ...ChatOption) ChatService {
	s := &chatService{
		llmClient:    llmClient,
		defaultModel: DefaultModel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessChat answers req.Query in a single completion.
func (s *chatService) ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	turn, err := s.prepare(ctx, req)
	if err != nil {
		return ChatResponse{}, err
	}

	reply, err := s.llmClient.Complete(ctx, turn.messages, turn.params)
	if err != nil {
		turn.logger.ErrorContext(ctx, "chat completion failed", "error", err)
		return ChatResponse{}, externalError(err, "failed to get LLM response")
	}

	turn.logger.InfoContext(ctx, "chat answered", "reply_length", len(reply))
	return ChatResponse{Reply: reply}, nil
}

// StreamChat answers req.Query, passing the reply to callback as it arrives.
func (s *chatService) StreamChat(ctx context.Context, req ChatRequest, callback func(chunk string) error) error {
	turn, err := s.prepare(ctx, req)
	if err != nil {
		return err
	}

	var streamed int
	err = s.llmClient.StreamComplete(ctx, turn.messages, turn.params, func(chunk string) error {
		streamed += len(chunk)
		return callback(chunk)
	})
	if err != nil {
		turn.logger.ErrorContext(ctx, "chat stream failed", "error", err, "streamed", streamed)
		return externalError(err, "failed to stream LLM response")
	}

	turn.logger.InfoContext(ctx, "chat streamed", "reply_length", streamed)
	return nil
}

// chatTurn is a validated request turned into a completion call.
type chatTurn struct {
	messages []llm.Message
	params   llm.ChatParams
	logger   *slog.Logger
}

func (s *chatService) prepare(ctx context.Context, req ChatRequest) (chatTurn, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(req.Query) == "" {
		return chatTurn{}, invalid("query", "Query is required")
	}

	sources := req.Sources
	if s.retriever != nil && len(sources) > 0 {
		if narrowed, err := s.retriever.Narrow(ctx, req.Query, sources); err != nil {
			logger.WarnContext(ctx, "source retrieval failed, using full sources", "error", err)
		} else {
			sources = narrowed
		}
	}

	model := cmp.Or(req.Model, s.defaultModel)
	return chatTurn{
		messages: []llm.Message{llm.System(ChatSystemPrompt(sources)), llm.User(req.Query)},
		params:   llm.ChatParams{Model: model, Temperature: chatTemperature, MaxTokens: chatMaxTokens},
		logger:   logger.With("model", model, "query_length", len(req.Query), "sources", len(sources)),
	}, nil
}

// ChatSystemPrompt numbers the sources into the grounding prompt. Sources
// without a title are labelled Untitled.
func ChatSystemPrompt(sources []notebook.Source) string {
	var b strings.Builder
	b.WriteString("You are an AI assistant helping users understand their sources.\n")
	b.WriteString("Answer questions based on the following sources:\n\n")
	for i, src := range sources {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Source %d (%s):\n%s", i+1, cmp.Or(src.Title, untitledSource), src.Content)
	}
	b.WriteString("\n\nProvide accurate, helpful answers based on the information in the sources.")
	return b.String()
}
