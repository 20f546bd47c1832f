package handlers

import (
	"net/http"

	"notebook-ai/internal/contextutil"
	"notebook-ai/internal/notebook"
	"notebook-ai/internal/service"
)

// ChatHandler serves stateless chat over the sources sent with each request.
type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// SourcePayload is a source as sent by clients. Fields other than title and content are ignored.
type SourcePayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ChatRequest represents the HTTP request payload for chat.
type ChatRequest struct {
	Query   string          `json:"query" validate:"notblank"`
	Sources []SourcePayload `json:"sources"`
	Model   string          `json:"model"`
}

// ChatResponse represents the HTTP response payload for chat.
type ChatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

// ServeHTTP answers POST /api/chat. With ?stream=true the reply is sent as
// server-sent events instead of a single JSON body.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
	if msg, ok := decodeJSON(w, r, &req); !ok {
		logger.WarnContext(ctx, "rejected chat request", "reason", msg)
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	chat := service.ChatRequest{Query: req.Query, Sources: toSources(req.Sources), Model: req.Model}

	if r.URL.Query().Get("stream") == "true" {
		h.stream(w, r, chat)
		return
	}

	resp, err := h.chatService.ProcessChat(ctx, chat)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to process chat request")
		return
	}
	writeJSON(ctx, w, http.StatusOK, ChatResponse{Success: true, Response: resp.Reply})
}

// stream relays chunks as they arrive. Once the first event is written the
// status is fixed at 200, so a failure is reported as an error event.
func (h *ChatHandler) stream(w http.ResponseWriter, r *http.Request, chat service.ChatRequest) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	events, err := newEventStream(w)
	if err != nil {
		logger.ErrorContext(ctx, "cannot stream chat", "error", err)
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	err = h.chatService.StreamChat(ctx, chat, func(chunk string) error {
		return events.send("", chunk)
	})
	if err != nil {
		logger.ErrorContext(ctx, "chat stream ended with error", "error", err)
		_ = events.send("error", FailureResponse{Success: false, Error: err.Error()})
		return
	}
	events.done()
}

func toSources(payloads []SourcePayload) []notebook.Source {
	sources := make([]notebook.Source, len(payloads))
	for i, p := range payloads {
		sources[i] = notebook.Source{Title: p.Title, Content: p.Content}
	}
	return sources
}
