package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"notebook-ai/internal/contextutil"
	"notebook-ai/internal/notebook"
	"notebook-ai/internal/service"
	"notebook-ai/internal/sources"
)

// NotebookHandler serves the notebook persistence API.
type NotebookHandler struct {
	notebooks service.NotebookService
	page      *ReportPageHandler
}

// NewNotebookHandler creates a new NotebookHandler.
func NewNotebookHandler(notebooks service.NotebookService) *NotebookHandler {
	return &NotebookHandler{
		notebooks: notebooks,
		page:      NewReportPageHandler(notebooks),
	}
}

// CreateNotebookRequest is the payload for creating a notebook. Both fields are optional.
type CreateNotebookRequest struct {
	Title string `json:"title"`
	Emoji string `json:"emoji"`
}

// AddSourceRequest is the payload for attaching pasted or fetched content.
type AddSourceRequest struct {
	Title   string `json:"title" validate:"notblank"`
	Type    string `json:"type" validate:"omitempty,oneof=pdf text link youtube file"`
	Content string `json:"content" validate:"notblank"`
}

// AppendMessageRequest is the payload for appending to a transcript.
type AppendMessageRequest struct {
	Role    string `json:"role" validate:"oneof=user assistant"`
	Content string `json:"content" validate:"notblank"`
}

// NotebookChatRequest is the payload for a server-side notebook conversation turn.
type NotebookChatRequest struct {
	Query string `json:"query" validate:"notblank"`
	Model string `json:"model"`
}

// NotebookChatResponse carries the assistant message appended to the transcript.
type NotebookChatResponse struct {
	Success bool                 `json:"success"`
	Message notebook.ChatMessage `json:"message"`
}

// GenerateReportRequest is the payload for generating a persisted report.
type GenerateReportRequest struct {
	Model string `json:"model"`
}

// Routes registers the notebook endpoints on r.
func (h *NotebookHandler) Routes(r chi.Router) {
	r.Post("/", h.CreateNotebook)
	r.Get("/", h.ListNotebooks)
	r.Route("/{notebookID}", func(r chi.Router) {
		r.Use(notebookLogger)
		r.Get("/", h.GetNotebook)
		r.Get("/sources", h.ListSources)
		r.Post("/sources", h.AddSource)
		r.Post("/sources/upload", h.UploadSource)
		r.Get("/messages", h.ListMessages)
		r.Post("/messages", h.AppendMessage)
		r.Post("/chat", h.Chat)
		r.Post("/reports", h.GenerateReport)
		r.Get("/reports/{reportID}", h.GetReport)
		r.Method(http.MethodGet, "/reports/{reportID}/html", h.page)
	})
}

// notebookLogger tags every log line of a notebook route with its ID.
func notebookLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := contextutil.WithAttrs(r.Context(), "notebook_id", chi.URLParam(r, "notebookID"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CreateNotebook handles POST /api/notebooks.
func (h *NotebookHandler) CreateNotebook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateNotebookRequest
	if r.ContentLength != 0 {
		if msg, ok := decodeJSON(w, r, &req); !ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
	}

	nb, err := h.notebooks.CreateNotebook(ctx, notebook.NotebookDraft{Title: req.Title, Emoji: req.Emoji})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to create notebook")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, nb)
}

// ListNotebooks handles GET /api/notebooks.
func (h *NotebookHandler) ListNotebooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := h.notebooks.ListNotebooks(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list notebooks")
		return
	}
	writeJSON(ctx, w, http.StatusOK, list)
}

// GetNotebook handles GET /api/notebooks/{notebookID}.
func (h *NotebookHandler) GetNotebook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	nb, err := h.notebooks.GetNotebook(ctx, chi.URLParam(r, "notebookID"))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to get notebook")
		return
	}
	writeJSON(ctx, w, http.StatusOK, nb)
}

// AddSource handles POST /api/notebooks/{notebookID}/sources.
func (h *NotebookHandler) AddSource(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AddSourceRequest
	if msg, ok := decodeJSON(w, r, &req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	draft := notebook.SourceDraft{Title: req.Title, Type: notebook.SourceType(req.Type), Content: req.Content}
	if draft.Type == "" {
		draft.Type = notebook.SourceTypeText
	}

	src, err := h.notebooks.AddSource(ctx, chi.URLParam(r, "notebookID"), draft)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to add source")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, src)
}

// UploadSource handles POST /api/notebooks/{notebookID}/sources/upload with a multipart "file" field.
func (h *NotebookHandler) UploadSource(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, sources.MaxUploadBytes+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		logger.WarnContext(ctx, "invalid upload", "error", err)
		writeError(w, http.StatusBadRequest, "A file field is required")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	draft, err := sources.Read(header.Filename, file)
	if err != nil {
		logger.WarnContext(ctx, "unreadable upload", "filename", header.Filename, "error", err)
		switch {
		case errors.Is(err, sources.ErrTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	src, err := h.notebooks.AddSource(ctx, chi.URLParam(r, "notebookID"), draft)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to add source")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, src)
}

// ListSources handles GET /api/notebooks/{notebookID}/sources.
func (h *NotebookHandler) ListSources(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := h.notebooks.ListSources(ctx, chi.URLParam(r, "notebookID"))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list sources")
		return
	}
	writeJSON(ctx, w, http.StatusOK, list)
}

// AppendMessage handles POST /api/notebooks/{notebookID}/messages.
func (h *NotebookHandler) AppendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AppendMessageRequest
	if msg, ok := decodeJSON(w, r, &req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	msg, err := h.notebooks.AppendMessage(ctx, chi.URLParam(r, "notebookID"), notebook.MessageDraft{
		Role:    notebook.Role(req.Role),
		Content: req.Content,
	})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to append message")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, msg)
}

// ListMessages handles GET /api/notebooks/{notebookID}/messages.
func (h *NotebookHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := h.notebooks.ListMessages(ctx, chi.URLParam(r, "notebookID"))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list messages")
		return
	}
	writeJSON(ctx, w, http.StatusOK, list)
}

// Chat handles POST /api/notebooks/{notebookID}/chat.
func (h *NotebookHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req NotebookChatRequest
	if msg, ok := decodeJSON(w, r, &req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	reply, err := h.notebooks.Chat(ctx, chi.URLParam(r, "notebookID"), req.Query, req.Model)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to process chat request")
		return
	}
	writeJSON(ctx, w, http.StatusOK, NotebookChatResponse{Success: true, Message: reply})
}

// GenerateReport handles POST /api/notebooks/{notebookID}/reports.
func (h *NotebookHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req GenerateReportRequest
	if r.ContentLength != 0 {
		if msg, ok := decodeJSON(w, r, &req); !ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
	}

	rep, err := h.notebooks.GenerateReport(ctx, chi.URLParam(r, "notebookID"), req.Model)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to generate report")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, rep)
}

// GetReport handles GET /api/notebooks/{notebookID}/reports/{reportID}.
func (h *NotebookHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rep, err := h.notebooks.GetReport(ctx, chi.URLParam(r, "notebookID"), chi.URLParam(r, "reportID"))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to get report")
		return
	}
	writeJSON(ctx, w, http.StatusOK, rep)
}
