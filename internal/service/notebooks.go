package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_notebook_service.go -package=mocks -mock_names=NotebookService=MockNotebookService notebook-ai/internal/service NotebookService

import (
	"context"
	"strings"

	"notebook-ai/internal/contextutil"
	"notebook-ai/internal/metrics"
	"notebook-ai/internal/notebook"
	"notebook-ai/internal/study"
)

const reportTopicPreamble = "Write a briefing document that covers the key points of the following sources:\n\n"

// NotebookService exposes notebook persistence plus the chat and report flows bound to a stored notebook.
type NotebookService interface {
	CreateNotebook(ctx context.Context, draft notebook.NotebookDraft) (notebook.Notebook, error)
	ListNotebooks(ctx context.Context) ([]notebook.Notebook, error)
	GetNotebook(ctx context.Context, id string) (notebook.Notebook, error)
	AddSource(ctx context.Context, notebookID string, draft notebook.SourceDraft) (notebook.Source, error)
	ListSources(ctx context.Context, notebookID string) ([]notebook.Source, error)
	AppendMessage(ctx context.Context, notebookID string, draft notebook.MessageDraft) (notebook.ChatMessage, error)
	ListMessages(ctx context.Context, notebookID string) ([]notebook.ChatMessage, error)
	// Chat records the query, answers it over the notebook's sources and records the reply.
	Chat(ctx context.Context, notebookID, query, model string) (notebook.ChatMessage, error)
	// GenerateReport runs the report pipeline over the notebook's sources and persists the result.
	GenerateReport(ctx context.Context, notebookID, model string) (notebook.Report, error)
	GetReport(ctx context.Context, notebookID, reportID string) (notebook.Report, error)
}

type notebookService struct {
	store   notebook.Store
	chat    ChatService
	reports ReportService
	metrics *metrics.Metrics
}

// NewNotebookService creates a NotebookService backed by store. m may be nil.
func NewNotebookService(store notebook.Store, chat ChatService, reports ReportService, m *metrics.Metrics) NotebookService {
	return &notebookService{
		store:   store,
		chat:    chat,
		reports: reports,
		metrics: m,
	}
}

func (s *notebookService) CreateNotebook(ctx context.Context, draft notebook.NotebookDraft) (notebook.Notebook, error) {
	nb, err := s.store.CreateNotebook(ctx, draft)
	if err != nil {
		return notebook.Notebook{}, storeError(err, "failed to create notebook")
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "notebook created", "notebook_id", nb.ID)
	return nb, nil
}

func (s *notebookService) ListNotebooks(ctx context.Context) ([]notebook.Notebook, error) {
	nbs, err := s.store.ListNotebooks(ctx)
	return nbs, storeError(err, "failed to list notebooks")
}

func (s *notebookService) GetNotebook(ctx context.Context, id string) (notebook.Notebook, error) {
	nb, err := s.store.GetNotebook(ctx, id)
	return nb, storeError(err, "failed to get notebook")
}

func (s *notebookService) AddSource(ctx context.Context, notebookID string, draft notebook.SourceDraft) (notebook.Source, error) {
	src, err := s.store.AddSource(ctx, notebookID, draft)
	if err != nil {
		return notebook.Source{}, storeError(err, "failed to add source")
	}
	if s.metrics != nil {
		s.metrics.SourcesAddedTotal.WithLabelValues(string(src.Type)).Inc()
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "source added",
		"notebook_id", notebookID,
		"source_id", src.ID,
		"type", src.Type,
		"content_length", len(src.Content),
	)
	return src, nil
}

func (s *notebookService) ListSources(ctx context.Context, notebookID string) ([]notebook.Source, error) {
	sources, err := s.store.ListSources(ctx, notebookID)
	return sources, storeError(err, "failed to list sources")
}

func (s *notebookService) AppendMessage(ctx context.Context, notebookID string, draft notebook.MessageDraft) (notebook.ChatMessage, error) {
	if strings.TrimSpace(draft.Content) == "" {
		return notebook.ChatMessage{}, invalid("content", "cannot be empty")
	}
	msg, err := s.store.AppendMessage(ctx, notebookID, draft)
	return msg, storeError(err, "failed to append message")
}

func (s *notebookService) ListMessages(ctx context.Context, notebookID string) ([]notebook.ChatMessage, error) {
	messages, err := s.store.ListMessages(ctx, notebookID)
	return messages, storeError(err, "failed to list messages")
}

func (s *notebookService) Chat(ctx context.Context, notebookID, query, model string) (notebook.ChatMessage, error) {
	if strings.TrimSpace(query) == "" {
		return notebook.ChatMessage{}, invalid("query", "Query is required")
	}

	sources, err := s.store.ListSources(ctx, notebookID)
	if err != nil {
		return notebook.ChatMessage{}, storeError(err, "failed to load sources")
	}

	if _, err := s.store.AppendMessage(ctx, notebookID, notebook.MessageDraft{Role: notebook.RoleUser, Content: query}); err != nil {
		return notebook.ChatMessage{}, storeError(err, "failed to record query")
	}

	resp, err := s.chat.ProcessChat(ctx, ChatRequest{Query: query, Sources: sources, Model: model})
	if err != nil {
		return notebook.ChatMessage{}, err
	}

	reply, err := s.store.AppendMessage(ctx, notebookID, notebook.MessageDraft{Role: notebook.RoleAssistant, Content: resp.Reply})
	if err != nil {
		return notebook.ChatMessage{}, storeError(err, "failed to record reply")
	}
	return reply, nil
}

func (s *notebookService) GenerateReport(ctx context.Context, notebookID, model string) (notebook.Report, error) {
	logger := contextutil.LoggerFromContext(ctx).With("notebook_id", notebookID)

	sources, err := s.store.ListSources(ctx, notebookID)
	if err != nil {
		return notebook.Report{}, storeError(err, "failed to load sources")
	}
	if len(sources) == 0 {
		return notebook.Report{}, invalid("sources", "notebook has no sources")
	}

	rep, err := s.store.CreateReport(ctx, notebookID, notebook.ReportTypeReport)
	if err != nil {
		return notebook.Report{}, storeError(err, "failed to create report")
	}
	if rep, err = s.store.UpdateReport(ctx, notebookID, rep.ID, notebook.ReportStatusProcessing, ""); err != nil {
		return notebook.Report{}, storeError(err, "failed to update report")
	}

	out, genErr := s.reports.GenerateReport(ctx, ReportRequest{
		Topic: reportTopicPreamble + study.SourcesDigest(sources),
		Model: model,
		Mode:  ModeAgents,
	})
	if genErr != nil {
		logger.ErrorContext(ctx, "report generation failed", "report_id", rep.ID, "error", genErr)
		// Detached from ctx so a cancelled request still leaves a terminal status behind.
		if _, err := s.store.UpdateReport(context.WithoutCancel(ctx), notebookID, rep.ID, notebook.ReportStatusFailed, ""); err != nil {
			logger.ErrorContext(ctx, "failed to mark report failed", "report_id", rep.ID, "error", err)
		}
		return notebook.Report{}, genErr
	}

	rep, err = s.store.UpdateReport(ctx, notebookID, rep.ID, notebook.ReportStatusCompleted, out.Report)
	if err != nil {
		return notebook.Report{}, storeError(err, "failed to store report")
	}
	logger.InfoContext(ctx, "report stored", "report_id", rep.ID, "facts", out.Facts, "length", len(out.Report))
	return rep, nil
}

func (s *notebookService) GetReport(ctx context.Context, notebookID, reportID string) (notebook.Report, error) {
	rep, err := s.store.GetReport(ctx, notebookID, reportID)
	return rep, storeError(err, "failed to get report")
}
