// Package session holds a client-side notebook workspace: the entity store, the current
// selection and the chat and study-set flows that talk to the backend.
package session

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_alerter.go -package=mocks -mock_names=Alerter=MockAlerter notebook-ai/internal/session Alerter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"notebook-ai/internal/apiclient"
	"notebook-ai/internal/contextutil"
	"notebook-ai/internal/notebook"
)

// DefaultModel is the completion model requested when none is configured.
const DefaultModel = "llama-3.1-70b-versatile"

// ChatFailureMessage is appended as the assistant reply when a chat request fails.
const ChatFailureMessage = "Sorry, I encountered an error. Please make sure the backend server is running and your GROQ_API_KEY is set."

var (
	// ErrNoSources is returned when a conversation is attempted on a notebook without sources.
	ErrNoSources = errors.New("notebook has no sources")
	// ErrStale is returned when a completion arrives after its context was reset or changed.
	ErrStale = errors.New("stale completion discarded")
)

// Alerter reports failures that need the user's attention.
type Alerter interface {
	Alert(message string)
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(message string)

// Alert calls f(message).
func (f AlerterFunc) Alert(message string) { f(message) }

// Session is a notebook workspace with at most one selected notebook.
// It is safe for concurrent use.
type Session struct {
	store   notebook.Store
	backend apiclient.Backend
	alerter Alerter
	model   string

	mu             sync.Mutex
	selected       string
	selectionEpoch uint64
	epochs         map[string]uint64
	study          *StudySet
}

// New creates a session. An empty model means DefaultModel; a nil alerter discards alerts.
func New(store notebook.Store, backend apiclient.Backend, alerter Alerter, model string) *Session {
	if model == "" {
		model = DefaultModel
	}
	if alerter == nil {
		alerter = AlerterFunc(func(string) {})
	}
	return &Session{
		store:   store,
		backend: backend,
		alerter: alerter,
		model:   model,
		epochs:  make(map[string]uint64),
	}
}

// Model returns the completion model sent with every request.
func (s *Session) Model() string { return s.model }

// CreateNotebook creates a notebook and selects it.
func (s *Session) CreateNotebook(ctx context.Context, draft notebook.NotebookDraft) (notebook.Notebook, error) {
	nb, err := s.store.CreateNotebook(ctx, draft)
	if err != nil {
		return notebook.Notebook{}, fmt.Errorf("failed to create notebook: %w", err)
	}

	s.mu.Lock()
	s.selectLocked(nb.ID)
	s.mu.Unlock()

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "notebook created", "notebook_id", nb.ID)
	return nb, nil
}

// Select makes id the selected notebook.
func (s *Session) Select(ctx context.Context, id string) error {
	if _, err := s.store.GetNotebook(ctx, id); err != nil {
		return fmt.Errorf("failed to select notebook: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectLocked(id)
	return nil
}

// Deselect clears the selection.
func (s *Session) Deselect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectLocked("")
}

func (s *Session) selectLocked(id string) {
	if s.selected == id {
		return
	}
	s.selected = id
	s.selectionEpoch++
	s.study = nil
}

// Selected returns the selected notebook ID.
func (s *Session) Selected() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.selected != ""
}

// Notebooks lists all notebooks in creation order.
func (s *Session) Notebooks(ctx context.Context) ([]notebook.Notebook, error) {
	return s.store.ListNotebooks(ctx)
}

// Notebook returns a notebook by ID.
func (s *Session) Notebook(ctx context.Context, id string) (notebook.Notebook, error) {
	return s.store.GetNotebook(ctx, id)
}

// Sources lists a notebook's sources.
func (s *Session) Sources(ctx context.Context, notebookID string) ([]notebook.Source, error) {
	return s.store.ListSources(ctx, notebookID)
}

// Messages lists a notebook's transcript.
func (s *Session) Messages(ctx context.Context, notebookID string) ([]notebook.ChatMessage, error) {
	return s.store.ListMessages(ctx, notebookID)
}

// AddSource attaches draft to the selected notebook. It reports false without error when
// nothing is selected or the title or content is blank.
func (s *Session) AddSource(ctx context.Context, draft notebook.SourceDraft) (notebook.Source, bool, error) {
	id, ok := s.Selected()
	if !ok || strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.Content) == "" {
		return notebook.Source{}, false, nil
	}
	src, err := s.store.AddSource(ctx, id, draft)
	if err != nil {
		return notebook.Source{}, false, fmt.Errorf("failed to add source: %w", err)
	}
	return src, true, nil
}

// AppendMessage appends to the selected notebook's transcript. It reports false when nothing is selected.
func (s *Session) AppendMessage(ctx context.Context, draft notebook.MessageDraft) (notebook.ChatMessage, bool, error) {
	id, ok := s.Selected()
	if !ok {
		return notebook.ChatMessage{}, false, nil
	}
	msg, err := s.store.AppendMessage(ctx, id, draft)
	if err != nil {
		return notebook.ChatMessage{}, false, fmt.Errorf("failed to append message: %w", err)
	}
	return msg, true, nil
}

// Reset invalidates in-flight chat completions for notebookID.
func (s *Session) Reset(notebookID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epochs[notebookID]++
}

// SendMessage appends text as a user message to notebookID, asks the backend for an answer
// over all of the notebook's sources and appends the reply. Any backend failure is replaced
// by ChatFailureMessage. Blank text is a no-op.
// The reply is discarded with ErrStale if Reset was called for the notebook meanwhile.
func (s *Session) SendMessage(ctx context.Context, notebookID, text string) (notebook.ChatMessage, error) {
	logger := contextutil.LoggerFromContext(ctx).With("notebook_id", notebookID)

	if strings.TrimSpace(text) == "" {
		return notebook.ChatMessage{}, nil
	}

	sources, err := s.store.ListSources(ctx, notebookID)
	if err != nil {
		return notebook.ChatMessage{}, fmt.Errorf("failed to load sources: %w", err)
	}
	if len(sources) == 0 {
		return notebook.ChatMessage{}, ErrNoSources
	}

	if _, err := s.store.AppendMessage(ctx, notebookID, notebook.MessageDraft{Role: notebook.RoleUser, Content: text}); err != nil {
		return notebook.ChatMessage{}, fmt.Errorf("failed to append message: %w", err)
	}

	token := s.chatToken(notebookID)

	reply, err := s.backend.Chat(ctx, apiclient.ChatRequest{
		Query:   text,
		Sources: sources,
		Model:   s.model,
	})
	if err != nil {
		logger.ErrorContext(ctx, "chat request failed", "error", err)
		reply = ChatFailureMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epochs[notebookID] != token {
		logger.InfoContext(ctx, "discarding stale chat reply")
		return notebook.ChatMessage{}, ErrStale
	}
	// The store ignores cancellation; a failed request still leaves its reply behind.
	msg, err := s.store.AppendMessage(context.WithoutCancel(ctx), notebookID, notebook.MessageDraft{Role: notebook.RoleAssistant, Content: reply})
	if err != nil {
		return notebook.ChatMessage{}, fmt.Errorf("failed to append reply: %w", err)
	}
	return msg, nil
}

func (s *Session) chatToken(notebookID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epochs[notebookID]
}
