package notebook

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_store.go -package=mocks notebook-ai/internal/notebook Store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a notebook or report does not exist.
	ErrNotFound = errors.New("not found")
)

// ValidationError describes a rejected draft field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Store is the entity store for notebooks and everything they own.
// Every Source, ChatMessage and Report references an existing notebook.
type Store interface {
	// CreateNotebook registers a new notebook with empty source and message collections.
	CreateNotebook(ctx context.Context, draft NotebookDraft) (Notebook, error)
	// GetNotebook returns a notebook by ID, or ErrNotFound.
	GetNotebook(ctx context.Context, id string) (Notebook, error)
	// ListNotebooks returns all notebooks in creation order.
	ListNotebooks(ctx context.Context) ([]Notebook, error)
	// AddSource appends a source and updates the owning notebook's source count in one step.
	AddSource(ctx context.Context, notebookID string, draft SourceDraft) (Source, error)
	// ListSources returns a notebook's sources in insertion order.
	ListSources(ctx context.Context, notebookID string) ([]Source, error)
	// AppendMessage appends to a notebook's transcript.
	AppendMessage(ctx context.Context, notebookID string, draft MessageDraft) (ChatMessage, error)
	// ListMessages returns a notebook's transcript in insertion order.
	ListMessages(ctx context.Context, notebookID string) ([]ChatMessage, error)
	// CreateReport registers a pending report.
	CreateReport(ctx context.Context, notebookID string, reportType ReportType) (Report, error)
	// UpdateReport stores new content and status for an existing report.
	UpdateReport(ctx context.Context, notebookID, reportID string, status ReportStatus, content string) (Report, error)
	// GetReport returns a report by notebook and report ID, or ErrNotFound.
	GetReport(ctx context.Context, notebookID, reportID string) (Report, error)
}

// NewID returns a time-ordered unique identifier.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// ApplyDefaults fills empty notebook draft fields.
func (d NotebookDraft) ApplyDefaults() NotebookDraft {
	if strings.TrimSpace(d.Title) == "" {
		d.Title = DefaultTitle
	}
	if strings.TrimSpace(d.Emoji) == "" {
		d.Emoji = DefaultEmoji
	}
	return d
}

// Validate checks that a source draft has a title, content and a known type.
func (d SourceDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Message: "cannot be empty"}
	}
	if strings.TrimSpace(d.Content) == "" {
		return &ValidationError{Field: "content", Message: "cannot be empty"}
	}
	if !d.Type.Valid() {
		return &ValidationError{Field: "type", Message: fmt.Sprintf("unknown source type %q", d.Type)}
	}
	return nil
}

// Validate checks the message role.
func (d MessageDraft) Validate() error {
	if d.Role != RoleUser && d.Role != RoleAssistant {
		return &ValidationError{Field: "role", Message: fmt.Sprintf("unknown role %q", d.Role)}
	}
	return nil
}

// ValidReportType reports whether t is a known report type.
func ValidReportType(t ReportType) bool {
	switch t {
	case ReportTypeAudioOverview, ReportTypeVideoOverview, ReportTypeMindMap,
		ReportTypeFlashcards, ReportTypeQuiz, ReportTypeReport:
		return true
	}
	return false
}
