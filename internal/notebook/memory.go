package notebook

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store. State lives as long as the process.
// It is safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	notebooks map[string]*Notebook
	order     []string
	sources   map[string][]Source
	messages  map[string][]ChatMessage
	reports   map[string][]Report

	now   func() time.Time
	newID func() string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		notebooks: make(map[string]*Notebook),
		sources:   make(map[string][]Source),
		messages:  make(map[string][]ChatMessage),
		reports:   make(map[string][]Report),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     NewID,
	}
}

// CreateNotebook registers a new notebook with empty collections.
func (s *MemoryStore) CreateNotebook(_ context.Context, draft NotebookDraft) (Notebook, error) {
	draft = draft.ApplyDefaults()

	s.mu.Lock()
	defer s.mu.Unlock()

	nb := &Notebook{
		ID:        s.newID(),
		Title:     draft.Title,
		Emoji:     draft.Emoji,
		CreatedAt: s.now(),
	}
	s.notebooks[nb.ID] = nb
	s.order = append(s.order, nb.ID)
	s.sources[nb.ID] = []Source{}
	s.messages[nb.ID] = []ChatMessage{}
	return *nb, nil
}

// GetNotebook returns a copy of the notebook with the given ID.
func (s *MemoryStore) GetNotebook(_ context.Context, id string) (Notebook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nb, ok := s.notebooks[id]
	if !ok {
		return Notebook{}, fmt.Errorf("notebook %s: %w", id, ErrNotFound)
	}
	return *nb, nil
}

// ListNotebooks returns all notebooks in creation order.
func (s *MemoryStore) ListNotebooks(_ context.Context) ([]Notebook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Notebook, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, *s.notebooks[id])
	}
	return result, nil
}

// AddSource appends a source and increments the notebook's source count under the same lock.
func (s *MemoryStore) AddSource(_ context.Context, notebookID string, draft SourceDraft) (Source, error) {
	if err := draft.Validate(); err != nil {
		return Source{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nb, ok := s.notebooks[notebookID]
	if !ok {
		return Source{}, fmt.Errorf("notebook %s: %w", notebookID, ErrNotFound)
	}

	src := Source{
		ID:         s.newID(),
		NotebookID: notebookID,
		Title:      draft.Title,
		Type:       draft.Type,
		Content:    draft.Content,
		CreatedAt:  s.now(),
	}
	s.sources[notebookID] = append(s.sources[notebookID], src)
	nb.SourcesCount = len(s.sources[notebookID])
	return src, nil
}

// ListSources returns a copy of the notebook's sources.
func (s *MemoryStore) ListSources(_ context.Context, notebookID string) ([]Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.notebooks[notebookID]; !ok {
		return nil, fmt.Errorf("notebook %s: %w", notebookID, ErrNotFound)
	}
	out := make([]Source, len(s.sources[notebookID]))
	copy(out, s.sources[notebookID])
	return out, nil
}

// AppendMessage appends to the notebook's transcript.
func (s *MemoryStore) AppendMessage(_ context.Context, notebookID string, draft MessageDraft) (ChatMessage, error) {
	if err := draft.Validate(); err != nil {
		return ChatMessage{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notebooks[notebookID]; !ok {
		return ChatMessage{}, fmt.Errorf("notebook %s: %w", notebookID, ErrNotFound)
	}

	msg := ChatMessage{
		ID:         s.newID(),
		NotebookID: notebookID,
		Role:       draft.Role,
		Content:    draft.Content,
		CreatedAt:  s.now(),
	}
	s.messages[notebookID] = append(s.messages[notebookID], msg)
	return msg, nil
}

// ListMessages returns a copy of the notebook's transcript.
func (s *MemoryStore) ListMessages(_ context.Context, notebookID string) ([]ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.notebooks[notebookID]; !ok {
		return nil, fmt.Errorf("notebook %s: %w", notebookID, ErrNotFound)
	}
	out := make([]ChatMessage, len(s.messages[notebookID]))
	copy(out, s.messages[notebookID])
	return out, nil
}

// CreateReport registers a pending report for the notebook.
func (s *MemoryStore) CreateReport(_ context.Context, notebookID string, reportType ReportType) (Report, error) {
	if !ValidReportType(reportType) {
		return Report{}, &ValidationError{Field: "type", Message: fmt.Sprintf("unknown report type %q", reportType)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notebooks[notebookID]; !ok {
		return Report{}, fmt.Errorf("notebook %s: %w", notebookID, ErrNotFound)
	}

	rep := Report{
		ID:         s.newID(),
		NotebookID: notebookID,
		Type:       reportType,
		Status:     ReportStatusPending,
		CreatedAt:  s.now(),
	}
	s.reports[notebookID] = append(s.reports[notebookID], rep)
	return rep, nil
}

// UpdateReport replaces the status and content of an existing report.
func (s *MemoryStore) UpdateReport(_ context.Context, notebookID, reportID string, status ReportStatus, content string) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports := s.reports[notebookID]
	for i := range reports {
		if reports[i].ID == reportID {
			reports[i].Status = status
			reports[i].Content = content
			return reports[i], nil
		}
	}
	return Report{}, fmt.Errorf("report %s: %w", reportID, ErrNotFound)
}

// GetReport returns a report owned by the notebook.
func (s *MemoryStore) GetReport(_ context.Context, notebookID, reportID string) (Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rep := range s.reports[notebookID] {
		if rep.ID == reportID {
			return rep, nil
		}
	}
	return Report{}, fmt.Errorf("report %s: %w", reportID, ErrNotFound)
}
