package session

import (
	"context"
	"fmt"

	"notebook-ai/internal/apiclient"
	"notebook-ai/internal/contextutil"
	"notebook-ai/internal/extract"
	"notebook-ai/internal/study"
)

// reportMode asks the backend for a single completion instead of the report pipeline.
const reportMode = "direct"

const (
	flashcardsFailureAlert = "Failed to generate flashcards. Please make sure the backend server is running and your GROQ_API_KEY is set."
	quizFailureAlert       = "Failed to generate quiz. Please make sure the backend server is running and your GROQ_API_KEY is set."
)

// StudySet is the generated flashcards or quiz currently open in the session.
type StudySet struct {
	Kind       study.Kind
	NotebookID string
	Flashcards []study.Flashcard
	Questions  []study.QuizQuestion
}

// ActiveStudy returns the study set installed by the last generation for the current selection.
func (s *Session) ActiveStudy() (StudySet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.study == nil {
		return StudySet{}, false
	}
	return *s.study, true
}

// GenerateFlashcards asks the backend for flashcards over notebookID's sources.
// A notebook without sources yields an empty deck without a request.
func (s *Session) GenerateFlashcards(ctx context.Context, notebookID string) ([]study.Flashcard, error) {
	return generate(ctx, s, study.KindFlashcards, notebookID, flashcardsFailureAlert, func(cards []study.Flashcard) StudySet {
		return StudySet{Kind: study.KindFlashcards, NotebookID: notebookID, Flashcards: cards}
	})
}

// GenerateQuiz asks the backend for quiz questions over notebookID's sources.
// A notebook without sources yields an empty quiz without a request.
func (s *Session) GenerateQuiz(ctx context.Context, notebookID string) ([]study.QuizQuestion, error) {
	return generate(ctx, s, study.KindQuiz, notebookID, quizFailureAlert, func(questions []study.QuizQuestion) StudySet {
		return StudySet{Kind: study.KindQuiz, NotebookID: notebookID, Questions: questions}
	})
}

// generate runs one study-set request. Failures return an empty, non-nil slice with the cause.
// The result is installed as the active study set only if notebookID was selected when the
// request was issued and the selection did not change meanwhile.
func generate[T any](ctx context.Context, s *Session, kind study.Kind, notebookID, alert string, install func([]T) StudySet) ([]T, error) {
	logger := contextutil.LoggerFromContext(ctx).With("notebook_id", notebookID, "kind", kind)

	sources, err := s.store.ListSources(ctx, notebookID)
	if err != nil {
		return []T{}, fmt.Errorf("failed to load sources: %w", err)
	}
	if len(sources) == 0 {
		return []T{}, nil
	}

	prompt, err := study.Prompt(kind, sources)
	if err != nil {
		return []T{}, err
	}

	s.mu.Lock()
	epoch := s.selectionEpoch
	selected := s.selected == notebookID
	s.mu.Unlock()

	report, err := s.backend.GenerateReport(ctx, apiclient.ReportRequest{
		Topic: prompt,
		Model: s.model,
		Mode:  reportMode,
	})
	if err != nil {
		logger.ErrorContext(ctx, "study generation failed", "error", err)
		s.alerter.Alert(alert)
		return []T{}, fmt.Errorf("failed to generate %s: %w", kind, err)
	}

	items, tier, err := extract.DecodeArray[T](report)
	if err != nil {
		logger.WarnContext(ctx, "unparseable study payload", "error", err, "length", len(report))
		return []T{}, fmt.Errorf("failed to parse %s: %w", kind, err)
	}
	logger.DebugContext(ctx, "study payload parsed", "items", len(items), "tier", tier.String())

	s.mu.Lock()
	defer s.mu.Unlock()
	if !selected || s.selectionEpoch != epoch {
		logger.InfoContext(ctx, "notebook not selected; not installing study set", "selection_changed", s.selectionEpoch != epoch)
		return items, ErrStale
	}
	set := install(items)
	s.study = &set
	return items, nil
}
