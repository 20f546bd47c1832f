package study

import (
	"fmt"
	"strings"

	"notebook-ai/internal/notebook"
)

// Kind is a study artifact that can be generated from a notebook's sources.
type Kind string

const (
	KindFlashcards Kind = "flashcards"
	KindQuiz       Kind = "quiz"
)

// Flashcard is a question/answer pair.
type Flashcard struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuizOption is one labelled choice of a quiz question.
type QuizOption struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// QuizQuestion is a multiple-choice question. CorrectAnswer holds an option label.
type QuizQuestion struct {
	ID            int          `json:"id"`
	Question      string       `json:"question"`
	Options       []QuizOption `json:"options"`
	CorrectAnswer string       `json:"correctAnswer"`
}

const (
	flashcardsInstruction = `Generate 10 flashcards based on the following sources. Return a JSON array of objects with "id" (number), "question" (string), and "answer" (string) fields. Return ONLY the JSON array, no additional text:`
	quizInstruction       = `Generate 10 multiple choice quiz questions based on the following sources. Return a JSON array of objects with "id" (number), "question" (string), "options" (array of objects with "label" (A/B/C/D) and "text" fields), and "correctAnswer" (string - the label). Return ONLY the JSON array, no additional text:`
)

// SourcesDigest joins every source as "title: content", separated by blank lines.
func SourcesDigest(sources []notebook.Source) string {
	parts := make([]string, 0, len(sources))
	for _, s := range sources {
		parts = append(parts, fmt.Sprintf("%s: %s", s.Title, s.Content))
	}
	return strings.Join(parts, "\n\n")
}

// Prompt builds the generation prompt for kind over the given sources.
func Prompt(kind Kind, sources []notebook.Source) (string, error) {
	var instruction string
	switch kind {
	case KindFlashcards:
		instruction = flashcardsInstruction
	case KindQuiz:
		instruction = quizInstruction
	default:
		return "", fmt.Errorf("unknown study kind %q", kind)
	}
	return instruction + "\n\n" + SourcesDigest(sources), nil
}
