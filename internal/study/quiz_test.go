package study

import "testing"

func sampleQuestions() []QuizQuestion {
	opts := []QuizOption{
		{Label: "A", Text: "one"},
		{Label: "B", Text: "two"},
		{Label: "C", Text: "three"},
		{Label: "D", Text: "four"},
	}
	return []QuizQuestion{
		{ID: 10, Question: "First?", Options: opts, CorrectAnswer: "B"},
		{ID: 20, Question: "Second?", Options: opts, CorrectAnswer: "D"},
	}
}

func TestQuiz_SelectOverwrites(t *testing.T) {
	quiz := NewQuiz(sampleQuestions())

	if !quiz.Select(10, "A") {
		t.Fatal("Select() should accept an offered label")
	}
	if !quiz.Select(10, "C") {
		t.Fatal("Select() should accept a second choice")
	}

	got, ok := quiz.Selected(10)
	if !ok || got != "C" {
		t.Errorf("Selected(10) = %q, %v; want C", got, ok)
	}
	if _, ok := quiz.Selected(20); ok {
		t.Error("Selected(20) should be empty")
	}
}

func TestQuiz_SelectRejects(t *testing.T) {
	quiz := NewQuiz(sampleQuestions())

	if quiz.Select(99, "A") {
		t.Error("Select() on unknown question should be ignored")
	}
	if quiz.Select(10, "E") {
		t.Error("Select() with a label not offered should be ignored")
	}
	if len(quiz.Submit()) != 0 {
		t.Error("ignored selections should not be recorded")
	}
}

func TestQuiz_SubmitIsInert(t *testing.T) {
	quiz := NewQuiz(sampleQuestions())
	quiz.Select(10, "A")

	answers := quiz.Submit()
	if answers[10] != "A" {
		t.Errorf("Submit()[10] = %q, want A", answers[10])
	}

	answers[10] = "D"
	if got, _ := quiz.Selected(10); got != "A" {
		t.Errorf("mutating Submit() result changed state to %q", got)
	}

	quiz.Select(10, "B")
	if got, _ := quiz.Selected(10); got != "B" {
		t.Errorf("Select() after Submit() = %q, want B", got)
	}
}

func TestQuiz_CursorAndFocusedSelect(t *testing.T) {
	quiz := NewQuiz(sampleQuestions())

	quiz.MoveUp()
	if quiz.Cursor() != 0 {
		t.Errorf("Cursor() = %d, want 0", quiz.Cursor())
	}
	quiz.MoveDown()
	quiz.MoveDown()
	if quiz.Cursor() != 1 {
		t.Errorf("Cursor() = %d, want 1", quiz.Cursor())
	}

	if !quiz.SelectFocused("D") {
		t.Fatal("SelectFocused() should record")
	}
	if got, _ := quiz.Selected(20); got != "D" {
		t.Errorf("Selected(20) = %q, want D", got)
	}
}

func TestQuiz_Score(t *testing.T) {
	quiz := NewQuiz(sampleQuestions())
	quiz.Select(10, "B")
	quiz.Select(20, "A")

	correct, answered := quiz.Score()
	if correct != 1 || answered != 2 {
		t.Errorf("Score() = %d/%d, want 1/2", correct, answered)
	}
}
