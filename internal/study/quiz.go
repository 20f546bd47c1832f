package study

// Quiz is the quiz viewer state: the latest selected option label per question.
// Selecting again overwrites the previous choice. Submitting records nothing and
// gives no correctness feedback.
type Quiz struct {
	questions []QuizQuestion
	cursor    int
	selected  map[int]string
}

// NewQuiz creates a quiz viewer with no answers selected.
func NewQuiz(questions []QuizQuestion) *Quiz {
	return &Quiz{
		questions: questions,
		selected:  make(map[int]string),
	}
}

// Questions returns the questions in display order.
func (q *Quiz) Questions() []QuizQuestion { return q.questions }

// Len returns the number of questions.
func (q *Quiz) Len() int { return len(q.questions) }

// Cursor returns the index of the focused question.
func (q *Quiz) Cursor() int { return q.cursor }

// MoveUp focuses the previous question, clamped at the first.
func (q *Quiz) MoveUp() {
	if q.cursor > 0 {
		q.cursor--
	}
}

// MoveDown focuses the next question, clamped at the last.
func (q *Quiz) MoveDown() {
	if q.cursor < len(q.questions)-1 {
		q.cursor++
	}
}

// Select records label as the answer for questionID, replacing any earlier choice.
// Unknown question IDs and labels not offered by the question are ignored.
func (q *Quiz) Select(questionID int, label string) bool {
	for _, question := range q.questions {
		if question.ID != questionID {
			continue
		}
		for _, opt := range question.Options {
			if opt.Label == label {
				q.selected[questionID] = label
				return true
			}
		}
		return false
	}
	return false
}

// SelectFocused records label for the focused question.
func (q *Quiz) SelectFocused(label string) bool {
	if len(q.questions) == 0 {
		return false
	}
	return q.Select(q.questions[q.cursor].ID, label)
}

// Selected returns the recorded label for questionID.
func (q *Quiz) Selected(questionID int) (string, bool) {
	label, ok := q.selected[questionID]
	return label, ok
}

// Submit returns a copy of the recorded answers. It does not grade them.
func (q *Quiz) Submit() map[int]string {
	answers := make(map[int]string, len(q.selected))
	for id, label := range q.selected {
		answers[id] = label
	}
	return answers
}

// Score counts answers matching each question's CorrectAnswer.
func (q *Quiz) Score() (correct, answered int) {
	for _, question := range q.questions {
		label, ok := q.selected[question.ID]
		if !ok {
			continue
		}
		answered++
		if question.CorrectAnswer != "" && label == question.CorrectAnswer {
			correct++
		}
	}
	return correct, answered
}
