package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"notebook-ai/internal/study"
)

// QuizModel is the quiz viewer. It records answers but never shows which are correct.
type QuizModel struct {
	ctx   context.Context
	title string
	load  Loader[study.QuizQuestion]

	stage     stage
	quiz      *study.Quiz
	err       error
	width     int
	submitted bool
	spinner   spinner.Model
}

// NewQuizModel creates a quiz viewer that shows a spinner until load returns.
func NewQuizModel(ctx context.Context, title string, load Loader[study.QuizQuestion]) *QuizModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	return &QuizModel{
		ctx:     ctx,
		title:   title,
		load:    load,
		stage:   stageLoading,
		quiz:    study.NewQuiz(nil),
		spinner: spin,
	}
}

// Quiz returns the viewer state.
func (m *QuizModel) Quiz() *study.Quiz { return m.quiz }

// Err returns the generation error, if any.
func (m *QuizModel) Err() error { return m.err }

// Submitted reports whether the user pressed submit.
func (m *QuizModel) Submitted() bool { return m.submitted }

func (m *QuizModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadCmd(m.ctx, m.load))
}

func (m *QuizModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.stage != stageLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case loadedMsg[study.QuizQuestion]:
		m.quiz = study.NewQuiz(msg.items)
		m.err = msg.err
		switch {
		case len(msg.items) > 0:
			m.stage = stageDisplay
		case msg.err != nil:
			m.stage = stageFailed
		default:
			m.stage = stageEmpty
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *QuizModel) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	}
	if m.stage != stageDisplay {
		return m, nil
	}
	switch k := key.String(); k {
	case "up", "k":
		m.quiz.MoveUp()
	case "down", "j":
		m.quiz.MoveDown()
	case "a", "b", "c", "d":
		m.quiz.SelectFocused(strings.ToUpper(k))
	case "enter":
		m.quiz.Submit()
		m.submitted = true
	}
	return m, nil
}

func (m *QuizModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	switch m.stage {
	case stageLoading:
		b.WriteString(fmt.Sprintf("%s Generating quiz…", m.spinner.View()))
	case stageFailed:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Could not generate quiz: %v", m.err)))
	case stageEmpty:
		b.WriteString(helperStyle.Render("No quiz questions were generated."))
	case stageDisplay:
		b.WriteString(m.questionsView())
	}

	b.WriteString("\n")
	b.WriteString(helperStyle.Render(quizHelp))
	return b.String()
}

func (m *QuizModel) questionsView() string {
	width := wrapWidth(m.width)
	var b strings.Builder
	for i, q := range m.quiz.Questions() {
		marker := "  "
		heading := fmt.Sprintf("%d. %s", i+1, q.Question)
		if i == m.quiz.Cursor() {
			marker = "> "
			heading = focusStyle.Render(heading)
		}
		b.WriteString(marker)
		b.WriteString(wrap(heading, width))
		b.WriteString("\n")

		chosen, _ := m.quiz.Selected(q.ID)
		for _, opt := range q.Options {
			line := fmt.Sprintf("    %s) %s", opt.Label, opt.Text)
			if opt.Label == chosen {
				line = selectedStyle.Render(fmt.Sprintf("  ● %s) %s", opt.Label, opt.Text))
			}
			b.WriteString(wrap(line, width))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if m.submitted {
		_, answered := m.quiz.Score()
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("Answers submitted (%d of %d answered).", answered, m.quiz.Len())))
		b.WriteString("\n")
	}
	return b.String()
}
