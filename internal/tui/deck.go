package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"notebook-ai/internal/study"
)

// DeckModel is the flashcard viewer.
type DeckModel struct {
	ctx   context.Context
	title string
	load  Loader[study.Flashcard]

	stage    stage
	deck     *study.Deck
	err      error
	width    int
	spinner  spinner.Model
	progress progress.Model
}

// NewDeckModel creates a flashcard viewer that shows a spinner until load returns.
func NewDeckModel(ctx context.Context, title string, load Loader[study.Flashcard]) *DeckModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	return &DeckModel{
		ctx:      ctx,
		title:    title,
		load:     load,
		stage:    stageLoading,
		deck:     study.NewDeck(nil),
		spinner:  spin,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth)),
	}
}

// Deck returns the viewer state.
func (m *DeckModel) Deck() *study.Deck { return m.deck }

// Err returns the generation error, if any.
func (m *DeckModel) Err() error { return m.err }

func (m *DeckModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadCmd(m.ctx, m.load))
}

func (m *DeckModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
	case loadedMsg[study.Flashcard]:
		m.deck = study.NewDeck(msg.items)
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

func (m *DeckModel) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	}
	if m.stage != stageDisplay {
		return m, nil
	}
	switch key.String() {
	case " ", "enter", "f":
		m.deck.Flip()
	case "right", "l", "n":
		m.deck.Next()
	case "left", "h", "p":
		m.deck.Previous()
	}
	return m, nil
}

func (m *DeckModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	switch m.stage {
	case stageLoading:
		b.WriteString(fmt.Sprintf("%s Generating flashcards…", m.spinner.View()))
	case stageFailed:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Could not generate flashcards: %v", m.err)))
	case stageEmpty:
		b.WriteString(helperStyle.Render("No flashcards were generated."))
	case stageDisplay:
		b.WriteString(m.cardView())
	}

	b.WriteString("\n\n")
	b.WriteString(helperStyle.Render(deckHelp))
	return b.String()
}

func (m *DeckModel) cardView() string {
	card, _ := m.deck.Current()
	width := wrapWidth(m.width)

	label, text, style := "Question", card.Question, cardFrontStyle
	if m.deck.Flipped() {
		label, text, style = "Answer", card.Answer, cardBackStyle
	}

	counter := fmt.Sprintf("Card %d of %d", m.deck.Index()+1, m.deck.Len())
	return lipgloss.JoinVertical(lipgloss.Left,
		subtitleStyle.Render(counter),
		m.progress.ViewAs(m.deck.Progress()),
		"",
		style.Width(width).Render(helperStyle.Render(label)+"\n\n"+wrap(text, width-4)),
	)
}
