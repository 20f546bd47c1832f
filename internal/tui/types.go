// Package tui renders flashcard and quiz viewers in the terminal.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

type stage int

const (
	stageLoading stage = iota
	stageDisplay
	stageEmpty
	stageFailed
)

const (
	minWrapWidth     = 30
	defaultWrapWidth = 72
	progressWidth    = 40
)

const (
	deckHelp = "space flip · ←/→ navigate · q quit"
	quizHelp = "↑/↓ move · a-d select · enter submit · q quit"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	subtitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	helperStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))

	cardFrontStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2)
	cardBackStyle = cardFrontStyle.
			BorderForeground(lipgloss.Color("#ff8c00"))
)

// loadedMsg carries the result of a generation request.
type loadedMsg[T any] struct {
	items []T
	err   error
}
