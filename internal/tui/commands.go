package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
)

// Loader produces the items a viewer displays.
type Loader[T any] func(ctx context.Context) ([]T, error)

func loadCmd[T any](ctx context.Context, load Loader[T]) tea.Cmd {
	return func() tea.Msg {
		items, err := load(ctx)
		return loadedMsg[T]{items: items, err: err}
	}
}

func wrapWidth(termWidth int) int {
	if termWidth <= 0 {
		return defaultWrapWidth
	}
	return max(termWidth-8, minWrapWidth)
}

func wrap(s string, width int) string {
	return wordwrap.String(s, width)
}
