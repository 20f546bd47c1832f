package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"notebook-ai/internal/notebook"
	"notebook-ai/internal/session"
	"notebook-ai/internal/sources"
)

var errNoSourceFlags = errors.New("at least one --source or --text is required")

// sourceFlags collects the sources a subcommand loads into its notebook.
type sourceFlags struct {
	title string
	paths []string
	texts []string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "notebook title")
	cmd.Flags().StringArrayVarP(&f.paths, "source", "s", nil, "source file (.pdf, .txt, .md); repeatable")
	cmd.Flags().StringArrayVar(&f.texts, "text", nil, "inline source as title=content; repeatable")
}

// open creates a notebook in sess, selects it and adds every source.
func (f *sourceFlags) open(ctx context.Context, sess *session.Session) (notebook.Notebook, error) {
	if len(f.paths) == 0 && len(f.texts) == 0 {
		return notebook.Notebook{}, errNoSourceFlags
	}

	drafts := make([]notebook.SourceDraft, 0, len(f.paths)+len(f.texts))
	for _, path := range f.paths {
		draft, err := sources.Open(path)
		if err != nil {
			return notebook.Notebook{}, fmt.Errorf("failed to read source %s: %w", path, err)
		}
		drafts = append(drafts, draft)
	}
	for _, pair := range f.texts {
		draft, err := sources.ParseText(pair)
		if err != nil {
			return notebook.Notebook{}, fmt.Errorf("invalid --text %q: %w", pair, err)
		}
		drafts = append(drafts, draft)
	}

	title := f.title
	if strings.TrimSpace(title) == "" && len(drafts) == 1 {
		title = drafts[0].Title
	}
	nb, err := sess.CreateNotebook(ctx, notebook.NotebookDraft{Title: title})
	if err != nil {
		return notebook.Notebook{}, err
	}
	for _, draft := range drafts {
		if _, added, err := sess.AddSource(ctx, draft); err != nil {
			return notebook.Notebook{}, err
		} else if !added {
			return notebook.Notebook{}, fmt.Errorf("source %q is empty", draft.Title)
		}
	}
	return sess.Notebook(ctx, nb.ID)
}

// alertBuffer holds alerts raised while a viewer owns the terminal.
type alertBuffer struct {
	mu     sync.Mutex
	alerts []string
}

var _ session.Alerter = (*alertBuffer)(nil)

func (b *alertBuffer) Alert(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.alerts = append(b.alerts, message)
}

func (b *alertBuffer) flush(w io.Writer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, alert := range b.alerts {
		_, _ = fmt.Fprintln(w, alert)
	}
	b.alerts = nil
}
