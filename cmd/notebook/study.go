package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"notebook-ai/internal/study"
	"notebook-ai/internal/tui"
)

func newFlashcardsCommand(a *app) *cobra.Command {
	var flags sourceFlags
	var plain bool
	command := &cobra.Command{
		Use:   "flashcards",
		Short: "Generate flashcards from your sources and study them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			alerts := &alertBuffer{}
			defer alerts.flush(cmd.ErrOrStderr())

			sess := a.newSession(alerts)
			nb, err := flags.open(ctx, sess)
			if err != nil {
				return err
			}
			load := func(ctx context.Context) ([]study.Flashcard, error) {
				return sess.GenerateFlashcards(ctx, nb.ID)
			}

			if plain {
				cards, err := load(ctx)
				if err != nil {
					return err
				}
				return printFlashcards(cmd.OutOrStdout(), cards)
			}

			model := tui.NewDeckModel(ctx, nb.Title, load)
			if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
				return err
			}
			return model.Err()
		},
	}
	flags.register(command)
	command.Flags().BoolVar(&plain, "plain", false, "print the cards instead of opening the viewer")
	return command
}

func newQuizCommand(a *app) *cobra.Command {
	var flags sourceFlags
	var plain bool
	command := &cobra.Command{
		Use:   "quiz",
		Short: "Generate a multiple-choice quiz from your sources and take it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			alerts := &alertBuffer{}
			defer alerts.flush(cmd.ErrOrStderr())

			sess := a.newSession(alerts)
			nb, err := flags.open(ctx, sess)
			if err != nil {
				return err
			}
			load := func(ctx context.Context) ([]study.QuizQuestion, error) {
				return sess.GenerateQuiz(ctx, nb.ID)
			}

			if plain {
				questions, err := load(ctx)
				if err != nil {
					return err
				}
				return printQuiz(cmd.OutOrStdout(), questions)
			}

			model := tui.NewQuizModel(ctx, nb.Title, load)
			if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
				return err
			}
			if model.Submitted() {
				_, answered := model.Quiz().Score()
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Answered %d of %d questions.\n", answered, model.Quiz().Len())
			}
			return model.Err()
		},
	}
	flags.register(command)
	command.Flags().BoolVar(&plain, "plain", false, "print the questions instead of opening the viewer")
	return command
}

func printFlashcards(w io.Writer, cards []study.Flashcard) error {
	if len(cards) == 0 {
		_, err := fmt.Fprintln(w, "No flashcards were generated.")
		return err
	}
	for i, card := range cards {
		if _, err := fmt.Fprintf(w, "%d. %s\n   %s\n\n", i+1, card.Question, card.Answer); err != nil {
			return err
		}
	}
	return nil
}

// printQuiz lists questions and options without marking the correct answers.
func printQuiz(w io.Writer, questions []study.QuizQuestion) error {
	if len(questions) == 0 {
		_, err := fmt.Fprintln(w, "No quiz questions were generated.")
		return err
	}
	for i, q := range questions {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, q.Question); err != nil {
			return err
		}
		for _, opt := range q.Options {
			if _, err := fmt.Fprintf(w, "   %s) %s\n", opt.Label, opt.Text); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
