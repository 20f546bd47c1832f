package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"notebook-ai/internal/notebook"
	"notebook-ai/internal/session"
)

const replyWidth = 100

func newChatCommand(a *app) *cobra.Command {
	var flags sourceFlags
	command := &cobra.Command{
		Use:   "chat [question]",
		Short: "Ask questions about your sources",
		Long: `Ask questions answered only from the given sources.
With a question argument the answer is printed once; otherwise questions are read
from standard input one per line until EOF or "exit".

In the interactive loop:
  /new         start a fresh conversation over the same sources
  /history     print the current conversation
  /notebooks   list conversations of this run
  /use N       switch to conversation N`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess := a.newSession(session.AlerterFunc(func(message string) {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), message)
			}))
			nb, err := flags.open(ctx, sess)
			if err != nil {
				return err
			}

			if len(args) > 0 {
				return ask(ctx, sess, nb.ID, strings.Join(args, " "), cmd.OutOrStdout())
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Chatting with %s (%d sources). Type \"exit\" to quit.\n", nb.Title, nb.SourcesCount)
			return chatLoop(ctx, sess, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	flags.register(command)
	return command
}

// chatLoop sends every line to the selected notebook. Lines starting with "/" are loop commands.
func chatLoop(ctx context.Context, sess *session.Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		_, _ = fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "exit" || line == "quit":
			return nil
		case strings.HasPrefix(line, "/"):
			if err := runChatCommand(ctx, sess, line, out); err != nil {
				return err
			}
			continue
		}

		id, ok := sess.Selected()
		if !ok {
			_, _ = fmt.Fprintln(out, "No conversation selected. Use /new or /use N.")
			continue
		}
		if err := ask(ctx, sess, id, line, out); err != nil {
			return err
		}
	}
	_, _ = fmt.Fprintln(out)
	return scanner.Err()
}

func runChatCommand(ctx context.Context, sess *session.Session, line string, out io.Writer) error {
	name, arg, _ := strings.Cut(line, " ")
	switch name {
	case "/new":
		nb, err := restartConversation(ctx, sess)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Started a new conversation over %d sources.\n", nb.SourcesCount)

	case "/history":
		id, ok := sess.Selected()
		if !ok {
			return nil
		}
		messages, err := sess.Messages(ctx, id)
		if err != nil {
			return err
		}
		for _, msg := range messages {
			_, _ = fmt.Fprintf(out, "%s: %s\n", msg.Role, wordwrap.String(msg.Content, replyWidth))
		}

	case "/notebooks":
		notebooks, err := sess.Notebooks(ctx)
		if err != nil {
			return err
		}
		current, _ := sess.Selected()
		for i, nb := range notebooks {
			marker := " "
			if nb.ID == current {
				marker = "*"
			}
			_, _ = fmt.Fprintf(out, "%s %d. %s (%s)\n", marker, i+1, nb.Title, nb.CreatedAt.Local().Format("15:04:05"))
		}

	case "/use":
		notebooks, err := sess.Notebooks(ctx)
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil || n < 1 || n > len(notebooks) {
			_, _ = fmt.Fprintf(out, "No conversation %q.\n", arg)
			return nil
		}
		if err := sess.Select(ctx, notebooks[n-1].ID); err != nil {
			return err
		}

	default:
		_, _ = fmt.Fprintf(out, "Unknown command %s. Try /new, /history, /notebooks or /use N.\n", name)
	}
	return nil
}

// restartConversation copies the selected notebook's sources into a new, selected notebook.
// Replies still in flight for the old conversation are discarded.
func restartConversation(ctx context.Context, sess *session.Session) (notebook.Notebook, error) {
	id, ok := sess.Selected()
	if !ok {
		return notebook.Notebook{}, errNoSourceFlags
	}
	old, err := sess.Notebook(ctx, id)
	if err != nil {
		return notebook.Notebook{}, err
	}
	sources, err := sess.Sources(ctx, id)
	if err != nil {
		return notebook.Notebook{}, err
	}
	sess.Reset(id)

	nb, err := sess.CreateNotebook(ctx, notebook.NotebookDraft{Title: old.Title, Emoji: old.Emoji})
	if err != nil {
		return notebook.Notebook{}, err
	}
	for _, src := range sources {
		if _, _, err := sess.AddSource(ctx, notebook.SourceDraft{Title: src.Title, Type: src.Type, Content: src.Content}); err != nil {
			return notebook.Notebook{}, err
		}
	}
	return sess.Notebook(ctx, nb.ID)
}

func ask(ctx context.Context, sess *session.Session, notebookID, question string, out io.Writer) error {
	msg, err := sess.SendMessage(ctx, notebookID, question)
	if errors.Is(err, session.ErrNoSources) {
		return errNoSourceFlags
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n\n", wordwrap.String(msg.Content, replyWidth))
	return err
}
