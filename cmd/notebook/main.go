package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"notebook-ai/internal/apiclient"
	"notebook-ai/internal/config"
	"notebook-ai/internal/notebook"
	"notebook-ai/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		if _, fprintfErr := fmt.Fprintf(os.Stderr, "failed to execute a command: %v\n", err); fprintfErr != nil {
			panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
		}
		stop()
		os.Exit(1)
	}
}

// app carries the settings and backend client shared by every subcommand.
type app struct {
	apiURL  string
	model   string
	timeout time.Duration
	debug   bool

	backend apiclient.Backend
	closer  io.Closer
}

func newRootCommand() *cobra.Command {
	a := &app{}
	rootCommand := &cobra.Command{
		Use:           "notebook",
		Short:         "Chat with your sources and study them with generated flashcards and quizzes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}
	flags := rootCommand.PersistentFlags()
	flags.StringVar(&a.apiURL, "api-url", "", "backend URL (default $NOTEBOOK_API_URL or "+config.DefaultAPIURL+")")
	flags.StringVar(&a.model, "model", "", "model name sent to the backend (default $NOTEBOOK_MODEL or "+config.DefaultModel+")")
	flags.DurationVar(&a.timeout, "timeout", 0, "backend request timeout, 0 for none (default $CLIENT_TIMEOUT)")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging")

	rootCommand.AddCommand(
		newChatCommand(a),
		newFlashcardsCommand(a),
		newQuizCommand(a),
		newReportCommand(a),
	)
	return rootCommand
}

// setup fills unset flags from the environment and connects to the backend.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.apiURL == "" {
		a.apiURL = cfg.APIURL
	}
	if a.model == "" {
		a.model = cfg.Model
	}
	if !cmd.Flags().Changed("timeout") {
		a.timeout = cfg.Timeout
	}

	level := cfg.LogLevel
	if a.debug {
		level = slog.LevelDebug
	}
	setupLogger(cmd.ErrOrStderr(), level)

	if a.backend == nil {
		client := apiclient.New(a.apiURL, a.timeout)
		a.backend = client
		a.closer = client
	}
	slog.Debug("Backend configured", "api_url", a.apiURL, "model", a.model, "timeout", a.timeout)
	return nil
}

// newSession starts an empty in-memory session against the backend.
func (a *app) newSession(alerter session.Alerter) *session.Session {
	return session.New(notebook.NewMemoryStore(), a.backend, alerter, a.model)
}

// setupLogger logs to w so terminal viewers keep stdout to themselves.
func setupLogger(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
