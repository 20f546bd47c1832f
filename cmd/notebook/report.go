package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"notebook-ai/internal/apiclient"
)

const (
	reportModeAgents = "agents"
	reportModeDirect = "direct"
)

func newReportCommand(a *app) *cobra.Command {
	var mode, output string
	command := &cobra.Command{
		Use:   "report <topic>",
		Short: "Generate a Markdown research report on a topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if mode != reportModeAgents && mode != reportModeDirect {
				return fmt.Errorf("--mode must be %q or %q, got %q", reportModeAgents, reportModeDirect, mode)
			}
			topic := strings.TrimSpace(strings.Join(args, " "))
			if topic == "" {
				return fmt.Errorf("topic is required")
			}

			report, err := a.backend.GenerateReport(cmd.Context(), apiclient.ReportRequest{
				Topic: topic,
				Model: a.model,
				Mode:  mode,
			})
			if err != nil {
				return fmt.Errorf("failed to generate report: %w", err)
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(report), 0o644); err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", output)
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), report)
			return err
		},
	}
	command.Flags().StringVar(&mode, "mode", reportModeAgents, "agents (research, synthesis, editing) or direct (single completion)")
	command.Flags().StringVarP(&output, "output", "o", "", "write the report to a file instead of stdout")
	return command
}
