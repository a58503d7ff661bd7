package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/ersonp/deckcheck/internal/application/handlers"
	"github.com/ersonp/deckcheck/internal/domain/entities"
	"github.com/ersonp/deckcheck/internal/infrastructure/config"
	"github.com/ersonp/deckcheck/internal/infrastructure/report"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded analysis runs",
		Long:  "Lists and shows runs recorded with 'analyze --history' (or history.enabled in the config).",
	}

	cmd.AddCommand(
		newHistoryListCmd(),
		newHistoryShowCmd(),
		newHistoryDeleteCmd(),
	)

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, func(h *handlers.HistoryHandler, _ *config.Config) error {
				runs, err := h.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderRuns(runs))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", handlers.DefaultHistoryLimit, "Maximum number of runs to display")

	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the findings of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutputPath(output); err != nil {
				return err
			}
			return withHistory(cmd, func(h *handlers.HistoryHandler, cfg *config.Config) error {
				run, err := h.Show(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if format == "" {
					format = cfg.Output.Format
				}
				renderer, err := newRenderer(format, output, cmd.OutOrStdout())
				if err != nil {
					return err
				}
				return report.Write(output, renderer, runReport(run), cmd.OutOrStdout())
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Report format: console, json or csv (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to this file instead of stdout")

	return cmd
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, func(h *handlers.HistoryHandler, _ *config.Config) error {
				if err := h.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
				return nil
			})
		},
	}
}

func runReport(run *entities.Run) *report.Report {
	return &report.Report{
		Findings: run.Findings,
		Summary: &report.Summary{
			Source:     run.Source,
			SlideCount: run.SlideCount,
			AI:         entities.AIOutcome{Status: run.AIStatus, Backend: run.AIBackend},
		},
	}
}

func renderRuns(runs []entities.Run) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"ID", "Created", "Source", "Slides", "Skipped", "Findings", "AI"})
	for _, r := range runs {
		ai := string(r.AIStatus)
		if r.AIBackend != "" {
			ai += " (" + r.AIBackend + ")"
		}
		t.AppendRow(table.Row{
			r.ID,
			r.CreatedAt.Local().Format(time.DateTime),
			r.Source,
			r.SlideCount,
			r.SkippedCount,
			r.FindingCount,
			ai,
		})
	}
	return t.Render()
}
