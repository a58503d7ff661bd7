package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/deckcheck/internal/application/handlers"
	"github.com/ersonp/deckcheck/internal/domain/entities"
	"github.com/ersonp/deckcheck/internal/infrastructure/config"
	"github.com/ersonp/deckcheck/internal/infrastructure/report"
)

func newShowCmd() *cobra.Command {
	var (
		inputFormat string
		format      string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "show <report>",
		Short: "Re-render a saved JSON or CSV report",
		Long:  "Reads a report written by 'analyze --format json|csv' and renders it again, e.g. as a console table.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0], inputFormat, format, output)
		},
	}

	cmd.Flags().StringVar(&inputFormat, "input-format", "auto", "Format of the saved report (auto, json, csv)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: console, json or csv (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to this file instead of stdout")

	return cmd
}

func runShow(cmd *cobra.Command, path, inputFormat, format, output string) error {
	if !slices.Contains(validInputFormats, inputFormat) {
		return fmt.Errorf("input format %q (valid: %s): %w",
			inputFormat, strings.Join(validInputFormats, ", "), entities.ErrUnsupportedFormat)
	}
	if err := checkOutputPath(output); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, func(cmd *cobra.Command, loader *config.Loader) error {
		return bindFlags(cmd, loader, map[string]string{"output.format": "format"})
	})
	if err != nil {
		return err
	}

	renderer, err := newRenderer(cfg.Output.Format, output, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	findings, err := handlers.NewShowHandler().Handle(cmd.Context(), path, inputFormat)
	if err != nil {
		return err
	}

	return report.Write(output, renderer, &report.Report{Findings: findings}, cmd.OutOrStdout())
}
