package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ersonp/deckcheck/internal/application/handlers"
	"github.com/ersonp/deckcheck/internal/domain/entities"
	"github.com/ersonp/deckcheck/internal/infrastructure/config"
	"github.com/ersonp/deckcheck/internal/infrastructure/report"
)

type analyzeFlags struct {
	file       string
	images     string
	format     string
	output     string
	threshold  float64
	tolerance  float64
	aiProvider string
	requireAI  bool
	noCache    bool
	history    bool
}

func newAnalyzeCmd() *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Check a presentation for inconsistencies",
		Long: `Extracts the text of every slide, runs the rule-based checks and the AI pass,
and reports the inconsistencies found. Without an API key the AI pass is skipped
and only rule-based findings are reported.`,
		Example: `  deckcheck analyze --file deck.pptx
  deckcheck analyze --file deck.pptx --format json --output report.json
  deckcheck analyze --images ./slides --ai-provider none`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "Presentation file (.pptx)")
	cmd.Flags().StringVarP(&flags.images, "images", "i", "", "Directory of exported slide images")
	cmd.Flags().StringVar(&flags.format, "format", "", "Report format: console, json or csv (default from config)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().Float64Var(&flags.threshold, "threshold", 0, "Minimum confidence of reported findings (default from config)")
	cmd.Flags().Float64Var(&flags.tolerance, "tolerance", 0, "Relative difference at which numbers conflict (default from config)")
	cmd.Flags().StringVar(&flags.aiProvider, "ai-provider", "", "AI backend (gemini, openai, none)")
	cmd.Flags().BoolVar(&flags.requireAI, "require-ai", false, "Fail if the AI pass cannot run")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "Do not reuse cached AI responses")
	cmd.Flags().BoolVar(&flags.history, "history", false, "Record the run in the history store")

	cmd.MarkFlagsMutuallyExclusive("file", "images")
	cmd.MarkFlagsOneRequired("file", "images")

	return cmd
}

// analyzeSetup binds the analysis flags shared by analyze and watch.
func analyzeSetup(noCache bool) configSetup {
	return func(cmd *cobra.Command, loader *config.Loader) error {
		if err := bindFlags(cmd, loader, map[string]string{
			"output.format":                 "format",
			"analysis.confidence_threshold": "threshold",
			"analysis.relative_tolerance":   "tolerance",
			"ai.provider":                   "ai-provider",
			"ai.required":                   "require-ai",
			"history.enabled":               "history",
		}); err != nil {
			return err
		}
		if noCache {
			loader.Set("cache.enabled", false)
		}
		return nil
	}
}

func runAnalyze(cmd *cobra.Command, flags analyzeFlags) error {
	if err := checkOutputPath(flags.output); err != nil {
		return err
	}

	req := handlers.AnalyzeRequest{Path: flags.file, Kind: handlers.SourceFile}
	if flags.images != "" {
		req = handlers.AnalyzeRequest{Path: flags.images, Kind: handlers.SourceImages}
	}

	return withDeps(cmd, analyzeSetup(flags.noCache), func(d *Deps) error {
		renderer, err := newRenderer(d.Config.Output.Format, flags.output, cmd.OutOrStdout())
		if err != nil {
			return err
		}

		analysis, err := d.AnalyzeHandler.Handle(cmd.Context(), req)
		if err != nil {
			return err
		}

		if err := report.Write(flags.output, renderer, report.FromAnalysis(analysis), cmd.OutOrStdout()); err != nil {
			return err
		}
		if !isStdout(flags.output) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Report with %d findings written to %s\n", len(analysis.Findings), flags.output)
		}
		return nil
	})
}

// newRenderer picks the renderer for format. Console output is coloured only on a terminal.
func newRenderer(format, output string, stdout io.Writer) (report.Renderer, error) {
	color := isStdout(output) && colorEnabled(stdout)
	return report.ForFormat(format, report.Options{Color: color})
}

func isStdout(output string) bool {
	return output == "" || output == "-"
}

func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// checkOutputPath fails before any processing when the report could not be written.
func checkOutputPath(output string) error {
	if isStdout(output) {
		return nil
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return fmt.Errorf("output %s is a directory: %w", output, entities.ErrOutput)
	}
	dir := filepath.Dir(output)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("output directory %s: %w: %w", dir, entities.ErrOutput, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output directory %s is not a directory: %w", dir, entities.ErrOutput)
	}
	return nil
}
