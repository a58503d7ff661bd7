package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ersonp/deckcheck/internal/application/handlers"
	"github.com/ersonp/deckcheck/internal/infrastructure/report"
)

type watchFlags struct {
	format     string
	aiProvider string
	noCache    bool
	history    bool
}

func newWatchCmd() *cobra.Command {
	var flags watchFlags

	cmd := &cobra.Command{
		Use:   "watch <deck.pptx>",
		Short: "Re-analyze a presentation every time it is saved",
		Long:  "Runs the analysis once, then again whenever the file changes, until interrupted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "", "Report format: console, json or csv (default from config)")
	cmd.Flags().StringVar(&flags.aiProvider, "ai-provider", "", "AI backend (gemini, openai, none)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "Do not reuse cached AI responses")
	cmd.Flags().BoolVar(&flags.history, "history", false, "Record every run in the history store")

	return cmd
}

func runWatch(cmd *cobra.Command, path string, flags watchFlags) error {
	ctx := cmd.Context()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	return withDeps(cmd, analyzeSetup(flags.noCache), func(d *Deps) error {
		renderer, err := newRenderer(d.Config.Output.Format, "", cmd.OutOrStdout())
		if err != nil {
			return err
		}

		analyze := func() error {
			analysis, err := d.AnalyzeHandler.Handle(ctx, handlers.AnalyzeRequest{Path: absPath, Kind: handlers.SourceFile})
			if err != nil {
				return err
			}
			return report.Write("", renderer, report.FromAnalysis(analysis), cmd.OutOrStdout())
		}

		// The first run validates the path; later failures are usually a save in progress.
		if err := analyze(); err != nil {
			return err
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		defer watcher.Close()

		// Editors often replace the file, so watch its directory.
		if err := watcher.Add(filepath.Dir(absPath)); err != nil {
			return fmt.Errorf("watching %s: %w", filepath.Dir(absPath), err)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes (Ctrl+C to stop)\n", absPath)

		return watchLoop(ctx, watcher, absPath, WatchDebounce, func() {
			fmt.Fprintf(cmd.ErrOrStderr(), "\n%s changed, re-analyzing...\n", filepath.Base(absPath))
			if err := analyze(); err != nil && !errors.Is(err, context.Canceled) {
				d.Logger.Error("analysis failed", zap.String("path", absPath), zap.Error(err))
			}
		})
	})
}

// watchLoop calls onChange once per burst of writes to target, after debounce has
// passed without further events. It returns nil when ctx is done.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, target string, debounce time.Duration, onChange func()) error {
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			timer.Reset(debounce)
		case <-timer.C:
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching %s: %w", target, err)
		}
	}
}
