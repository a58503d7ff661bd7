package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ersonp/deckcheck/internal/application/handlers"
	"github.com/ersonp/deckcheck/internal/domain/ports"
	"github.com/ersonp/deckcheck/internal/domain/services"
	"github.com/ersonp/deckcheck/internal/infrastructure/cache"
	"github.com/ersonp/deckcheck/internal/infrastructure/config"
	"github.com/ersonp/deckcheck/internal/infrastructure/images"
	"github.com/ersonp/deckcheck/internal/infrastructure/llm"
	"github.com/ersonp/deckcheck/internal/infrastructure/llm/gemini"
	"github.com/ersonp/deckcheck/internal/infrastructure/llm/openai"
	"github.com/ersonp/deckcheck/internal/infrastructure/logging"
	"github.com/ersonp/deckcheck/internal/infrastructure/pptx"
	"github.com/ersonp/deckcheck/internal/infrastructure/relationaldb/sqlite"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config         *config.Config
	Logger         *zap.Logger
	AnalyzeHandler *handlers.AnalyzeHandler
	// HistoryHandler is nil unless history is enabled.
	HistoryHandler *handlers.HistoryHandler
}

// configSetup binds command flags onto the loader before the config is built.
type configSetup func(cmd *cobra.Command, loader *config.Loader) error

// loadConfig builds the effective configuration for cmd.
// Persistent flags are applied after setup so --verbose always wins.
func loadConfig(cmd *cobra.Command, setup configSetup) (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}

	loader := config.NewLoader()
	if setup != nil {
		if err := setup(cmd, loader); err != nil {
			return nil, err
		}
	}
	if verbose {
		loader.Set("logging.level", "debug")
	}

	cfg, err := loader.Load(cwd, configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// bindFlags maps config keys to the names of cmd's flags. Flags cmd does not define are skipped.
func bindFlags(cmd *cobra.Command, loader *config.Loader, bindings map[string]string) error {
	for key, name := range bindings {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := loader.BindFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Verbose: verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger, nil
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(cmd *cobra.Command, setup configSetup, fn func(*Deps) error) error {
	cfg, err := loadConfig(cmd, setup)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	detector, err := buildDetector(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var history ports.RunHistory
	var historyHandler *handlers.HistoryHandler
	if cfg.History.Enabled {
		repo, err := openHistory(ctx, cfg.History)
		if err != nil {
			return err
		}
		defer repo.Close()
		history = repo
		historyHandler = handlers.NewHistoryHandler(repo)
	}

	extractOpts := extractionOptions(cfg.Analysis)
	files := services.NewExtractionService(pptx.NewReader(logger), extractOpts)
	imageDirs := services.NewExtractionService(images.NewReader(logger), extractOpts)

	rules := services.NewRuleChecker(ruleOptions(cfg.Analysis))
	analyzer := services.NewAnalyzerService(rules, detector, services.AnalyzerOptions{
		ConfidenceThreshold: cfg.Analysis.ConfidenceThreshold,
		EnableAI:            cfg.Analysis.EnableAI,
	}, logger)

	deps := &Deps{
		Config:         cfg,
		Logger:         logger,
		AnalyzeHandler: handlers.NewAnalyzeHandler(files, imageDirs, analyzer, history, logger),
		HistoryHandler: historyHandler,
	}

	return fn(deps)
}

// withHistory opens the run history store whether or not history recording is enabled.
func withHistory(cmd *cobra.Command, fn func(*handlers.HistoryHandler, *config.Config) error) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	repo, err := openHistory(cmd.Context(), cfg.History)
	if err != nil {
		return err
	}
	defer repo.Close()

	return fn(handlers.NewHistoryHandler(repo), cfg)
}

func openHistory(ctx context.Context, cfg config.HistoryConfig) (*sqlite.Repository, error) {
	repo, err := sqlite.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening run history: %w", err)
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("ensuring run history schema: %w", err)
	}
	return repo, nil
}

// buildDetector returns the configured AI backend, or nil when the AI pass cannot run.
// A missing API key only disables the pass; config validation has already rejected
// that case when ai.required is set.
func buildDetector(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.Detector, error) {
	if !cfg.Analysis.EnableAI || cfg.AI.Provider == config.ProviderNone {
		return nil, nil
	}
	if cfg.AI.APIKey == "" {
		logger.Warn("no API key configured, AI pass disabled",
			zap.String("provider", cfg.AI.Provider),
			zap.String("env", cfg.AI.KeyEnvVar()))
		return nil, nil
	}

	var detector ports.Detector
	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		client, err := openai.NewClient(cfg.AI)
		if err != nil {
			return nil, fmt.Errorf("creating openai client: %w", err)
		}
		detector = client
	default:
		client, err := gemini.NewClient(ctx, cfg.AI)
		if err != nil {
			return nil, fmt.Errorf("creating gemini client: %w", err)
		}
		detector = client
	}

	if cfg.Cache.Enabled && cfg.Cache.TTLHours > 0 {
		ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
		store := cache.NewLayeredCache(MemoryCacheTTL, cfg.Cache.Dir, ttl)
		gen := llm.Generation{
			Model:       cfg.AI.EffectiveModel(),
			MaxTokens:   cfg.AI.MaxTokens,
			Temperature: cfg.AI.Temperature,
		}
		detector = llm.NewCachedDetector(detector, gen, store, ttl, logger)
	}

	logger.Debug("AI pass enabled",
		zap.String("provider", cfg.AI.Provider),
		zap.String("model", cfg.AI.EffectiveModel()),
		zap.Bool("cache", cfg.Cache.Enabled))
	return detector, nil
}

// extractionOptions overlays the configured tables on the built-in defaults.
func extractionOptions(a config.AnalysisConfig) services.ExtractionOptions {
	opts := services.DefaultExtractionOptions()
	if len(a.SubjectKeywords) > 0 {
		opts.SubjectKeywords = a.SubjectKeywords
	}
	if len(a.MilestoneKeywords) > 0 {
		opts.MilestoneKeywords = a.MilestoneKeywords
	}
	if len(a.ClaimKeywords) > 0 {
		opts.ClaimKeywords = a.ClaimKeywords
	}
	if len(a.Antonyms) > 0 {
		opts.Antonyms = a.Antonyms
	}
	opts.ProximityWindow = a.ProximityWindow
	opts.MaxClaims = a.MaxClaims
	return opts
}

func ruleOptions(a config.AnalysisConfig) services.RuleOptions {
	opts := services.DefaultRuleOptions()
	opts.RelativeTolerance = a.RelativeTolerance
	opts.EnableNumeric = a.EnableNumeric
	opts.EnableClaims = a.EnableClaims
	opts.EnableTimeline = a.EnableTimeline
	if len(a.Antonyms) > 0 {
		opts.Antonyms = a.Antonyms
	}
	return opts
}
