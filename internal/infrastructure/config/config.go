// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ersonp/deckcheck/internal/domain/entities"
	"github.com/ersonp/deckcheck/internal/domain/services"
)

const (
	// DefaultConfigFile is the config file looked up in the working directory.
	DefaultConfigFile = ".deckcheck.yaml"
	// DefaultTOMLConfigFile is the TOML alternative to DefaultConfigFile.
	DefaultTOMLConfigFile = ".deckcheck.toml"
	// DefaultStateDir holds the cache and run history.
	DefaultStateDir = ".deckcheck"
	// EnvPrefix prefixes environment overrides, e.g. DECKCHECK_AI_MODEL.
	EnvPrefix = "DECKCHECK"
)

// AI providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

var (
	validProviders = []string{ProviderGemini, ProviderOpenAI, ProviderNone}
	// ValidFormats lists the report formats accepted by output.format.
	ValidFormats   = []string{"console", "json", "csv"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
	validLogFormat = []string{"console", "json"}
)

// Config holds the effective configuration (read-only after Load).
type Config struct {
	AI       AIConfig       `yaml:"ai" toml:"ai"`
	Analysis AnalysisConfig `yaml:"analysis" toml:"analysis"`
	Output   OutputConfig   `yaml:"output" toml:"output"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
	Cache    CacheConfig    `yaml:"cache" toml:"cache"`
	History  HistoryConfig  `yaml:"history" toml:"history"`
}

// AIConfig holds configuration for the AI backend.
type AIConfig struct {
	Provider       string  `yaml:"provider" toml:"provider"`
	Model          string  `yaml:"model,omitempty" toml:"model,omitempty"`
	APIKey         string  `yaml:"api_key,omitempty" toml:"api_key,omitempty"`
	BaseURL        string  `yaml:"base_url,omitempty" toml:"base_url,omitempty"`
	MaxTokens      int     `yaml:"max_tokens" toml:"max_tokens"`
	Temperature    float64 `yaml:"temperature" toml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds" toml:"timeout_seconds"`
	// Required makes a missing credential a configuration error instead of a degradation.
	Required bool `yaml:"required" toml:"required"`
}

// AnalysisConfig holds the rule tuning and pass toggles.
type AnalysisConfig struct {
	ConfidenceThreshold float64                 `yaml:"confidence_threshold" toml:"confidence_threshold"`
	RelativeTolerance   float64                 `yaml:"relative_tolerance" toml:"relative_tolerance"`
	ProximityWindow     int                     `yaml:"proximity_window" toml:"proximity_window"`
	MaxClaims           int                     `yaml:"max_claims" toml:"max_claims"`
	EnableNumeric       bool                    `yaml:"enable_numeric" toml:"enable_numeric"`
	EnableClaims        bool                    `yaml:"enable_claims" toml:"enable_claims"`
	EnableTimeline      bool                    `yaml:"enable_timeline" toml:"enable_timeline"`
	EnableAI            bool                    `yaml:"enable_ai" toml:"enable_ai"`
	SubjectKeywords     []string                `yaml:"subject_keywords,omitempty" toml:"subject_keywords,omitempty"`
	MilestoneKeywords   []string                `yaml:"milestone_keywords,omitempty" toml:"milestone_keywords,omitempty"`
	ClaimKeywords       []string                `yaml:"claim_keywords,omitempty" toml:"claim_keywords,omitempty"`
	Antonyms            []services.AntonymTopic `yaml:"antonyms,omitempty" toml:"antonyms,omitempty"`
}

// OutputConfig holds report defaults.
type OutputConfig struct {
	Format string `yaml:"format" toml:"format"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// CacheConfig holds the AI response cache settings.
type CacheConfig struct {
	Enabled  bool   `yaml:"enabled" toml:"enabled"`
	Dir      string `yaml:"dir,omitempty" toml:"dir,omitempty"`
	TTLHours int    `yaml:"ttl_hours" toml:"ttl_hours"`
}

// HistoryConfig holds the run history store settings.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path,omitempty" toml:"path,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		AI: AIConfig{
			Provider:       ProviderGemini,
			MaxTokens:      8192,
			Temperature:    0.1,
			TimeoutSeconds: 60,
		},
		Analysis: AnalysisConfig{
			ConfidenceThreshold: services.DefaultConfidenceThreshold,
			RelativeTolerance:   services.DefaultRelativeTolerance,
			ProximityWindow:     services.DefaultProximityWindow,
			MaxClaims:           services.DefaultMaxClaims,
			EnableNumeric:       true,
			EnableClaims:        true,
			EnableTimeline:      true,
			EnableAI:            true,
		},
		Output: OutputConfig{
			Format: "console",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Cache: CacheConfig{
			Enabled:  true,
			TTLHours: 24,
		},
	}
}

// DefaultModel returns the model used when ai.model is not set.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderGemini:
		return "gemini-2.0-flash"
	}
	return ""
}

// EffectiveModel returns the configured model or the provider default.
func (c AIConfig) EffectiveModel() string {
	if c.Model != "" {
		return c.Model
	}
	return DefaultModel(c.Provider)
}

// Loader layers defaults, a config file, environment and flags into a Config.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader reading DECKCHECK_* environment overrides.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// BindFlag makes a command-line flag override the given config key when set.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("binding %s: flag not defined", key)
	}
	if err := l.v.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("binding %s: %w", key, err)
	}
	return nil
}

// Set forces a key to a value, above every other layer.
func (l *Loader) Set(key string, value any) {
	l.v.Set(key, value)
}

// Load builds the configuration. If path is empty, DefaultConfigFile or
// DefaultTOMLConfigFile in baseDir is used when present. The result is validated.
func (l *Loader) Load(baseDir, path string) (*Config, error) {
	cfg := Default()

	file, err := resolveConfigFile(baseDir, path)
	if err != nil {
		return nil, err
	}
	if file != "" {
		if err := decodeFile(file, cfg); err != nil {
			return nil, err
		}
	}

	l.applyOverrides(cfg)
	cfg.applyEnvOverrides()
	cfg.resolvePaths(baseDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveConfigFile(baseDir, path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file %s: %w", path, errors.Join(entities.ErrConfig, err))
		}
		return path, nil
	}
	for _, name := range []string{DefaultConfigFile, ".deckcheck.yml", DefaultTOMLConfigFile} {
		candidate := filepath.Join(baseDir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, errors.Join(entities.ErrConfig, err))
	}
	return nil
}

// applyOverrides copies every key set through the environment or a changed flag.
func (l *Loader) applyOverrides(c *Config) {
	v := l.v
	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	num := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}
	flt := func(key string, dst *float64) {
		if v.IsSet(key) {
			*dst = v.GetFloat64(key)
		}
	}
	flag := func(key string, dst *bool) {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}
	list := func(key string, dst *[]string) {
		if v.IsSet(key) {
			*dst = v.GetStringSlice(key)
		}
	}

	str("ai.provider", &c.AI.Provider)
	str("ai.model", &c.AI.Model)
	str("ai.api_key", &c.AI.APIKey)
	str("ai.base_url", &c.AI.BaseURL)
	num("ai.max_tokens", &c.AI.MaxTokens)
	flt("ai.temperature", &c.AI.Temperature)
	num("ai.timeout_seconds", &c.AI.TimeoutSeconds)
	flag("ai.required", &c.AI.Required)

	flt("analysis.confidence_threshold", &c.Analysis.ConfidenceThreshold)
	flt("analysis.relative_tolerance", &c.Analysis.RelativeTolerance)
	num("analysis.proximity_window", &c.Analysis.ProximityWindow)
	num("analysis.max_claims", &c.Analysis.MaxClaims)
	flag("analysis.enable_numeric", &c.Analysis.EnableNumeric)
	flag("analysis.enable_claims", &c.Analysis.EnableClaims)
	flag("analysis.enable_timeline", &c.Analysis.EnableTimeline)
	flag("analysis.enable_ai", &c.Analysis.EnableAI)
	list("analysis.subject_keywords", &c.Analysis.SubjectKeywords)
	list("analysis.milestone_keywords", &c.Analysis.MilestoneKeywords)
	list("analysis.claim_keywords", &c.Analysis.ClaimKeywords)

	str("output.format", &c.Output.Format)
	str("logging.level", &c.Logging.Level)
	str("logging.format", &c.Logging.Format)

	flag("cache.enabled", &c.Cache.Enabled)
	str("cache.dir", &c.Cache.Dir)
	num("cache.ttl_hours", &c.Cache.TTLHours)

	flag("history.enabled", &c.History.Enabled)
	str("history.path", &c.History.Path)
}

// applyEnvOverrides fills the API key from the provider's conventional variable.
func (c *Config) applyEnvOverrides() {
	if c.AI.APIKey != "" {
		return
	}
	switch c.AI.Provider {
	case ProviderGemini:
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			c.AI.APIKey = key
		} else if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
			c.AI.APIKey = key
		}
	case ProviderOpenAI:
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			c.AI.APIKey = key
		}
	}
}

func (c *Config) resolvePaths(baseDir string) {
	if c.Cache.Dir == "" {
		c.Cache.Dir = filepath.Join(baseDir, DefaultStateDir, "cache")
	}
	if c.History.Path == "" {
		c.History.Path = filepath.Join(baseDir, DefaultStateDir, "history.db")
	}
}

// Validate checks every option and fails on the first invalid one.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", entities.ErrConfig, fmt.Sprintf(format, args...))
	}

	if !slices.Contains(validProviders, c.AI.Provider) {
		return invalid("ai.provider %q must be one of %s", c.AI.Provider, strings.Join(validProviders, ", "))
	}
	if c.AI.MaxTokens <= 0 {
		return invalid("ai.max_tokens must be positive, got %d", c.AI.MaxTokens)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return invalid("ai.temperature must be within [0, 2], got %v", c.AI.Temperature)
	}
	if c.AI.TimeoutSeconds <= 0 {
		return invalid("ai.timeout_seconds must be positive, got %d", c.AI.TimeoutSeconds)
	}
	if c.AI.Required {
		if c.AI.Provider == ProviderNone || !c.Analysis.EnableAI {
			return invalid("ai.required is set but the AI pass is disabled")
		}
		if c.AI.APIKey == "" {
			return invalid("ai.required is set but no API key was found for %s (set %s)", c.AI.Provider, c.AI.KeyEnvVar())
		}
	}

	if c.Analysis.ConfidenceThreshold < 0 || c.Analysis.ConfidenceThreshold > 1 {
		return invalid("analysis.confidence_threshold must be within [0, 1], got %v", c.Analysis.ConfidenceThreshold)
	}
	if c.Analysis.RelativeTolerance < 0 {
		return invalid("analysis.relative_tolerance must not be negative, got %v", c.Analysis.RelativeTolerance)
	}
	if c.Analysis.ProximityWindow < 1 {
		return invalid("analysis.proximity_window must be at least 1, got %d", c.Analysis.ProximityWindow)
	}
	if c.Analysis.MaxClaims < 0 {
		return invalid("analysis.max_claims must not be negative, got %d", c.Analysis.MaxClaims)
	}
	for _, t := range c.Analysis.Antonyms {
		if t.Topic == "" || len(t.Positive) == 0 || len(t.Negative) == 0 {
			return invalid("analysis.antonyms entries need a topic and both phrase lists")
		}
	}

	if !slices.Contains(ValidFormats, c.Output.Format) {
		return fmt.Errorf("%w: output.format %q (valid: %s): %w",
			entities.ErrConfig, c.Output.Format, strings.Join(ValidFormats, ", "), entities.ErrUnsupportedFormat)
	}
	if !slices.Contains(validLogLevels, c.Logging.Level) {
		return invalid("logging.level %q must be one of %s", c.Logging.Level, strings.Join(validLogLevels, ", "))
	}
	if !slices.Contains(validLogFormat, c.Logging.Format) {
		return invalid("logging.format %q must be one of %s", c.Logging.Format, strings.Join(validLogFormat, ", "))
	}
	if c.Cache.TTLHours < 0 {
		return invalid("cache.ttl_hours must not be negative, got %d", c.Cache.TTLHours)
	}
	return nil
}

// KeyEnvVar names the environment variable holding the provider's API key.
func (c AIConfig) KeyEnvVar() string {
	if c.Provider == ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return "GEMINI_API_KEY"
}

// AIEnabled reports whether the AI pass can run with this configuration.
func (c *Config) AIEnabled() bool {
	return c.Analysis.EnableAI && c.AI.Provider != ProviderNone && c.AI.APIKey != ""
}

// Redacted returns a copy safe to print, with the API key masked.
func (c *Config) Redacted() *Config {
	out := *c
	if out.AI.APIKey != "" {
		out.AI.APIKey = "<redacted>"
	}
	return &out
}
