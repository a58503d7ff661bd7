package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigYAML is the documented default configuration written by "config init".
const DefaultConfigYAML = `# deckcheck configuration

ai:
  # gemini, openai or none
  provider: gemini
  # model: gemini-2.0-flash
  # api_key: your-api-key (or set GEMINI_API_KEY / OPENAI_API_KEY)
  # base_url: override the API endpoint
  max_tokens: 8192
  temperature: 0.1
  timeout_seconds: 60
  # fail before analysis when no API key is available
  required: false

analysis:
  # findings below this confidence are not reported
  confidence_threshold: 0.7
  # numbers differing by more than this fraction conflict
  relative_tolerance: 0.05
  # words between a number and its subject keyword
  proximity_window: 6
  max_claims: 10
  enable_numeric: true
  enable_claims: true
  enable_timeline: true
  enable_ai: true
  # subject_keywords: [revenue, "savings|saved", ...]
  # milestone_keywords: [launch, beta, ...]
  # antonyms:
  #   - topic: competition
  #     positive: [highly competitive, crowded market]
  #     negative: [few competitors, no competition]

output:
  # console, json or csv
  format: console

logging:
  level: info
  format: console

cache:
  enabled: true
  ttl_hours: 24
  # dir: .deckcheck/cache

history:
  enabled: false
  # path: .deckcheck/history.db
`

// WriteDefault writes DefaultConfigYAML to basePath. It refuses to overwrite.
func WriteDefault(basePath string) (string, error) {
	configFile := filepath.Join(basePath, DefaultConfigFile)

	if _, err := os.Stat(configFile); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configFile)
	}

	if err := os.WriteFile(configFile, []byte(DefaultConfigYAML), 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configFile, nil
}

// Marshal renders the config as YAML with the API key redacted.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg.Redacted())
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// Exists checks if a config file exists in the given path.
func Exists(basePath string) bool {
	for _, name := range []string{DefaultConfigFile, ".deckcheck.yml", DefaultTOMLConfigFile} {
		if _, err := os.Stat(filepath.Join(basePath, name)); err == nil {
			return true
		}
	}
	return false
}
