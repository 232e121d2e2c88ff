package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete layercheck configuration
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	RepoRoot string `json:"repoRoot" mapstructure:"repoRoot"`

	// RulesFile points at the architecture rules file (rules.toml,
	// rules.yaml or rules.json). Empty means the inline Rules section below
	// is authoritative.
	RulesFile string `json:"rulesFile" mapstructure:"rulesFile"`

	Rules   RulesConfig   `json:"rules" mapstructure:"rules"`
	Collect CollectConfig `json:"collect" mapstructure:"collect"`
	Report  ReportConfig  `json:"report" mapstructure:"report"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// CollectConfig controls how call facts are gathered
type CollectConfig struct {
	// Language selects the static collector: "python" or "go".
	Language string `json:"language" mapstructure:"language"`
	// Paths are the source roots handed to the static collector.
	Paths []string `json:"paths" mapstructure:"paths"`
	// Ignore lists directory names skipped during source walks.
	Ignore []string `json:"ignore" mapstructure:"ignore"`
	// TraceFile is an optional runtime trace to merge in.
	TraceFile string `json:"traceFile" mapstructure:"traceFile"`
}

// ReportConfig controls violation output
type ReportConfig struct {
	// Format is one of "console", "json", "plain", "sarif".
	Format string `json:"format" mapstructure:"format"`
	// ShowSuggestions toggles fix suggestions in console output.
	ShowSuggestions bool `json:"showSuggestions" mapstructure:"showSuggestions"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		RepoRoot: ".",
		Rules: RulesConfig{
			KnownFrameworks: []string{},
		},
		Collect: CollectConfig{
			Language: "python",
			Paths:    []string{"."},
			Ignore:   []string{"node_modules", "vendor", ".venv", "__pycache__", "build"},
		},
		Report: ReportConfig{
			Format:          "console",
			ShowSuggestions: true,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .layercheck/config.json, falling back
// to defaults when the file does not exist. A rules file referenced by the
// config is merged over the inline rules.
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("repoRoot", ".")
	v.SetDefault("collect.language", "python")
	v.SetDefault("report.format", "console")
	v.SetDefault("report.showSuggestions", true)
	v.SetDefault("logging.format", "human")
	v.SetDefault("logging.level", "info")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, ".layercheck"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.RulesFile != "" {
		rules, err := LoadRules(filepath.Join(repoRoot, cfg.RulesFile))
		if err != nil {
			return nil, err
		}
		cfg.Rules = *rules
	}

	return &cfg, nil
}

// Save writes the configuration to .layercheck/config.json
func (c *Config) Save(repoRoot string) error {
	configPath := filepath.Join(repoRoot, ".layercheck", "config.json")

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	switch c.Collect.Language {
	case "python", "go":
	default:
		return &ConfigError{Field: "collect.language", Message: "must be 'python' or 'go'"}
	}
	switch c.Report.Format {
	case "console", "json", "plain", "sarif":
	default:
		return &ConfigError{Field: "report.format", Message: "unknown report format"}
	}
	return c.Rules.Validate()
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
