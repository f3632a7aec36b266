// Package config loads and saves the tally configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultDirName is the per-workspace directory tally keeps its state in.
const DefaultDirName = ".tally"

// Config holds all tally configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Console output
	Output OutputConfig `yaml:"output"`

	// History persistence
	History HistoryConfig `yaml:"history"`

	// Results export
	Export ExportConfig `yaml:"export"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// OutputConfig controls how results are printed.
type OutputConfig struct {
	Precision int    `yaml:"precision"` // decimal places, -1 = shortest form
	Format    string `yaml:"format"`    // text, json
}

// HistoryConfig controls history persistence.
type HistoryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"`
	SessionTTL   string `yaml:"session_ttl"`
}

// ExportConfig controls the results JSON file.
type ExportConfig struct {
	ResultsPath string `yaml:"results_path"`
	Pretty      bool   `yaml:"pretty"`
}

// LoggingConfig configures the categorized file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"` // debug, info, warn, error
	Categories map[string]bool `yaml:"categories"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "tally",
		Version: "1.0.0",

		Output: OutputConfig{
			Precision: -1,
			Format:    "text",
		},

		History: HistoryConfig{
			Enabled:      true,
			DatabasePath: filepath.Join(DefaultDirName, "tally.db"),
			SessionTTL:   "24h",
		},

		Export: ExportConfig{
			ResultsPath: "output.json",
			Pretty:      true,
		},

		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load loads configuration from a YAML file.
// A missing file is not an error; defaults are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("TALLY_DB"); path != "" {
		c.History.DatabasePath = path
	}
	if path := os.Getenv("TALLY_RESULTS"); path != "" {
		c.Export.ResultsPath = path
	}
	if p := os.Getenv("TALLY_PRECISION"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			c.Output.Precision = n
		}
	}
	if lvl := os.Getenv("TALLY_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid output format %q (want text or json)", c.Output.Format)
	}

	if c.History.Enabled && c.History.DatabasePath == "" {
		return fmt.Errorf("history enabled but database_path is empty")
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}

	return nil
}

// GetSessionTTL returns the session TTL as a duration.
func (c *Config) GetSessionTTL() time.Duration {
	d, err := time.ParseDuration(c.History.SessionTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// DefaultPath returns the config path inside a workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, DefaultDirName, "config.yaml")
}
