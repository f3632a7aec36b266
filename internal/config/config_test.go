package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "tally" {
		t.Errorf("expected Name=tally, got %s", cfg.Name)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("expected Format=text, got %s", cfg.Output.Format)
	}
	if !cfg.History.Enabled {
		t.Error("expected history enabled by default")
	}
	if cfg.Export.ResultsPath != "output.json" {
		t.Errorf("expected ResultsPath=output.json, got %s", cfg.Export.ResultsPath)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	// Ensure no env vars interfere
	t.Setenv("TALLY_DB", "")
	t.Setenv("TALLY_RESULTS", "")
	t.Setenv("TALLY_PRECISION", "")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Output.Precision = 4
	cfg.History.DatabasePath = "custom/tally.db"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Output.Precision != 4 {
		t.Errorf("expected Precision=4, got %d", loaded.Output.Precision)
	}
	if loaded.History.DatabasePath != "custom/tally.db" {
		t.Errorf("expected DatabasePath=custom/tally.db, got %s", loaded.History.DatabasePath)
	}
}

func TestConfig_LoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("TALLY_DB", "")
	t.Setenv("TALLY_RESULTS", "")
	t.Setenv("TALLY_PRECISION", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != "tally" {
		t.Errorf("expected defaults, got Name=%s", cfg.Name)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("TALLY_DB", "/tmp/env.db")
	t.Setenv("TALLY_RESULTS", "/tmp/env-results.json")
	t.Setenv("TALLY_PRECISION", "6")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	if cfg.History.DatabasePath != "/tmp/env.db" {
		t.Errorf("expected DatabasePath=/tmp/env.db, got %s", cfg.History.DatabasePath)
	}
	if cfg.Export.ResultsPath != "/tmp/env-results.json" {
		t.Errorf("expected ResultsPath=/tmp/env-results.json, got %s", cfg.Export.ResultsPath)
	}
	if cfg.Output.Precision != 6 {
		t.Errorf("expected Precision=6, got %d", cfg.Output.Precision)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid default config, got error: %v", err)
	}

	cfg.Output.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid output format")
	}

	cfg = DefaultConfig()
	cfg.History.DatabasePath = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty database path")
	}

	cfg = DefaultConfig()
	cfg.Logging.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid log level")
	}
}

func TestConfig_Helpers(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.GetSessionTTL() == 0 {
		t.Error("GetSessionTTL should return non-zero duration")
	}

	cfg.History.SessionTTL = "not-a-duration"
	if cfg.GetSessionTTL() != 24*time.Hour {
		t.Error("GetSessionTTL should fall back to 24h on parse failure")
	}

	if got := DefaultPath("/ws"); got != filepath.Join("/ws", ".tally", "config.yaml") {
		t.Errorf("unexpected DefaultPath: %s", got)
	}
}
