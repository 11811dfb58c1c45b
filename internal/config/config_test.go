package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Error("exists = true for a missing file")
	}
	if resolved == "" {
		t.Error("resolved path should still be set")
	}
	if cfg.Alignment.PrecisionLevel != "standard" {
		t.Errorf("precision level = %q, want standard", cfg.Alignment.PrecisionLevel)
	}
	if cfg.Alignment.MaxIterations != 3 {
		t.Errorf("max iterations = %d, want 3", cfg.Alignment.MaxIterations)
	}
	if !cfg.Learning.Enabled {
		t.Error("learning should default to enabled")
	}
	if cfg.Learning.BufferSize != 500 {
		t.Errorf("buffer size = %d, want 500", cfg.Learning.BufferSize)
	}
}

func TestLoadAppliesOverrides(t *testing.T) {
	path := writeConfig(t, `
[alignment]
precision_level = "ULTRA_HIGH"
max_iterations = 5

[learning]
enabled = false

[logging]
format = "json"
level = "debug"
`)

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("exists = false for a present file")
	}
	if cfg.Alignment.PrecisionLevel != "ultra_high" {
		t.Errorf("precision level = %q, want ultra_high", cfg.Alignment.PrecisionLevel)
	}
	if cfg.Alignment.MaxIterations != 5 {
		t.Errorf("max iterations = %d, want 5", cfg.Alignment.MaxIterations)
	}
	if cfg.Learning.Enabled {
		t.Error("learning.enabled override ignored")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("logging = %q/%q, want json/debug", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestLoadExpandsDatabasePath(t *testing.T) {
	path := writeConfig(t, `
[learning]
database_path = "~/clipalign-test/training.db"
`)

	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if strings.HasPrefix(cfg.Learning.DatabasePath, "~") {
		t.Errorf("database path not expanded: %q", cfg.Learning.DatabasePath)
	}
	if !filepath.IsAbs(cfg.Learning.DatabasePath) {
		t.Errorf("database path not absolute: %q", cfg.Learning.DatabasePath)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"bad precision", "[alignment]\nprecision_level = \"extreme\"\n"},
		{"bad log format", "[logging]\nformat = \"xml\"\n"},
		{"bad log level", "[logging]\nlevel = \"verbose\"\n"},
		{"negative boundary", "[boundary]\nsilence_gap = -1.0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.contents)
			if _, _, _, err := Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("sample config not found after CreateSample")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("sample config invalid: %v", err)
	}
}
