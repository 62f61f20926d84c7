// ABOUTME: Tests for configuration load/save functionality
// ABOUTME: Validates TOML parsing and default config fallback behavior

package config

import (
	"os"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Method != "absolute" {
		t.Errorf("Expected method absolute, got %q", cfg.Method)
	}

	if cfg.PageRows < 1 {
		t.Errorf("Expected positive page_rows, got %d", cfg.PageRows)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	// Create temp file
	tmpfile, err := os.CreateTemp(t.TempDir(), "epoch-select-*.toml")
	if err != nil {
		t.Fatal(err)
	}

	defer os.Remove(tmpfile.Name())
	tmpfile.Close()

	// Save a non-default config
	cfg := DefaultConfig()
	cfg.Method = "p2p"
	cfg.Threshold = 4e-12
	if err := SaveConfig(tmpfile.Name(), cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	// Load it back
	loaded, err := LoadConfig(tmpfile.Name())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	// Verify values match
	if loaded.Method != cfg.Method {
		t.Errorf("Method mismatch: got %q, want %q", loaded.Method, cfg.Method)
	}
	if loaded.Threshold != cfg.Threshold {
		t.Errorf("Threshold mismatch: got %g, want %g", loaded.Threshold, cfg.Threshold)
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	// Loading non-existent file should return defaults without error
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	if err != nil {
		t.Errorf("Expected no error for non-existent file, got: %v", err)
	}

	// Should be default values
	defaults := DefaultConfig()
	if cfg.Method != defaults.Method {
		t.Errorf("Expected default method %q, got %q", defaults.Method, cfg.Method)
	}
}

func TestLoadSanitizesBadValues(t *testing.T) {
	tmpfile, err := os.CreateTemp(t.TempDir(), "epoch-select-*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.WriteString("page_rows = 0\nthreshold = -1.0\n"); err != nil {
		t.Fatal(err)
	}
	tmpfile.Close()

	cfg, err := LoadConfig(tmpfile.Name())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	defaults := DefaultConfig()
	if cfg.PageRows != defaults.PageRows {
		t.Errorf("Expected sanitized page_rows %d, got %d", defaults.PageRows, cfg.PageRows)
	}
	if cfg.Threshold != defaults.Threshold {
		t.Errorf("Expected sanitized threshold %g, got %g", defaults.Threshold, cfg.Threshold)
	}
}
