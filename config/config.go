// ABOUTME: Configuration management for workbench preferences
// ABOUTME: Handles loading/saving TOML config files with fallback to defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds workbench preferences: the page layout of the trial
// table and the defaults prefilled into the threshold prompt.
type Config struct {
	// Page layout
	PageRows int `toml:"page_rows"`
	PageCols int `toml:"page_cols"`

	// Threshold prompt defaults. mark_above and mark_below are the
	// accept flags written to exceeding and within-threshold trials.
	Method    string  `toml:"method"`
	Threshold float64 `toml:"threshold"`
	MarkAbove bool    `toml:"mark_above"`
	MarkBelow bool    `toml:"mark_below"`
}

// GetConfigPath returns the default config file path
// First tries current directory, then falls back to ~/.config/epoch-select/config.toml
func GetConfigPath() string {
	// First try current directory
	if _, err := os.Stat("./epoch-select.toml"); err == nil {
		return "./epoch-select.toml"
	}

	// Then try ~/.config/epoch-select/config.toml
	home, err := os.UserHomeDir()
	if err != nil {
		return "./epoch-select.toml"
	}

	return filepath.Join(home, ".config", "epoch-select", "config.toml")
}

// LoadConfig loads configuration from a TOML file
// If the file doesn't exist or fails to load, returns default config
func LoadConfig(path string) (Config, error) {
	// Try to read the file
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse TOML
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return config.sanitized(), nil
}

// SaveConfig saves configuration to a TOML file
func SaveConfig(path string, config Config) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create file
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close config file: %v\n", err)
		}
	}()

	// Encode config as TOML
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultConfig returns the default workbench configuration
func DefaultConfig() Config {
	return Config{
		PageRows:  20,
		PageCols:  1,
		Method:    "absolute",
		Threshold: 2e-12,
		MarkAbove: false,
		MarkBelow: true,
	}
}

// sanitized replaces nonsensical layout values with defaults so a
// hand-edited config file cannot produce an empty table.
func (c Config) sanitized() Config {
	defaults := DefaultConfig()

	if c.PageRows < 1 {
		c.PageRows = defaults.PageRows
	}
	if c.PageCols < 1 {
		c.PageCols = defaults.PageCols
	}
	if c.Method == "" {
		c.Method = defaults.Method
	}
	if c.Threshold <= 0 {
		c.Threshold = defaults.Threshold
	}

	return c
}
