// Package config loads and saves the deck builder's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Database configuration
	Database DatabaseConfig `toml:"database"`

	// Catalogue import configuration
	Catalogue CatalogueConfig `toml:"catalogue"`

	// Backup configuration
	Backup BackupConfig `toml:"backup"`
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	Path string `toml:"path"` // Path to the SQLite database file
}

// CatalogueConfig contains bulk-import settings.
type CatalogueConfig struct {
	Path          string `toml:"path"`           // Path to the catalogue CSV file
	BatchSize     int    `toml:"batch_size"`     // Cards inserted per transaction
	Watch         bool   `toml:"watch"`          // Re-import when the file changes
	WatchInterval string `toml:"watch_interval"` // Minimum time between re-imports (e.g. "30s")
}

// BackupConfig contains backup settings.
type BackupConfig struct {
	Dir    string `toml:"dir"`    // Backup directory ("" = next to the database)
	Verify bool   `toml:"verify"` // Run an integrity check on fresh backups
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "",
		},
		Catalogue: CatalogueConfig{
			Path:          "",
			BatchSize:     500,
			Watch:         false,
			WatchInterval: "30s",
		},
		Backup: BackupConfig{
			Dir:    "",
			Verify: true,
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".deckbox")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Catalogue.BatchSize < 0 {
		return fmt.Errorf("catalogue batch size cannot be negative: %d", c.Catalogue.BatchSize)
	}

	if _, err := time.ParseDuration(c.Catalogue.WatchInterval); err != nil {
		return fmt.Errorf("invalid watch interval %q: %w", c.Catalogue.WatchInterval, err)
	}

	return nil
}

// GetWatchInterval returns the watch interval as a duration.
func (c *Config) GetWatchInterval() (time.Duration, error) {
	return time.ParseDuration(c.Catalogue.WatchInterval)
}
