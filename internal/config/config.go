// ABOUTME: Readiness tool configuration: data directory, default user, sync toggle.
// ABOUTME: JSON config under XDG paths with factory helpers for storage and cache.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/readiness/internal/baseline"
	"github.com/harperreed/readiness/internal/storage"
)

// Config stores readiness tool configuration.
type Config struct {
	// DataDir is the root directory for data storage: readiness.db and the
	// baseline-cache/ directory live here. Supports ~ expansion for the
	// home directory. Defaults to ~/.local/share/readiness.
	DataDir string `json:"data_dir,omitempty"`

	// DefaultUser is the user scores are computed for when --user is not
	// given. Defaults to "default".
	DefaultUser string `json:"default_user,omitempty"`

	// AutoSync publishes results to Charm Cloud after each score run.
	AutoSync bool `json:"auto_sync,omitempty"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetDefaultUser returns the configured default user.
func (c *Config) GetDefaultUser() string {
	if c.DefaultUser == "" {
		return "default"
	}
	return c.DefaultUser
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the SQLite repository under the configured data dir.
func (c *Config) OpenStorage() (storage.Repository, error) {
	dbPath := filepath.Join(c.GetDataDir(), "readiness.db")
	repo, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return repo, nil
}

// OpenBaselineCache opens the badger-backed baseline cache under the
// configured data dir.
func (c *Config) OpenBaselineCache() (*baseline.Cache, error) {
	return baseline.OpenCache(filepath.Join(c.GetDataDir(), "baseline-cache"))
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "readiness", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
