// Package config resolves the client configuration: where the remote
// authority lives and where the local database sits.
//
// Resolution order, highest priority first: environment variables
// (SHARECOUNT_BACKEND_URL, SHARECOUNT_DB), the YAML config file, then
// built-in defaults. The config file is optional; a missing file is not
// an error.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	envBackendURL = "SHARECOUNT_BACKEND_URL"
	envDBPath     = "SHARECOUNT_DB"

	defaultDBPath = "./data/sharecount.db"
)

// Config holds the resolved client configuration.
type Config struct {
	// BackendURL is the base URL of the remote authority, e.g.
	// "https://share.example.org". Empty means offline-only: every
	// remote call fails fast and all writes stay pending.
	BackendURL string `yaml:"backend_url"`

	// DBPath is the SQLite database location.
	DBPath string `yaml:"db_path"`
}

// DefaultPath returns the default config file location,
// $XDG_CONFIG_HOME/sharecount/config.yaml (or the OS equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "sharecount", "config.yaml"), nil
}

// Load reads the config file at path (empty means DefaultPath) and
// applies environment overrides and defaults.
func Load(path string) (Config, error) {
	var cfg Config

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No file, env and defaults only.
	case err != nil:
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if v := os.Getenv(envBackendURL); v != "" {
		cfg.BackendURL = v
	}
	if v := os.Getenv(envDBPath); v != "" {
		cfg.DBPath = v
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	return cfg, nil
}

// Save writes the config file, creating parent directories. Used to
// persist a backend URL override so it survives restarts.
func Save(path string, cfg Config) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
