// Package config resolves client configuration from the environment and the
// configuration file. Environment variables win over the file; the file
// additionally carries endpoint credentials and object store access profiles
// that have no environment form.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config captures the resolved client configuration.
type Config struct {
	// AuthToken authenticates platform API calls.
	AuthToken string `env:"SYNAPSE_AUTH_TOKEN"`

	// ConfigPath overrides the configuration file location.
	ConfigPath string `env:"SYNAPSE_CONFIG_FILE"`

	// CacheRoot overrides the upload cache root directory.
	CacheRoot string `env:"SYNAPSE_CACHE_DIR"`

	// File is the parsed configuration file, empty when the file does not
	// exist. It provides endpoint credentials for external transfers.
	File *File
}

// Load parses environment variables into Config and fills the remaining
// fields from the configuration file.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}

	path := cfg.ConfigPath
	if path == "" {
		path = DefaultPath()
	}
	file, err := LooseLoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.File = file

	if cfg.AuthToken == "" {
		cfg.AuthToken = file.AuthToken()
	}
	if cfg.CacheRoot == "" {
		cfg.CacheRoot = file.CacheRoot()
	}
	return cfg, nil
}

// DefaultPath returns the well-known configuration file location in the
// user's home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".synapseConfig"
	}
	return filepath.Join(home, ".synapseConfig")
}
