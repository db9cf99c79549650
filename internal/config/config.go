// Package config provides configuration management for GridStash.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/ini.v1"
)

// ConfigDir is the directory name under the user config root.
const ConfigDir = "gridstash"

// DefaultServerURL is used for local development only; production
// builds configure the server through the config file or environment.
const DefaultServerURL = "http://localhost:8000"

// Config holds the client configuration.
type Config struct {
	// ServerURL is the base URL of the storage backend.
	ServerURL string `ini:"server_url"`

	// ProxyMode selects outbound proxy handling: "no-proxy", "system",
	// or "manual".
	ProxyMode string `ini:"proxy_mode"`

	// ProxyURL is the proxy address for manual mode.
	ProxyURL string `ini:"proxy_url"`

	// Timeout is the per-request HTTP timeout. Zero means the
	// transport default (no client-level timeout).
	Timeout time.Duration `ini:"-"`
}

// DefaultConfig returns a config with development defaults.
func DefaultConfig() *Config {
	return &Config{
		ServerURL: DefaultServerURL,
		ProxyMode: "system",
		Timeout:   60 * time.Second,
	}
}

// ConfigFilePath returns the default INI config path
// (~/.config/gridstash/config.ini).
func ConfigFilePath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, ConfigDir, "config.ini")
}

// Load reads configuration from the INI file at path, falling back to
// defaults for anything unset, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			file, err := ini.Load(path)
			if err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
			if err := file.Section("gridstash").MapTo(cfg); err != nil {
				return nil, fmt.Errorf("failed to map config file %s: %w", path, err)
			}
		}
	}

	if url := os.Getenv("GRIDSTASH_SERVER_URL"); url != "" {
		cfg.ServerURL = url
	}

	cfg.ServerURL = strings.TrimSuffix(cfg.ServerURL, "/")
	if cfg.ProxyMode == "" {
		cfg.ProxyMode = "system"
	}
	return cfg, nil
}

// Save writes the configuration to the INI file at path, creating the
// parent directory if needed.
func Save(cfg *Config, path string) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file := ini.Empty()
	sec := file.Section("gridstash")
	sec.Key("server_url").SetValue(cfg.ServerURL)
	sec.Key("proxy_mode").SetValue(cfg.ProxyMode)
	if cfg.ProxyURL != "" {
		sec.Key("proxy_url").SetValue(cfg.ProxyURL)
	}

	if err := file.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for obvious misconfiguration.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server URL is empty")
	}
	switch c.ProxyMode {
	case "no-proxy", "system", "manual", "":
	default:
		return fmt.Errorf("unknown proxy mode %q", c.ProxyMode)
	}
	if c.ProxyMode == "manual" && c.ProxyURL == "" {
		return fmt.Errorf("proxy mode is manual but proxy_url is empty")
	}
	return nil
}
