// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and validates application configuration from a
// TOML file with environment variable overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// TYPES
// =============================================================================

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	UI      UIConfig      `toml:"ui"`
	Storage StorageConfig `toml:"storage"`
}

// ServerConfig describes how to reach the LiberNet backend.
type ServerConfig struct {
	// Origin is the scheme://host[:port] of the backend. The API lives
	// under <origin>/api and the health probe at <origin>/health.
	Origin string `toml:"origin"`

	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// Theme is the startup fallback: "light", "dark" or "system".
	// Once the user picks a theme in the app, the stored preference
	// takes precedence over this value.
	Theme string `toml:"theme"`
}

// StorageConfig locates the local state database.
type StorageConfig struct {
	// Path to the SQLite state database. Empty means ~/.sofia/state.db.
	Path string `toml:"path"`
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidateErrors joins multiple validation failures.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns all problems at once.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Server.Origin == "" {
		errs = append(errs, ValidationError{"server.origin", "cannot be empty"})
	} else if u, err := url.Parse(c.Server.Origin); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{"server.origin", "must be a URL like http://localhost:3000"})
	}
	if c.Server.TimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{"server.timeout_seconds", "must be positive"})
	}
	switch c.UI.Theme {
	case "light", "dark", "system":
	default:
		errs = append(errs, ValidationError{"ui.theme", `must be "light", "dark" or "system"`})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// DEFAULTS AND LOADING
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Origin:         "http://localhost:3000",
			TimeoutSeconds: 30,
		},
		UI: UIConfig{
			Theme: "system",
		},
		Storage: StorageConfig{
			Path: "",
		},
	}
}

// ConfigDir returns ~/.sofia, creating it if needed.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	dir := filepath.Join(home, ".sofia")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// DefaultPath returns the standard config file location,
// ~/.sofia/config.toml.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads configuration from path. When path is empty the cascade is
// $SOFIA_CONFIG, then the default path. A missing file yields the
// defaults. Environment overrides are applied last, then the result is
// validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("SOFIA_CONFIG")
	}
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults apply.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		cfg.fillDefaults()
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillDefaults restores built-in values for fields the file left unset.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Server.Origin == "" {
		c.Server.Origin = def.Server.Origin
	}
	if c.Server.TimeoutSeconds == 0 {
		c.Server.TimeoutSeconds = def.Server.TimeoutSeconds
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
}

// ApplyEnvOverrides lets SOFIA_* environment variables override file
// values. Invalid numeric values are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SOFIA_SERVER_ORIGIN"); v != "" {
		c.Server.Origin = v
	}
	if v := os.Getenv("SOFIA_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Server.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("SOFIA_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("SOFIA_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
}

// Save writes the configuration to path in TOML with 0600 permissions.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config for writing: %w", err)
	}
	defer f.Close()

	fmt.Fprintln(f, "# Sofia LiberNet client configuration")
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// GLOBAL ACCESS
// =============================================================================

var (
	globalConfig *Config
	globalOnce   sync.Once
	globalMu     sync.RWMutex
)

// Global returns the process-wide configuration, loading it on first
// use. Load failures fall back to defaults.
func Global() *Config {
	globalOnce.Do(func() {
		cfg, err := Load("")
		if err != nil {
			cfg = Default()
		}
		globalMu.Lock()
		globalConfig = cfg
		globalMu.Unlock()
	})
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}

// SetGlobal replaces the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalOnce.Do(func() {})
	globalMu.Lock()
	globalConfig = cfg
	globalMu.Unlock()
}

// ResetGlobalForTesting clears the global so tests can reload it.
func ResetGlobalForTesting() {
	globalMu.Lock()
	globalConfig = nil
	globalMu.Unlock()
	globalOnce = sync.Once{}
}
