// Package config loads the chatbridge CLI configuration from a TOML file and
// the environment. Environment variables win over file values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ProviderConfig holds the settings of one provider section.
type ProviderConfig struct {
	APIKey  string `toml:"api_key,omitempty"`
	BaseURL string `toml:"base_url,omitempty"`
	Model   string `toml:"model,omitempty"`
}

// Config is the complete CLI configuration.
type Config struct {
	DefaultProvider string         `toml:"default_provider"`
	LogLevel        string         `toml:"log_level"`
	Proxy           string         `toml:"proxy,omitempty"`
	Gemini          ProviderConfig `toml:"gemini"`
	Liaobots        ProviderConfig `toml:"liaobots"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DefaultProvider: "gemini",
		LogLevel:        "info",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/chatbridge/config.toml (or the
// platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(dir, "chatbridge", "config.toml"), nil
}

// Load reads the file at path over the defaults and then applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save writes cfg to path with owner-only permissions; the file may hold keys.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Provider returns the section for the named provider.
func (cfg *Config) Provider(name string) ProviderConfig {
	switch name {
	case "gemini":
		return cfg.Gemini
	case "liaobots":
		return cfg.Liaobots
	default:
		return ProviderConfig{}
	}
}

// envOverrides maps environment variables onto config fields.
func (cfg *Config) envOverrides() map[string]*string {
	return map[string]*string{
		"GEMINI_API_KEY":      &cfg.Gemini.APIKey,
		"GEMINI_API_BASE_URL": &cfg.Gemini.BaseURL,
		"LIAOBOTS_AUTH_CODE":  &cfg.Liaobots.APIKey,
		"LIAOBOTS_BASE_URL":   &cfg.Liaobots.BaseURL,
		"CHATBRIDGE_PROVIDER": &cfg.DefaultProvider,
		"CHATBRIDGE_PROXY":    &cfg.Proxy,
	}
}

func (cfg *Config) applyEnv() {
	for name, field := range cfg.envOverrides() {
		if value := os.Getenv(name); value != "" {
			*field = value
		}
	}

	// CHATBRIDGE_LOG_LEVEL takes precedence over the generic LOG_LEVEL.
	for _, name := range []string{"LOG_LEVEL", "CHATBRIDGE_LOG_LEVEL"} {
		if value := os.Getenv(name); value != "" {
			cfg.LogLevel = value
		}
	}
}
