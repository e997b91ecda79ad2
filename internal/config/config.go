// Package config loads the user's tablero settings from YAML.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL         = "http://localhost:8080/api"
	DefaultIdentityURL    = "http://localhost:8080/auth"
	DefaultRequestTimeout = 10 * time.Second
)

// Config represents the application configuration
type Config struct {
	APIURL         string        `yaml:"api_url"`
	IdentityURL    string        `yaml:"identity_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	KeyMappings    KeyMappings   `yaml:"key_mappings"`
	ColorScheme    ColorScheme   `yaml:"theme"`

	// Project overrides the stored current project. Only set from
	// TABLERO_PROJECT.
	Project string `yaml:"-"`
}

// Default returns a config with every value at its default
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the config from the user's config directory, falling back to
// defaults when the file is missing, then applies environment overrides.
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		slog.Debug("no config path, using defaults", "error", err)
		cfg := Default()
		cfg.applyEnv()
		return cfg, nil
	}
	return LoadFrom(configPath)
}

// LoadFrom reads the config at path. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(configPath, data, 0o644)
}

// Path returns the config file location, honoring XDG_CONFIG_HOME
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "tablero", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "tablero", "config.yaml"), nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TABLERO_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("TABLERO_IDENTITY_URL"); v != "" {
		c.IdentityURL = v
	}
	if v := os.Getenv("TABLERO_PROJECT"); v != "" {
		c.Project = v
	}
	loadThemeFile(c)
}

// loadThemeFile merges the theme section of TABLERO_THEME_FILE, if set
func loadThemeFile(c *Config) {
	themeFile := os.Getenv("TABLERO_THEME_FILE")
	if themeFile == "" {
		return
	}

	data, err := os.ReadFile(themeFile)
	if err != nil {
		slog.Warn("failed to read theme file", "path", themeFile, "error", err)
		return
	}

	var themeConfig struct {
		Theme ColorScheme `yaml:"theme"`
	}
	if err := yaml.Unmarshal(data, &themeConfig); err != nil {
		slog.Warn("failed to parse theme file", "path", themeFile, "error", err)
		return
	}
	c.ColorScheme.MergeFrom(themeConfig.Theme)
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.IdentityURL == "" {
		c.IdentityURL = DefaultIdentityURL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	c.KeyMappings.applyDefaults()
	c.ColorScheme.ApplyDefaults()
}
