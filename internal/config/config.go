// Package config provides configuration loading and structs for the keepsake server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug" env:"KEEPSAKE_DEBUG"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Oracle  OracleConfig  `yaml:"oracle"`
	Compose ComposeConfig `yaml:"compose"`
	Search  SearchConfig  `yaml:"search"`
	Inbox   InboxConfig   `yaml:"inbox"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host" env:"KEEPSAKE_HOST"`
	Port int    `yaml:"port" env:"KEEPSAKE_PORT"`
}

// StorageConfig holds paths for the record database and keyword index.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path" env:"KEEPSAKE_DATABASE_PATH"`
	IndexPath    string `yaml:"index_path" env:"KEEPSAKE_INDEX_PATH"`
}

// OracleConfig holds settings for the suggestion oracle. The API key is read
// from the environment only and never written to the config file.
type OracleConfig struct {
	Enabled         *bool         `yaml:"enabled" env:"KEEPSAKE_ORACLE_ENABLED"`
	Endpoint        string        `yaml:"endpoint" env:"KEEPSAKE_ORACLE_ENDPOINT"`
	Model           string        `yaml:"model" env:"KEEPSAKE_ORACLE_MODEL"`
	APIKey          string        `yaml:"-" env:"KEEPSAKE_ORACLE_API_KEY"`
	Timeout         time.Duration `yaml:"timeout" env:"KEEPSAKE_ORACLE_TIMEOUT"`
	BreakerFailures uint32        `yaml:"breaker_failures"`
	BreakerCooldown time.Duration `yaml:"breaker_cooldown"`
}

// EnabledOrDefault reports whether the oracle should be used. When unset,
// the oracle is used whenever an API key is available.
func (o *OracleConfig) EnabledOrDefault() bool {
	if o.Enabled != nil {
		return *o.Enabled && o.APIKey != ""
	}
	return o.APIKey != ""
}

// ComposeConfig holds page composition settings.
type ComposeConfig struct {
	// Seed fixes the random source for decoration picks and placement.
	// Zero seeds from the clock.
	Seed int64 `yaml:"seed" env:"KEEPSAKE_SEED"`
}

// SearchConfig holds record search settings.
type SearchConfig struct {
	DefaultLimit      int     `yaml:"default_limit"`
	MaxLimit          int     `yaml:"max_limit"`
	KeywordTitleBoost float64 `yaml:"keyword_title_boost"`
	Fuzziness         int     `yaml:"fuzziness"`
}

// InboxConfig holds the directories watched for record files.
type InboxConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Recursive   *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (i *InboxConfig) RecursiveOrDefault() bool {
	if i.Recursive != nil {
		return *i.Recursive
	}
	return true
}

// secrets are environment variables read in addition to the tagged fields.
type secrets struct {
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
}

// Load reads and parses the config file at path, expands paths, applies
// defaults and overlays environment variables.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.IndexPath = expandPath(cfg.Storage.IndexPath, configDir)
	for i := range cfg.Inbox.Directories {
		cfg.Inbox.Directories[i] = expandPath(cfg.Inbox.Directories[i], configDir)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads path when it exists and otherwise returns the defaults
// overlaid with environment variables.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		_, err := os.Stat(path)
		if err == nil {
			return Load(path)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config: %w", err)
		}
	}
	cfg := &Config{}
	ApplyDefaults(cfg)
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables on cfg. Unset variables leave the
// current values alone. GEMINI_API_KEY is used when KEEPSAKE_ORACLE_API_KEY
// is not set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	var s secrets
	if err := env.Parse(&s); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if cfg.Oracle.APIKey == "" {
		cfg.Oracle.APIKey = strings.TrimSpace(s.GeminiAPIKey)
	}
	return nil
}

// Save writes the config to path. Used for persisting inbox directory add/remove.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
