// ABOUTME: Configuration loading and parsing for deskhub
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete deskhub configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Session SessionConfig `yaml:"session"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
	// BaseURL is the external URL of the server. If not set, redirects are relative.
	BaseURL string `yaml:"base_url"`
}

// DataConfig holds paths to the stores backing both apps
type DataConfig struct {
	// DocsDir is the flat directory holding markdown and text documents
	DocsDir string `yaml:"docs_dir"`
	// AccountsPath is the YAML file mapping usernames to password hashes
	AccountsPath string `yaml:"accounts_path"`
	// SessionsPath is the SQLite database holding session state
	SessionsPath string `yaml:"sessions_path"`
}

// SessionConfig holds session cookie and lifetime configuration
type SessionConfig struct {
	CookieName string `yaml:"cookie_name"`

	Duration      time.Duration `yaml:"-"`
	PurgeInterval time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	DurationRaw      string `yaml:"duration"`
	PurgeIntervalRaw string `yaml:"purge_interval"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults applied when the corresponding session fields are unset.
const (
	DefaultCookieName    = "deskhub_session"
	DefaultDuration      = 7 * 24 * time.Hour
	DefaultPurgeInterval = time.Hour
)

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}
	if c.Data.DocsDir == "" {
		return fmt.Errorf("data.docs_dir is required")
	}
	if c.Data.AccountsPath == "" {
		return fmt.Errorf("data.accounts_path is required")
	}
	if c.Data.SessionsPath == "" {
		return fmt.Errorf("data.sessions_path is required")
	}
	return nil
}

// applyDefaults fills in defaults for optional session fields
func applyDefaults(cfg *Config) {
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = DefaultCookieName
	}
	if cfg.Session.Duration == 0 {
		cfg.Session.Duration = DefaultDuration
	}
	if cfg.Session.PurgeInterval == 0 {
		cfg.Session.PurgeInterval = DefaultPurgeInterval
	}
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Session.DurationRaw != "" {
		cfg.Session.Duration, err = time.ParseDuration(cfg.Session.DurationRaw)
		if err != nil {
			return fmt.Errorf("parsing session duration %q: %w", cfg.Session.DurationRaw, err)
		}
	}

	if cfg.Session.PurgeIntervalRaw != "" {
		cfg.Session.PurgeInterval, err = time.ParseDuration(cfg.Session.PurgeIntervalRaw)
		if err != nil {
			return fmt.Errorf("parsing session purge_interval %q: %w", cfg.Session.PurgeIntervalRaw, err)
		}
	}

	return nil
}
