package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/marketdesk/internal/filex"
	"github.com/dmitrijs2005/marketdesk/internal/logging"
)

const appName = "marketdesk"

// Config holds runtime settings for the marketdesk CLI.
//
// Fields:
//   - APIBaseURL: base URL of the marketplace REST API.
//   - SessionDB: SQLite file holding the cached session and preferences.
//   - RequestTimeout: per-request HTTP timeout.
//   - LogFile: rotated JSON log file; empty logs to stderr.
//   - LogLevel: debug, info, warn or error.
//   - Ephemeral: keep the session in memory only, like a browser tab.
type Config struct {
	APIBaseURL     string
	SessionDB      string
	RequestTimeout time.Duration
	LogFile        string
	LogLevel       string
	Ephemeral      bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	dir := filex.DataDir(appName)
	c.APIBaseURL = "http://127.0.0.1:8080/api/v1"
	c.SessionDB = filepath.Join(dir, "session.db")
	c.RequestTimeout = 15 * time.Second
	c.LogFile = filepath.Join(dir, "client.log")
	c.LogLevel = "info"
	c.Ephemeral = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (including a .env file), a JSON or YAML config file and
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, ".env"); err != nil {
		return nil, fmt.Errorf("env: %w", err)
	}
	if err := parseFile(cfg, args); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api base url is empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if !c.Ephemeral && c.SessionDB == "" {
		return fmt.Errorf("session db path is empty")
	}
	lvl, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	c.LogLevel = strings.ToLower(lvl.String())
	return nil
}
