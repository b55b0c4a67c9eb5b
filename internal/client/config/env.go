package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/marketdesk/internal/timex"
)

// Environment variables read by parseEnv.
const (
	EnvAPIBaseURL     = "MARKETDESK_API_URL"
	EnvSessionDB      = "MARKETDESK_SESSION_DB"
	EnvRequestTimeout = "MARKETDESK_REQUEST_TIMEOUT"
	EnvLogFile        = "MARKETDESK_LOG_FILE"
	EnvLogLevel       = "MARKETDESK_LOG_LEVEL"
	EnvEphemeral      = "MARKETDESK_EPHEMERAL"
)

// parseEnv overlays cfg with MARKETDESK_* variables. Values from dotenv are
// used only where the real environment leaves a variable unset; a missing
// dotenv file is not an error.
func parseEnv(cfg *Config, dotenv string) error {
	fileVals := map[string]string{}
	if dotenv != "" {
		vals, err := godotenv.Read(dotenv)
		switch {
		case err == nil:
			fileVals = vals
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("read %s: %w", dotenv, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVals[key]
		return v, ok
	}

	if v, ok := lookup(EnvAPIBaseURL); ok {
		cfg.APIBaseURL = v
	}
	if v, ok := lookup(EnvSessionDB); ok {
		cfg.SessionDB = v
	}
	if v, ok := lookup(EnvRequestTimeout); ok {
		var d timex.Duration
		if err := d.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s: %w", EnvRequestTimeout, err)
		}
		cfg.RequestTimeout = d.Duration
	}
	if v, ok := lookup(EnvLogFile); ok {
		cfg.LogFile = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvEphemeral); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvEphemeral, err)
		}
		cfg.Ephemeral = b
	}
	return nil
}
