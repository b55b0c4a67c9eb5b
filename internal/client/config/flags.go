package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/marketdesk/internal/flagx"
)

var ownFlags = flagx.Allowed{
	Valued: []string{"-a", "-d", "-t", "-l", "-log-level"},
	Bools:  []string{"-e"},
}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string      API base URL
//	-d string      session database file
//	-t duration    request timeout, e.g. 10s
//	-l string      log file; "stderr" logs to stderr
//	-log-level     debug, info, warn or error
//	-e             ephemeral session (memory only)
//
// Other arguments are filtered out with flagx.FilterArgs so they do not
// trip up this flag set.
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, ownFlags)

	fs := flag.NewFlagSet("marketdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.SessionDB, "d", cfg.SessionDB, "session database file")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	logFile := fs.String("l", cfg.LogFile, "log file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.BoolVar(&cfg.Ephemeral, "e", cfg.Ephemeral, "keep the session in memory only")

	if err := fs.Parse(filtered); err != nil {
		return err
	}

	cfg.LogFile = *logFile
	if cfg.LogFile == "stderr" {
		cfg.LogFile = ""
	}
	return nil
}
