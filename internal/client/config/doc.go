// Package config loads runtime configuration for the marketdesk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: MARKETDESK_* variables, falling back to a .env file in
//     the working directory (joho/godotenv).
//  3. Optional config file selected via -c or -config. Files ending in
//     .yaml/.yml are YAML, everything else JSON.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string      API base URL
//	-d string      session database file
//	-t duration    request timeout
//	-l string      log file ("stderr" to log to stderr)
//	-log-level     debug|info|warn|error
//	-e             ephemeral, in-memory session
//
// # File schema
//
// Durations use timex.Duration, so values can be strings like "15s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "https://market.example.com/api/v1",
//	  "session_db": "/home/me/.config/marketdesk/session.db",
//	  "request_timeout": "15s",
//	  "log_file": "/home/me/.config/marketdesk/client.log",
//	  "log_level": "info",
//	  "ephemeral": false
//	}
package config
