package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/marketdesk/internal/flagx"
	"github.com/dmitrijs2005/marketdesk/internal/timex"
)

// FileConfig is a DTO used only for decoding config files. Pointer fields
// distinguish "absent" from "set to the zero value"; durations go through
// timex.Duration so files may say "15s" or integer nanoseconds.
type FileConfig struct {
	APIBaseURL     *string         `json:"api_base_url" yaml:"api_base_url"`
	SessionDB      *string         `json:"session_db" yaml:"session_db"`
	RequestTimeout *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	LogFile        *string         `json:"log_file" yaml:"log_file"`
	LogLevel       *string         `json:"log_level" yaml:"log_level"`
	Ephemeral      *bool           `json:"ephemeral" yaml:"ephemeral"`
}

// parseFile overlays cfg with the file named by -c / -config in args. The
// format is picked by extension: .yaml and .yml are YAML, anything else is
// JSON. No flag means nothing to load.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc FileConfig) apply(cfg *Config) {
	if fc.APIBaseURL != nil {
		cfg.APIBaseURL = *fc.APIBaseURL
	}
	if fc.SessionDB != nil {
		cfg.SessionDB = *fc.SessionDB
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.LogFile != nil {
		cfg.LogFile = *fc.LogFile
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.Ephemeral != nil {
		cfg.Ephemeral = *fc.Ephemeral
	}
}
