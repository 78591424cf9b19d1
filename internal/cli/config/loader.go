// Package config loads the run settings of the squall command: reporter,
// parallelism, per-file timeout and verbosity.
//
// Rule configuration lives in pkg/config; this package only layers the
// settings that control how a run executes.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment variables read as settings,
// e.g. SQUALL_REPORTER or SQUALL_JOBS.
const EnvPrefix = "SQUALL_"

// loggerKey is used to store the logger in the command context.
type loggerKey struct{}

// Settings controls how a lint run executes.
type Settings struct {
	Reporter string        `koanf:"reporter"`
	Jobs     int           `koanf:"jobs"`
	Timeout  time.Duration `koanf:"timeout"`
	Verbose  bool          `koanf:"verbose"`
	Watch    bool          `koanf:"watch"`
}

// settingKeys are the keys read from files, the environment and flags.
var settingKeys = map[string]bool{
	"reporter": true,
	"jobs":     true,
	"timeout":  true,
	"verbose":  true,
	"watch":    true,
}

// LoadSettings layers defaults, the configuration file at cfgFile (if not
// empty), SQUALL_* environment variables and explicitly set flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadSettings(cfgFile string, flags *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"reporter": "",
		"jobs":     0,
		"timeout":  "0s",
		"verbose":  false,
		"watch":    false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file; rule keys are ignored here
	if cfgFile != "" {
		fk := koanf.New(".")
		if err := fk.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
		for key := range settingKeys {
			if fk.Exists(key) {
				if err := k.Set(key, fk.Get(key)); err != nil {
					return nil, err
				}
			}
		}
	}

	// 3. Environment variables. Transform: SQUALL_REPORTER -> reporter
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		if !settingKeys[key] {
			return ""
		}
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || !settingKeys[f.Name] {
				return "", nil
			}
			return f.Name, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}
	if s.Jobs < 0 {
		return nil, fmt.Errorf("jobs must not be negative, got %d", s.Jobs)
	}
	if s.Timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %s", s.Timeout)
	}
	return &s, nil
}

// LoggerKey returns the context key used for storing the logger.
func LoggerKey() any {
	return loggerKey{}
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
