package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

// Resolver builds base and per-file configurations.
type Resolver struct {
	logger  *slog.Logger
	workDir string
	homeDir string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the logger for resolution events.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithWorkDir sets the directory implicit configuration discovery starts
// from. Defaults to the process working directory.
func WithWorkDir(dir string) ResolverOption {
	return func(r *Resolver) {
		r.workDir = dir
	}
}

// WithHomeDir sets the fallback directory searched last during discovery.
// Defaults to the user's home directory; empty disables the fallback.
func WithHomeDir(dir string) ResolverOption {
	return func(r *Resolver) {
		r.homeDir = dir
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{logger: slog.New(slog.DiscardHandler)}
	if wd, err := os.Getwd(); err == nil {
		r.workDir = wd
	}
	if home, err := os.UserHomeDir(); err == nil {
		r.homeDir = home
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveBase builds the run-wide configuration: defaults, then the preset,
// then the configuration file. explicitPath must exist when given; without
// it a configuration file is discovered, and finding none is not an error.
// A preset named in the file applies only when presetName is empty.
func (r *Resolver) ResolveBase(explicitPath, presetName string) (*Configuration, error) {
	path := explicitPath
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &ConfigNotFoundError{Path: path}
			}
			return nil, fmt.Errorf("failed to access config file: %w", err)
		}
	} else {
		path = Discover(r.workDir, r.homeDir)
	}

	var (
		fc     FileConfig
		hasCfg bool
	)
	if path != "" {
		var err error
		if fc, err = LoadFile(path); err != nil {
			return nil, err
		}
		hasCfg = true
		r.logger.Debug("loaded config file", "path", path)
	}

	cfg := Defaults()

	if presetName == "" {
		presetName = fc.Preset
	}
	if presetName != "" {
		preset, err := LookupPreset(presetName)
		if err != nil {
			return nil, err
		}
		layer, err := preset.Layer()
		if err != nil {
			return nil, err
		}
		cfg = cfg.Merge(layer)
		cfg.Preset = PresetMeta{Name: preset.Name, Description: preset.Description}
		r.logger.Debug("applied preset", "preset", preset.Name)
	}

	if hasCfg {
		layer, err := fc.Layer(path)
		if err != nil {
			return nil, err
		}
		cfg = cfg.Merge(layer)
		cfg.Source = path
	}
	return cfg, nil
}

// ResolveForFile reads path and overlays its file-local layers on base.
func (r *Resolver) ResolveForFile(base *Configuration, path string) (*Configuration, error) {
	src, err := os.ReadFile(path) //nolint:gosec // G304: path is a lint input
	if err != nil {
		return nil, err
	}
	return r.ResolveForSource(base, path, src)
}

// ResolveForSource overlays the sidecar file of path, then the inline
// directives in src, on base. base is not modified. A sidecar may only set
// rules and disable.
func (r *Resolver) ResolveForSource(base *Configuration, path string, src []byte) (*Configuration, error) {
	cfg := base

	sidecar := SidecarPath(path)
	if info, err := os.Stat(sidecar); err == nil && !info.IsDir() {
		fc, err := LoadFile(sidecar)
		if err != nil {
			return nil, err
		}
		if keys := fc.runKeys(); len(keys) > 0 {
			return nil, &SidecarError{Path: sidecar, Keys: keys}
		}
		layer, err := fc.Layer(sidecar)
		if err != nil {
			return nil, err
		}
		cfg = cfg.Merge(layer)
		r.logger.Debug("applied sidecar config", "file", path, "sidecar", sidecar)
	}

	directives, err := ScanDirectives(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(directives) > 0 {
		cfg = cfg.Merge(DirectivesLayer(directives))
		r.logger.Debug("applied inline directives", "file", path, "count", len(directives))
	}

	if cfg == base {
		return base.Clone(), nil
	}
	return cfg, nil
}
