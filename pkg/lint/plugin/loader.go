package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/leapstack-labs/squall/pkg/lint"
)

// DefaultMaxSteps bounds the work of a single check call or file load.
const DefaultMaxSteps = 10_000_000

// Loader resolves plugin sources to rule descriptors.
//
// A Loader remembers every source it has attempted; loading one twice fails
// with ErrAlreadyLoaded.
type Loader struct {
	logger   *slog.Logger
	maxSteps uint64

	mu   sync.Mutex
	seen map[string]bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for load events and plugin print output.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMaxSteps sets the Starlark execution step limit; 0 disables it.
func WithMaxSteps(n uint64) Option {
	return func(l *Loader) {
		l.maxSteps = n
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		logger:   slog.New(slog.DiscardHandler),
		maxSteps: DefaultMaxSteps,
		seen:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves every source and registers its rules with reg. All sources
// are attempted; the failures are joined. A source whose rules cannot all be
// registered contributes none of them.
func (l *Loader) Load(ctx context.Context, reg *lint.Registry, sources []string) error {
	var errs []error
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		descs, err := l.LoadSource(ctx, src)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := reg.RegisterAll(descs...); err != nil {
			errs = append(errs, &PluginLoadError{Source: src, Err: err})
			continue
		}
		l.logger.Debug("loaded plugin", "source", src, "rules", len(descs))
	}
	return errors.Join(errs...)
}

// LoadSource resolves a single source to descriptors without registering
// them. Errors are *PluginLoadError.
func (l *Loader) LoadSource(ctx context.Context, source string) ([]lint.RuleDescriptor, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, &PluginLoadError{Source: source, Err: err}
	}

	l.mu.Lock()
	if l.seen[abs] {
		l.mu.Unlock()
		return nil, &PluginLoadError{Source: source, Err: ErrAlreadyLoaded}
	}
	l.seen[abs] = true
	l.mu.Unlock()

	files, err := starFiles(abs)
	if err != nil {
		return nil, &PluginLoadError{Source: source, Err: err}
	}

	var descs []lint.RuleDescriptor
	for _, file := range files {
		fileDescs, err := l.loadFile(ctx, file)
		if err != nil {
			return nil, &PluginLoadError{Source: source, Err: err}
		}
		descs = append(descs, fileDescs...)
	}
	return descs, nil
}

// starFiles expands a source path to the .star files it names.
func starFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	files, err := filepath.Glob(filepath.Join(path, "*.star"))
	if err != nil {
		return nil, fmt.Errorf("scan plugin directory: %w", err)
	}
	return files, nil
}

// loadFile executes a plugin file and returns the rules it declares.
func (l *Loader) loadFile(ctx context.Context, path string) ([]lint.RuleDescriptor, error) {
	content, err := os.ReadFile(path) //nolint:gosec // G304: plugin paths come from user configuration
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	thread := &starlark.Thread{
		Name: "load:" + filepath.Base(path),
		Print: func(_ *starlark.Thread, msg string) {
			l.logger.Debug("plugin print", "file", path, "msg", msg)
		},
	}
	if l.maxSteps > 0 {
		thread.SetMaxExecutionSteps(l.maxSteps)
	}
	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(ctx.Err().Error())
	})
	defer stop()

	var specs []ruleSpec
	if _, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, path, content, predeclared(path, &specs)); err != nil {
		return nil, fmt.Errorf("starlark execution error: %w", err)
	}

	descs := make([]lint.RuleDescriptor, 0, len(specs))
	for _, spec := range specs {
		// checks run concurrently on many threads
		spec.check.Freeze()
		descs = append(descs, l.descriptor(path, spec))
	}
	return descs, nil
}

func (l *Loader) descriptor(path string, spec ruleSpec) lint.RuleDescriptor {
	return lint.RuleDescriptor{
		Name:        spec.name,
		Description: spec.description,
		Help:        spec.help,
		Group:       spec.group,
		Severity:    spec.severity,
		ConfigKeys:  spec.configKeys,
		Source:      path,
		Factory: func(opts lint.Options) (lint.Rule, error) {
			if spec.schema != nil {
				if err := spec.schema.Validate(opts); err != nil {
					return nil, err
				}
			}
			dict, err := toStarlark(map[string]any(opts))
			if err != nil {
				return nil, err
			}
			dict.Freeze()
			return &starlarkRule{
				name:     spec.name,
				check:    spec.check,
				options:  dict.(*starlark.Dict),
				maxSteps: l.maxSteps,
				logger:   l.logger,
			}, nil
		},
	}
}
