package cli

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	squallcfg "github.com/leapstack-labs/squall/pkg/config"
)

// watchDebounce is how long watch mode waits for writes to settle.
const watchDebounce = 200 * time.Millisecond

// watch lints the input paths once, then again after every change to a SQL
// file or sidecar configuration below them, until ctx is done. A change to
// the configuration file reloads the base configuration first.
func (s *session) watch(ctx context.Context, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	for _, path := range s.paths {
		if err := watchPath(watcher, expandHome(path)); err != nil {
			logger.Error("failed to watch path", "path", path, "error", err)
		}
	}
	if s.base.Source != "" {
		if err := watcher.Add(filepath.Dir(s.base.Source)); err != nil {
			logger.Error("failed to watch config file", "path", s.base.Source, "error", err)
		}
	}

	relint := func() {
		files, err := CollectFiles(s.paths)
		if err != nil {
			logger.Error("failed to collect files", "error", err)
			return
		}
		if _, err := s.lint(ctx, files); err != nil && ctx.Err() == nil {
			logger.Error("lint failed", "error", err)
		}
	}
	relint()

	reload := false
	trigger := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchPath(watcher, event.Name)
				}
			}
			if s.isConfigFile(event.Name) {
				reload = true
			} else if !watched(event.Name) {
				continue
			}

			logger.Debug("file changed", "file", event.Name, "op", event.Op.String())
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case <-trigger:
			if reload {
				reload = false
				s.reloadBase(logger)
			}
			relint()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

// isConfigFile reports whether name is the configuration file of the base,
// or a file that discovery could pick up instead.
func (s *session) isConfigFile(name string) bool {
	if s.base.Source != "" && samePath(name, s.base.Source) {
		return true
	}
	return s.configFile == "" && slices.Contains(squallcfg.ConfigFileNames, filepath.Base(name))
}

// reloadBase resolves the base configuration again. On failure the previous
// base stays in effect. Plugins are only loaded at startup.
func (s *session) reloadBase(logger *slog.Logger) {
	base, err := s.resolver.ResolveBase(s.configFile, s.preset)
	if err != nil {
		logger.Error("failed to reload configuration, keeping the previous one", "error", err)
		return
	}
	if !slices.Equal(pluginSources(base), pluginSources(s.base)) {
		logger.Warn("plugin changes take effect after a restart")
	}
	logger.Info("configuration reloaded", "path", base.Source)
	s.base = base
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// watched reports whether a change to name can affect lint results.
func watched(name string) bool {
	return filepath.Ext(name) == ".sql" || filepath.Ext(name) == ".yaml" || filepath.Base(name) == ".squallrc"
}

// watchPath watches a directory recursively, or the directory of a file.
func watchPath(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
}
