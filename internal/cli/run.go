package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leapstack-labs/squall/internal/cli/config"
	squallcfg "github.com/leapstack-labs/squall/pkg/config"
	"github.com/leapstack-labs/squall/pkg/lint"
	"github.com/leapstack-labs/squall/pkg/lint/plugin"
	"github.com/leapstack-labs/squall/pkg/lint/rules"
	"github.com/leapstack-labs/squall/pkg/lint/runner"
	"github.com/leapstack-labs/squall/pkg/report"
)

// session is the state built during setup, shared by one-shot and watch
// runs.
type session struct {
	base     *squallcfg.Configuration
	resolver *squallcfg.Resolver
	runner   *runner.Runner
	reporter string
	out      io.Writer
	paths    []string

	// arguments ResolveBase was called with, for reloads in watch mode
	configFile string
	preset     string
}

func run(cmd *cobra.Command, opts *Options, args []string) error {
	ctx := cmd.Context()
	logger := config.GetLogger(ctx)
	out := cmd.OutOrStdout()

	if opts.ListPresets {
		return listPresets(out)
	}

	resolver := squallcfg.NewResolver(squallcfg.WithLogger(logger))
	base, err := resolver.ResolveBase(opts.ConfigFile, opts.Preset)
	if err != nil {
		return err
	}
	if base.Source != "" {
		logger.Debug("using config file", "path", base.Source)
	}

	settings, err := config.LoadSettings(base.Source, cmd.Flags())
	if err != nil {
		return err
	}

	reg := lint.NewRegistry()
	if err := rules.LoadBuiltins(reg); err != nil {
		return err
	}
	loader := plugin.NewLoader(plugin.WithLogger(logger))
	if err := loader.Load(ctx, reg, pluginSources(base)); err != nil {
		return err
	}
	reg.Freeze()

	switch {
	case opts.ListRules:
		return listRules(out, reg)
	case opts.ShowRule != "":
		return showRule(out, reg, opts.ShowRule)
	}

	files, err := CollectFiles(args)
	if err != nil {
		return err
	}

	reporterName := settings.Reporter
	if reporterName == "" {
		reporterName = base.Reporter
	}
	if reporterName == "" {
		reporterName = defaultReporter(out)
	}
	if _, err := report.New(reporterName); err != nil {
		return err
	}

	s := &session{
		base:     base,
		resolver: resolver,
		runner: runner.New(reg,
			runner.WithLogger(logger),
			runner.WithResolver(resolver),
			runner.WithJobs(settings.Jobs),
			runner.WithFileTimeout(settings.Timeout),
		),
		reporter:   reporterName,
		out:        out,
		paths:      args,
		configFile: opts.ConfigFile,
		preset:     opts.Preset,
	}

	if settings.Watch {
		return s.watch(ctx, logger)
	}

	res, err := s.lint(ctx, files)
	if err != nil {
		return err
	}
	if res.Failed() {
		return ErrIssuesFound
	}
	return nil
}

// lint lints files and reports the issues, including those of a partial
// cancelled run.
func (s *session) lint(ctx context.Context, files []string) (*runner.Result, error) {
	res, runErr := s.runner.LintAll(ctx, s.base, files)
	if res == nil {
		return nil, runErr
	}

	r, err := report.New(s.reporter,
		report.WithRunID(res.RunID),
		report.WithColorProfile(colorProfile(s.out)),
		report.WithFileCount(len(res.Files)),
	)
	if err != nil {
		return nil, err
	}
	if err := r.Report(s.out, res.Issues()); err != nil {
		return nil, err
	}
	return res, runErr
}

// pluginSources resolves plugin paths from the configuration relative to
// the configuration file that named them.
func pluginSources(cfg *squallcfg.Configuration) []string {
	dir := ""
	if cfg.Source != "" {
		dir = filepath.Dir(cfg.Source)
	}
	out := make([]string, len(cfg.Plugins))
	for i, p := range cfg.Plugins {
		p = expandHome(p)
		if dir != "" && !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		out[i] = p
	}
	return out
}

// defaultReporter picks color on a terminal and plain otherwise.
func defaultReporter(w io.Writer) string {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // G115: fd fits in int
		return report.Color
	}
	return report.Plain
}

func colorProfile(w io.Writer) termenv.Profile {
	return termenv.NewOutput(w).EnvColorProfile()
}
