package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/squall/pkg/config"
	"github.com/leapstack-labs/squall/pkg/lint"
	"github.com/leapstack-labs/squall/pkg/parser"
	"github.com/leapstack-labs/squall/pkg/token"
)

// Runner lints files against a registry of rules.
type Runner struct {
	registry *lint.Registry
	resolver *config.Resolver
	logger   *slog.Logger

	// Jobs bounds the number of files linted at once. Zero or less means
	// GOMAXPROCS.
	Jobs int
	// FileTimeout bounds rule execution per file. Zero means no limit.
	FileTimeout time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithResolver sets the resolver used for per-file configuration.
func WithResolver(resolver *config.Resolver) Option {
	return func(r *Runner) {
		r.resolver = resolver
	}
}

// WithJobs sets the parallelism of LintAll.
func WithJobs(n int) Option {
	return func(r *Runner) {
		r.Jobs = n
	}
}

// WithFileTimeout bounds rule execution per file.
func WithFileTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.FileTimeout = d
	}
}

// New creates a Runner over reg.
func New(reg *lint.Registry, opts ...Option) *Runner {
	r := &Runner{
		registry: reg,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.resolver == nil {
		r.resolver = config.NewResolver(config.WithLogger(r.logger))
	}
	return r
}

// LintFile reads, parses and lints path with the rules enabled in cfg.
func (r *Runner) LintFile(ctx context.Context, cfg *config.Configuration, path string) []lint.Issue {
	src, err := os.ReadFile(path) //nolint:gosec // G304: path is a lint input
	if err != nil {
		return []lint.Issue{lint.ParseErrorIssue(path, parseErrorPos(err), err)}
	}
	return r.LintSource(ctx, cfg, path, src)
}

// LintSource lints src as the contents of path. Issues are ordered by rule
// name, then by the order each rule reported them.
func (r *Runner) LintSource(ctx context.Context, cfg *config.Configuration, path string, src []byte) []lint.Issue {
	script, err := parser.Parse(path, src)
	if err != nil {
		r.logger.Debug("parse failed", "file", path, "error", err)
		return []lint.Issue{lint.ParseErrorIssue(path, parseErrorPos(err), err)}
	}

	if r.FileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.FileTimeout)
		defer cancel()
	}

	var issues []lint.Issue
	for _, name := range cfg.Enabled() {
		issues = append(issues, r.runRule(ctx, cfg, name, script)...)
	}
	return issues
}

// runRule instantiates and runs one rule, converting any failure into a
// single execution-error issue.
func (r *Runner) runRule(ctx context.Context, cfg *config.Configuration, name string, script *parser.Script) []lint.Issue {
	desc, err := r.registry.Get(name)
	if err != nil {
		return []lint.Issue{lint.ExecutionErrorIssue(name, script.Path, err)}
	}
	rule, err := r.registry.Instantiate(name, cfg.Options(name))
	if err != nil {
		return []lint.Issue{lint.ExecutionErrorIssue(name, script.Path, err)}
	}

	found, err := check(ctx, rule, script)
	if err != nil {
		xerr := &lint.RuleExecutionError{Rule: name, File: script.Path, Err: err}
		r.logger.Debug("rule failed", "rule", name, "file", script.Path, "error", err)
		return []lint.Issue{lint.ExecutionErrorIssue(name, script.Path, xerr)}
	}

	out := make([]lint.Issue, len(found))
	for i, iss := range found {
		out[i] = iss.Finalize(name, script.Path, desc.Severity)
	}
	return out
}

// check runs rule, recovering a panic as an error.
func check(ctx context.Context, rule lint.Rule, script *parser.Script) (issues []lint.Issue, err error) {
	defer func() {
		if p := recover(); p != nil {
			issues, err = nil, fmt.Errorf("panic: %v", p)
		}
	}()
	if cr, ok := rule.(lint.ContextRule); ok {
		return cr.CheckContext(ctx, script)
	}
	return rule.Check(script)
}

// LintAll resolves the configuration of each file on top of base and lints
// the files in parallel. The result holds one entry per input file, in
// input order.
//
// When ctx is cancelled no further files are started; files already being
// linted finish. LintAll then returns the partial result with ctx.Err().
func (r *Runner) LintAll(ctx context.Context, base *config.Configuration, files []string) (*Result, error) {
	r.registry.Freeze()

	res := &Result{RunID: uuid.New(), Files: make([]FileResult, len(files))}
	done := make([]bool, len(files))

	jobs := r.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	r.logger.Debug("lint started", "run_id", res.RunID, "files", len(files), "jobs", jobs)

	// Workers never return errors; cancellation is checked before each file.
	var g errgroup.Group
	g.SetLimit(max(1, min(jobs, len(files))))

	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res.Files[i] = FileResult{Path: path, Issues: r.lintOne(ctx, base, path)}
			done[i] = true
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		partial := res.Files[:0]
		for i, f := range res.Files {
			if done[i] {
				partial = append(partial, f)
			}
		}
		res.Files = partial
		r.logger.Debug("lint cancelled", "run_id", res.RunID, "completed", len(partial), "error", err)
		return res, err
	}

	r.logger.Debug("lint finished", "run_id", res.RunID, "duration", time.Since(start))
	return res, nil
}

func (r *Runner) lintOne(ctx context.Context, base *config.Configuration, path string) []lint.Issue {
	src, err := os.ReadFile(path) //nolint:gosec // G304: path is a lint input
	if err != nil {
		return []lint.Issue{lint.ParseErrorIssue(path, parseErrorPos(err), err)}
	}
	cfg, err := r.resolver.ResolveForSource(base, path, src)
	if err != nil {
		return []lint.Issue{lint.ParseErrorIssue(path, parseErrorPos(err), err)}
	}
	return r.LintSource(ctx, cfg, path, src)
}

// parseErrorPos returns the source position carried by err, if any.
func parseErrorPos(err error) (pos token.Position) {
	var perr *parser.ParseError
	var derr *config.DirectiveError
	switch {
	case errors.As(err, &perr):
		pos = perr.Pos
	case errors.As(err, &derr):
		pos = derr.Pos
	}
	return pos
}
