package runner_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/squall/internal/testutil"
	"github.com/leapstack-labs/squall/pkg/config"
	"github.com/leapstack-labs/squall/pkg/core"
	"github.com/leapstack-labs/squall/pkg/lint"
	"github.com/leapstack-labs/squall/pkg/lint/plugin"
	"github.com/leapstack-labs/squall/pkg/lint/rules"
	"github.com/leapstack-labs/squall/pkg/lint/runner"
	"github.com/leapstack-labs/squall/pkg/parser"
)

func writeSQL(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func enable(names ...string) *config.Configuration {
	l := config.Layer{Rules: make(map[string]config.RuleOptions)}
	for _, n := range names {
		l.Rules[n] = config.RuleOptions{}
	}
	return config.Defaults().Merge(l)
}

func newRunner(t *testing.T, reg *lint.Registry, opts ...runner.Option) *runner.Runner {
	t.Helper()
	logger := testutil.NewTestLogger(t)
	resolver := config.NewResolver(config.WithLogger(logger), config.WithWorkDir(t.TempDir()), config.WithHomeDir(""))
	return runner.New(reg, append([]runner.Option{runner.WithLogger(logger), runner.WithResolver(resolver)}, opts...)...)
}

func builtins(t *testing.T) *lint.Registry {
	t.Helper()
	reg := lint.NewRegistry()
	require.NoError(t, rules.LoadBuiltins(reg))
	return reg
}

func TestSelectStarScenario(t *testing.T) {
	dir := t.TempDir()
	a := writeSQL(t, dir, "a.sql", "SELECT * FROM t;")

	res, err := newRunner(t, builtins(t)).LintAll(context.Background(), enable("no-select-star"), []string{a})
	require.NoError(t, err)
	assert.NotEqual(t, [16]byte{}, [16]byte(res.RunID))

	issues := res.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, "no-select-star", issues[0].Rule)
	assert.Equal(t, a, issues[0].File)
	assert.Equal(t, 1, issues[0].Pos.Line)
	assert.Equal(t, 8, issues[0].Pos.Column)
	assert.Equal(t, lint.KindFinding, issues[0].Kind)
	assert.True(t, res.Failed())
}

func TestDirectiveDisablesRuleScenario(t *testing.T) {
	dir := t.TempDir()
	b := writeSQL(t, dir, "b.sql", "-- squall-disable:no-select-star\nSELECT * FROM t;\n")

	res, err := newRunner(t, builtins(t)).LintAll(context.Background(), enable("no-select-star"), []string{b})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Empty(t, res.Files[0].Issues)
	assert.False(t, res.Failed())
}

func TestDirectiveOnlyAffectsItsFile(t *testing.T) {
	dir := t.TempDir()
	a := writeSQL(t, dir, "a.sql", "SELECT * FROM t;")
	b := writeSQL(t, dir, "b.sql", "-- squall-disable\nSELECT * FROM t;\n")
	c := writeSQL(t, dir, "c.sql", "SELECT * FROM u;")

	res, err := newRunner(t, builtins(t), runner.WithJobs(1)).LintAll(context.Background(), enable("no-select-star"), []string{a, b, c})
	require.NoError(t, err)
	require.Len(t, res.Files, 3)
	assert.Len(t, res.Files[0].Issues, 1)
	assert.Empty(t, res.Files[1].Issues)
	assert.Len(t, res.Files[2].Issues, 1)
}

func TestParseFailureIsolation(t *testing.T) {
	dir := t.TempDir()
	bad := writeSQL(t, dir, "bad.sql", "SELECT * FROM t;\nSELECT (1;\n")
	good := writeSQL(t, dir, "good.sql", "SELECT * FROM t;")

	res, err := newRunner(t, builtins(t)).LintAll(context.Background(), enable("no-select-star"), []string{bad, good})
	require.NoError(t, err)
	require.Len(t, res.Files, 2)

	require.Len(t, res.Files[0].Issues, 1)
	perr := res.Files[0].Issues[0]
	assert.Equal(t, lint.KindParseError, perr.Kind)
	assert.Equal(t, lint.ParseErrorRule, perr.Rule)
	assert.Equal(t, core.SeverityError, perr.Severity)
	assert.Equal(t, 2, perr.Pos.Line)

	require.Len(t, res.Files[1].Issues, 1)
	assert.Equal(t, "no-select-star", res.Files[1].Issues[0].Rule)
}

func TestMissingFileIsParseError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.sql")
	issues := newRunner(t, builtins(t)).LintFile(context.Background(), enable("no-select-star"), missing)
	require.Len(t, issues, 1)
	assert.Equal(t, lint.KindParseError, issues[0].Kind)
}

func TestBadDirectiveIsParseError(t *testing.T) {
	path := writeSQL(t, t.TempDir(), "d.sql", "\n-- squall-enable\nSELECT 1;")
	res, err := newRunner(t, builtins(t)).LintAll(context.Background(), config.Defaults(), []string{path})
	require.NoError(t, err)

	issues := res.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, lint.KindParseError, issues[0].Kind)
	assert.Equal(t, 2, issues[0].Pos.Line)
}

func TestRuleFailureIsolation(t *testing.T) {
	reg := lint.NewRegistry()
	require.NoError(t, reg.RegisterAll(
		lint.RuleDescriptor{
			Name:     "r1",
			Severity: core.SeverityWarning,
			Factory: lint.Stateless(func(s *parser.Script) ([]lint.Issue, error) {
				return []lint.Issue{lint.NewIssue(s.Statements[0].Pos(), "first"), lint.NewIssue(s.Statements[0].Pos(), "second")}, nil
			}),
		},
		lint.RuleDescriptor{
			Name:     "r2",
			Severity: core.SeverityWarning,
			Factory: lint.Stateless(func(*parser.Script) ([]lint.Issue, error) {
				return nil, errors.New("boom")
			}),
		},
		lint.RuleDescriptor{
			Name:     "r3",
			Severity: core.SeverityHint,
			Factory: lint.Stateless(func(*parser.Script) ([]lint.Issue, error) {
				panic("unexpected")
			}),
		},
	))

	cfg := enable("r1", "r2", "r3", "unknown-rule")
	issues := newRunner(t, reg).LintSource(context.Background(), cfg, "x.sql", []byte("SELECT 1;"))
	require.Len(t, issues, 5)

	assert.Equal(t, "r1", issues[0].Rule)
	assert.Equal(t, "first", issues[0].Message)
	assert.Equal(t, "second", issues[1].Message)
	assert.Equal(t, core.SeverityWarning, issues[0].Severity)
	assert.Equal(t, "x.sql", issues[0].File)

	assert.Equal(t, "r2", issues[2].Rule)
	assert.Equal(t, lint.KindExecutionError, issues[2].Kind)
	assert.Contains(t, issues[2].Message, "boom")

	assert.Equal(t, "r3", issues[3].Rule)
	assert.Equal(t, lint.KindExecutionError, issues[3].Kind)
	assert.Equal(t, core.SeverityError, issues[3].Severity)
	assert.Contains(t, issues[3].Message, "panic")

	assert.Equal(t, "unknown-rule", issues[4].Rule)
	assert.Equal(t, lint.KindExecutionError, issues[4].Kind)
}

func TestInvalidOptionsIsExecutionError(t *testing.T) {
	cfg := config.Defaults().Merge(config.Layer{Rules: map[string]config.RuleOptions{
		"disallow-foreign-key": {"exclude": []any{"typo"}},
		"no-select-star":       {},
	}})
	issues := newRunner(t, builtins(t)).LintSource(context.Background(), cfg, "x.sql", []byte("SELECT * FROM t;"))
	require.Len(t, issues, 2)
	assert.Equal(t, "disallow-foreign-key", issues[0].Rule)
	assert.Equal(t, lint.KindExecutionError, issues[0].Kind)
	assert.Equal(t, "no-select-star", issues[1].Rule)
	assert.Equal(t, lint.KindFinding, issues[1].Kind)
}

func TestLintAllUnionUnderParallelism(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i := range 40 {
		var sql string
		switch i % 3 {
		case 0:
			sql = "SELECT * FROM t;"
		case 1:
			sql = "SELECT * FROM t; SELECT id, * FROM u;"
		default:
			sql = "SELECT id FROM t;"
		}
		files = append(files, writeSQL(t, dir, fmt.Sprintf("%02d.sql", i), sql))
	}

	want := func(i int) int { return []int{1, 2, 0}[i%3] }

	for _, jobs := range []int{1, 4, 16} {
		t.Run(fmt.Sprintf("jobs=%d", jobs), func(t *testing.T) {
			res, err := newRunner(t, builtins(t), runner.WithJobs(jobs)).
				LintAll(context.Background(), enable("no-select-star"), files)
			require.NoError(t, err)
			require.Len(t, res.Files, len(files))

			total := 0
			for i, f := range res.Files {
				assert.Equal(t, files[i], f.Path)
				assert.Len(t, f.Issues, want(i), f.Path)
				for _, iss := range f.Issues {
					assert.Equal(t, files[i], iss.File)
				}
				total += want(i)
			}
			assert.Len(t, res.Issues(), total)
			assert.Equal(t, total, res.Counts()[lint.KindFinding])
		})
	}
}

func TestLintAllFreezesRegistry(t *testing.T) {
	reg := builtins(t)
	_, err := newRunner(t, reg).LintAll(context.Background(), config.Defaults(), nil)
	require.NoError(t, err)
	assert.True(t, reg.Frozen())
}

func TestLintAllCancelled(t *testing.T) {
	dir := t.TempDir()
	files := []string{writeSQL(t, dir, "a.sql", "SELECT * FROM t;")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newRunner(t, builtins(t)).LintAll(ctx, enable("no-select-star"), files)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Empty(t, res.Files)
}

func TestFileTimeoutStopsPluginRule(t *testing.T) {
	dir := t.TempDir()
	star := writeSQL(t, dir, "spin.star", `
def spin(ctx):
    n = 0
    for i in range(1000000000):
        n += i
    return []

rule(name = "spin", check = spin)
`)
	reg := builtins(t)
	require.NoError(t, plugin.NewLoader().Load(context.Background(), reg, []string{star}))

	r := newRunner(t, reg, runner.WithFileTimeout(50*time.Millisecond))
	issues := r.LintSource(context.Background(), enable("spin", "no-select-star"), "x.sql", []byte("SELECT * FROM t;"))
	require.Len(t, issues, 2)
	assert.Equal(t, "no-select-star", issues[0].Rule)
	assert.Equal(t, "spin", issues[1].Rule)
	assert.Equal(t, lint.KindExecutionError, issues[1].Kind)
}
