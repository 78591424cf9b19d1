package config_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/squall/internal/testutil"
	"github.com/leapstack-labs/squall/pkg/config"
)

func newResolver(t *testing.T, workDir string) *config.Resolver {
	t.Helper()
	return config.NewResolver(
		config.WithLogger(testutil.NewTestLogger(t)),
		config.WithWorkDir(workDir),
		config.WithHomeDir(""),
	)
}

func TestResolveBaseDefaults(t *testing.T) {
	cfg, err := newResolver(t, t.TempDir()).ResolveBase("", "")
	require.NoError(t, err)
	assert.Empty(t, cfg.Enabled())
	assert.Empty(t, cfg.Source)
	assert.Empty(t, cfg.Preset.Name)
}

func TestResolveBaseExplicitMissing(t *testing.T) {
	dir := t.TempDir()
	// an implicit config must not be used in place of a missing explicit one
	writeFile(t, filepath.Join(dir, ".squallrc"), "rules:\n  no-select-star:\n")

	missing := filepath.Join(dir, "nope.yaml")
	_, err := newResolver(t, dir).ResolveBase(missing, "")
	var notFound *config.ConfigNotFoundError
	require.True(t, errors.As(err, &notFound), "got %v", err)
	assert.Equal(t, missing, notFound.Path)
}

func TestResolveBaseUnknownPreset(t *testing.T) {
	_, err := newResolver(t, t.TempDir()).ResolveBase("", "nope")
	var unknown *config.UnknownPresetError
	assert.True(t, errors.As(err, &unknown))
}

func TestResolveBasePresetThenFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "squall.yaml"), `
preset: postgres
reporter: json
rules:
  no-select-star:
  add-column-disallow-constraints:
    disallowed: [CHECK]
disable: [require-primary-key]
`)

	cfg, err := newResolver(t, dir).ResolveBase("", "")
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, "postgres", cfg.Preset.Name)
	assert.Equal(t, "json", cfg.Reporter)
	assert.True(t, cfg.IsEnabled("no-select-star"))
	assert.True(t, cfg.IsEnabled("require-concurrent-index"))
	assert.False(t, cfg.IsEnabled("require-primary-key"))
	assert.Equal(t, []any{"CHECK"}, cfg.Options("add-column-disallow-constraints")["disallowed"])

	t.Run("preset flag overrides file preset", func(t *testing.T) {
		cfg, err := newResolver(t, dir).ResolveBase(path, "select")
		require.NoError(t, err)
		assert.Equal(t, "select", cfg.Preset.Name)
		assert.False(t, cfg.IsEnabled("require-concurrent-index"))
		assert.True(t, cfg.IsEnabled("disallow-not-in"))
	})
}

func TestResolveForSourcePrecedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "squall.yaml"), `
rules:
  disallow-foreign-key:
    excluded: [from_file]
  no-select-star:
`)
	sqlPath := filepath.Join(dir, "001.sql")
	writeFile(t, config.SidecarPath(sqlPath), `
rules:
  disallow-foreign-key:
    excluded: [from_sidecar]
  disallow-not-in:
disable: [no-select-star]
`)

	r := newResolver(t, dir)
	base, err := r.ResolveBase("", "")
	require.NoError(t, err)

	src := []byte("-- squall-enable:disallow-foreign-key excluded=[from_directive]\n-- squall-disable:disallow-not-in\nSELECT 1;\n")
	cfg, err := r.ResolveForSource(base, sqlPath, src)
	require.NoError(t, err)

	assert.Equal(t, []any{"from_directive"}, cfg.Options("disallow-foreign-key")["excluded"])
	assert.False(t, cfg.IsEnabled("no-select-star"))
	assert.False(t, cfg.IsEnabled("disallow-not-in"))

	// the base is shared across files and stays untouched
	assert.Equal(t, []any{"from_file"}, base.Options("disallow-foreign-key")["excluded"])
	assert.True(t, base.IsEnabled("no-select-star"))

	t.Run("other files see only the base", func(t *testing.T) {
		other, err := r.ResolveForSource(base, filepath.Join(dir, "002.sql"), []byte("SELECT 1;"))
		require.NoError(t, err)
		assert.Equal(t, base.Enabled(), other.Enabled())
		assert.NotSame(t, base, other)
	})
}

func TestResolveForSourceBadDirective(t *testing.T) {
	r := newResolver(t, t.TempDir())
	_, err := r.ResolveForSource(config.Defaults(), "x.sql", []byte("-- squall-enable\n"))
	var derr *config.DirectiveError
	assert.True(t, errors.As(err, &derr))
}

func TestResolveForSourceSidecarRunKeys(t *testing.T) {
	tests := []struct {
		name    string
		sidecar string
		keys    []string
	}{
		{name: "preset", sidecar: "preset: full\n", keys: []string{"preset"}},
		{name: "plugins", sidecar: "plugins: [rules.star]\n", keys: []string{"plugins"}},
		{
			name:    "several",
			sidecar: "reporter: json\njobs: 2\ntimeout: 5s\nrules:\n  no-select-star:\n",
			keys:    []string{"reporter", "jobs", "timeout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "a.sql")
			writeFile(t, config.SidecarPath(path), tt.sidecar)

			_, err := newResolver(t, dir).ResolveForSource(config.Defaults(), path, []byte("SELECT 1;"))
			var serr *config.SidecarError
			require.True(t, errors.As(err, &serr), "got %v", err)
			assert.Equal(t, tt.keys, serr.Keys)
			assert.Equal(t, config.SidecarPath(path), serr.Path)
		})
	}
}

func TestResolveForFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "a.sql"), "-- squall-enable:no-select-star\nSELECT * FROM t;\n")

	r := newResolver(t, dir)
	cfg, err := r.ResolveForFile(config.Defaults(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"no-select-star"}, cfg.Enabled())

	_, err = r.ResolveForFile(config.Defaults(), filepath.Join(dir, "missing.sql"))
	assert.Error(t, err)
}
