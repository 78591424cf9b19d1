package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/squall/pkg/config"
)

func TestMergeEnablesAndDisables(t *testing.T) {
	base := config.Defaults().Merge(config.Layer{
		Rules: map[string]config.RuleOptions{
			"a": {},
			"b": {"excluded": []any{"x"}},
		},
		Reporter: "plain",
		Plugins:  []string{"p1"},
	})
	assert.Equal(t, []string{"a", "b"}, base.Enabled())

	next := base.Merge(config.Layer{
		Rules:    map[string]config.RuleOptions{"b": {"limit": 3}, "c": {}},
		Disable:  []string{"a"},
		Reporter: "json",
		Plugins:  []string{"p1", "p2"},
	})
	assert.Equal(t, []string{"b", "c"}, next.Enabled())
	assert.Equal(t, config.RuleOptions{"excluded": []any{"x"}, "limit": 3}, next.Options("b"))
	assert.Equal(t, "json", next.Reporter)
	assert.Equal(t, []string{"p1", "p2"}, next.Plugins)

	// an empty reporter keeps the previous one
	assert.Equal(t, "json", next.Merge(config.Layer{}).Reporter)

	// base is not modified
	assert.Equal(t, []string{"a", "b"}, base.Enabled())
	assert.Equal(t, config.RuleOptions{"excluded": []any{"x"}}, base.Options("b"))
	assert.Equal(t, "plain", base.Reporter)
}

func TestMergeDisableWinsWithinLayer(t *testing.T) {
	cfg := config.Defaults().Merge(config.Layer{
		Rules:   map[string]config.RuleOptions{"a": {}},
		Disable: []string{"a"},
	})
	assert.False(t, cfg.IsEnabled("a"))

	cfg = config.Defaults().Merge(config.Layer{
		Rules:      map[string]config.RuleOptions{"a": {}, "b": {}},
		DisableAll: true,
	})
	assert.Empty(t, cfg.Enabled())
}

func TestMergeDeepCopiesOptions(t *testing.T) {
	opts := config.RuleOptions{"excluded": []any{"users"}}
	cfg := config.Defaults().Merge(config.Layer{Rules: map[string]config.RuleOptions{"r": opts}})

	opts["excluded"].([]any)[0] = "changed"
	assert.Equal(t, []any{"users"}, cfg.Options("r")["excluded"])

	got := cfg.Options("r")
	got["excluded"] = nil
	assert.Equal(t, []any{"users"}, cfg.Options("r")["excluded"])
}

func TestMergeIsDeterministic(t *testing.T) {
	layers := []config.Layer{
		{Rules: map[string]config.RuleOptions{"a": {"k": 1}, "b": {}}},
		{Rules: map[string]config.RuleOptions{"a": {"k": 2}}, Disable: []string{"b"}},
		{Rules: map[string]config.RuleOptions{"c": {}}},
	}
	fold := func() *config.Configuration {
		cfg := config.Defaults()
		for _, l := range layers {
			cfg = cfg.Merge(l)
		}
		return cfg
	}

	first := fold()
	for range 20 {
		require.Equal(t, first, fold())
	}
	assert.Equal(t, []string{"a", "c"}, first.Enabled())
	assert.Equal(t, 2, first.Options("a")["k"])
}

func TestOptionsOfDisabledRule(t *testing.T) {
	cfg := config.Defaults()
	assert.False(t, cfg.IsEnabled("missing"))
	assert.Empty(t, cfg.Options("missing"))
}
