package lint_test

import (
	"testing"

	"github.com/leapstack-labs/squall/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOption(t *testing.T) {
	opts := lint.Options{
		"name":   "x",
		"count":  float64(3),
		"flag":   true,
		"list":   []any{"a", "b", 1},
		"single": "only",
	}

	assert.Equal(t, "x", lint.GetOption(opts, "name", "default"))
	assert.Equal(t, "default", lint.GetOption(opts, "missing", "default"))
	assert.True(t, lint.GetOption(opts, "flag", false))
	assert.Equal(t, 3, lint.GetIntOption(opts, "count", 0))
	assert.Equal(t, 7, lint.GetIntOption(opts, "name", 7))
	assert.Equal(t, []string{"a", "b"}, lint.GetStringSliceOption(opts, "list", nil))
	assert.Equal(t, []string{"only"}, lint.GetStringSliceOption(opts, "single", nil))
	assert.Nil(t, lint.GetStringSliceOption(nil, "list", nil))
}

func TestDecodeOptions(t *testing.T) {
	type settings struct {
		Excluded []string `mapstructure:"excluded"`
		Limit    int      `mapstructure:"limit"`
	}

	t.Run("decodes known keys", func(t *testing.T) {
		var s settings
		err := lint.DecodeOptions(lint.Options{"excluded": []any{"a", "b"}, "limit": "4"}, &s)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, s.Excluded)
		assert.Equal(t, 4, s.Limit)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		var s settings
		err := lint.DecodeOptions(lint.Options{"exclude": []any{"a"}}, &s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exclude")
	})

	t.Run("nil options", func(t *testing.T) {
		var s settings
		require.NoError(t, lint.DecodeOptions(nil, &s))
		assert.Empty(t, s.Excluded)
	})
}

func TestOptionsClone(t *testing.T) {
	orig := lint.Options{"list": []any{"a"}, "nested": map[string]any{"k": "v"}}
	clone := orig.Clone()

	clone["list"].([]any)[0] = "changed"
	clone["nested"].(map[string]any)["k"] = "changed"

	assert.Equal(t, "a", orig["list"].([]any)[0])
	assert.Equal(t, "v", orig["nested"].(map[string]any)["k"])
	assert.Equal(t, []string{"list", "nested"}, orig.Keys())
	assert.Nil(t, lint.Options(nil).Clone())
}
