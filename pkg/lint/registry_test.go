package lint_test

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/squall/pkg/core"
	"github.com/leapstack-labs/squall/pkg/lint"
	"github.com/leapstack-labs/squall/pkg/parser"
	"github.com/leapstack-labs/squall/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(*parser.Script) ([]lint.Issue, error) { return nil, nil }

func descriptor(name string) lint.RuleDescriptor {
	return lint.RuleDescriptor{
		Name:        name,
		Description: name + " description",
		Severity:    core.SeverityWarning,
		Factory:     lint.Stateless(noop),
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := lint.NewRegistry()
	require.NoError(t, reg.Register(descriptor("b-rule")))
	require.NoError(t, reg.Register(descriptor("a-rule")))

	d, err := reg.Get("a-rule")
	require.NoError(t, err)
	assert.Equal(t, "a-rule", d.Name)
	assert.True(t, reg.Has("b-rule"))
	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"a-rule", "b-rule"}, reg.Names())

	var names []string
	for d := range reg.All() {
		names = append(names, d.Name)
	}
	assert.ElementsMatch(t, []string{"a-rule", "b-rule"}, names)
}

func TestRegistryDuplicate(t *testing.T) {
	reg := lint.NewRegistry()
	require.NoError(t, reg.Register(descriptor("x")))

	err := reg.Register(descriptor("x"))
	require.Error(t, err)
	var dup *lint.DuplicateRuleError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "x", dup.Name)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryNamesAreCaseSensitive(t *testing.T) {
	reg := lint.NewRegistry()
	require.NoError(t, reg.Register(descriptor("Rule")))
	require.NoError(t, reg.Register(descriptor("rule")))
	assert.Equal(t, 2, reg.Len())
}

func TestRegistryRegisterAllIsAtomic(t *testing.T) {
	reg := lint.NewRegistry()
	require.NoError(t, reg.Register(descriptor("taken")))

	err := reg.RegisterAll(descriptor("fresh"), descriptor("taken"))
	require.Error(t, err)
	assert.False(t, reg.Has("fresh"))

	err = reg.RegisterAll(descriptor("twice"), descriptor("twice"))
	var dup *lint.DuplicateRuleError
	require.True(t, errors.As(err, &dup))
	assert.False(t, reg.Has("twice"))
}

func TestRegistryRejectsInvalidDescriptors(t *testing.T) {
	reg := lint.NewRegistry()

	err := reg.Register(lint.RuleDescriptor{Name: " ", Factory: lint.Stateless(noop)})
	assert.ErrorIs(t, err, lint.ErrInvalidDescriptor)

	err = reg.Register(lint.RuleDescriptor{Name: "no-factory"})
	assert.ErrorIs(t, err, lint.ErrInvalidDescriptor)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistryUnknownRule(t *testing.T) {
	reg := lint.NewRegistry()

	_, err := reg.Get("missing")
	var unknown *lint.UnknownRuleError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "missing", unknown.Name)

	_, err = reg.Instantiate("missing", nil)
	require.True(t, errors.As(err, &unknown))
}

func TestRegistryLoadBuiltins(t *testing.T) {
	t.Run("only once", func(t *testing.T) {
		reg := lint.NewRegistry()
		require.NoError(t, reg.LoadBuiltins(descriptor("a")))
		assert.ErrorIs(t, reg.LoadBuiltins(descriptor("b")), lint.ErrBuiltinsLoaded)
		assert.False(t, reg.Has("b"))
	})

	t.Run("before other rules", func(t *testing.T) {
		reg := lint.NewRegistry()
		require.NoError(t, reg.Register(descriptor("plugin-rule")))
		assert.Error(t, reg.LoadBuiltins(descriptor("a")))
	})
}

func TestRegistryFreeze(t *testing.T) {
	reg := lint.NewRegistry()
	require.NoError(t, reg.Register(descriptor("a")))
	reg.Freeze()

	assert.True(t, reg.Frozen())
	assert.ErrorIs(t, reg.Register(descriptor("b")), lint.ErrRegistryFrozen)

	_, err := reg.Get("a")
	assert.NoError(t, err)
}

func TestRegistryInstantiate(t *testing.T) {
	reg := lint.NewRegistry()
	require.NoError(t, reg.Register(descriptor("plain")))

	rule, err := reg.Instantiate("plain", nil)
	require.NoError(t, err)
	issues, err := rule.Check(&parser.Script{})
	require.NoError(t, err)
	assert.Empty(t, issues)

	_, err = reg.Instantiate("plain", lint.Options{"unexpected": true})
	var invalid *lint.InvalidOptionsError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "plain", invalid.Rule)
	assert.Contains(t, err.Error(), "unexpected")
}

func TestIssueFinalize(t *testing.T) {
	pos := token.Position{Line: 3, Column: 7}

	iss := lint.NewIssue(pos, "found %d things", 2).Finalize("r", "a.sql", core.SeverityWarning)
	assert.Equal(t, "r", iss.Rule)
	assert.Equal(t, "a.sql", iss.File)
	assert.Equal(t, core.SeverityWarning, iss.Severity)
	assert.Equal(t, lint.KindFinding, iss.Kind)
	assert.Equal(t, "found 2 things", iss.Message)
	assert.Equal(t, "a.sql:3:7: [r] found 2 things", iss.String())

	explicit := lint.NewIssue(pos, "x").WithSeverity(core.SeverityError).Finalize("r", "a.sql", core.SeverityHint)
	assert.Equal(t, core.SeverityError, explicit.Severity)

	withCtx := lint.NewIssue(pos, "x").WithContext("table", "users")
	assert.Equal(t, "users", withCtx.Context["table"])
}

func TestPipelineIssues(t *testing.T) {
	perr := lint.ParseErrorIssue("a.sql", token.Position{Line: 1, Column: 2}, errors.New("boom"))
	assert.Equal(t, lint.KindParseError, perr.Kind)
	assert.Equal(t, lint.ParseErrorRule, perr.Rule)
	assert.Equal(t, core.SeverityError, perr.Severity)
	assert.False(t, perr.IsFinding())

	xerr := lint.ExecutionErrorIssue("r", "a.sql", errors.New("bad"))
	assert.Equal(t, lint.KindExecutionError, xerr.Kind)
	assert.Equal(t, "r", xerr.Rule)
	assert.Equal(t, "bad", xerr.Message)

	// Finalize keeps the pipeline-set severity and kind
	xerr = xerr.Finalize("r", "a.sql", core.SeverityHint)
	assert.Equal(t, core.SeverityError, xerr.Severity)
	assert.Equal(t, lint.KindExecutionError, xerr.Kind)
}
