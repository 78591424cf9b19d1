package plugin

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"slices"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/leapstack-labs/squall/pkg/core"
	"github.com/leapstack-labs/squall/pkg/lint"
	"github.com/leapstack-labs/squall/pkg/token"
)

// issueCtor tags structs created by the issue builtin.
var issueCtor = starlark.String("issue")

// ruleSpec is the decoded form of one rule(...) call.
type ruleSpec struct {
	name        string
	description string
	help        string
	group       string
	severity    core.Severity
	check       starlark.Callable
	schema      *optionsSchema
	configKeys  []string
}

// predeclared returns the builtins visible to a plugin file. Rules declared
// with rule(...) are appended to specs.
func predeclared(path string, specs *[]ruleSpec) starlark.StringDict {
	return starlark.StringDict{
		"rule":  starlark.NewBuiltin("rule", ruleBuiltin(path, specs)),
		"issue": starlark.NewBuiltin("issue", issueBuiltin),
	}
}

type builtinFunc = func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error)

func ruleBuiltin(path string, specs *[]ruleSpec) builtinFunc {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			name, description, help string
			group                   = "plugin"
			severity                = "warning"
			check                   starlark.Callable
			schema                  starlark.Value = starlark.None
		)
		if err := starlark.UnpackArgs(b.Name(), args, kwargs,
			"name", &name,
			"check", &check,
			"description?", &description,
			"help?", &help,
			"group?", &group,
			"severity?", &severity,
			"schema?", &schema,
		); err != nil {
			return nil, err
		}

		if name == "" {
			return nil, errors.New("rule: name must not be empty")
		}
		sev, ok := core.ParseSeverity(severity)
		if !ok {
			return nil, fmt.Errorf("rule %q: invalid severity %q", name, severity)
		}

		spec := ruleSpec{
			name:        name,
			description: description,
			help:        help,
			group:       group,
			severity:    sev,
			check:       check,
		}

		if schema != starlark.None {
			doc, err := toGo(schema)
			if err != nil {
				return nil, fmt.Errorf("rule %q: schema: %w", name, err)
			}
			spec.schema, err = newOptionsSchema(schemaURL(path, name), doc)
			if err != nil {
				return nil, fmt.Errorf("rule %q: %w", name, err)
			}
			spec.configKeys = schemaKeys(doc)
		}

		*specs = append(*specs, spec)
		return starlark.None, nil
	}
}

// schemaURL names the in-memory schema resource of a rule.
func schemaURL(path, name string) string {
	return "https://squall.local/plugins/" + url.PathEscape(filepath.Base(path)) + "/" + url.PathEscape(name) + ".json"
}

// schemaKeys lists the top-level properties of an object schema.
func schemaKeys(doc any) []string {
	m, ok := doc.(map[string]any)
	if !ok {
		return nil
	}
	props, ok := m["properties"].(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func issueBuiltin(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		message      string
		line, column int
		severity     string
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"message", &message,
		"line?", &line,
		"column?", &column,
		"severity?", &severity,
	); err != nil {
		return nil, err
	}
	if severity != "" {
		if _, ok := core.ParseSeverity(severity); !ok {
			return nil, fmt.Errorf("issue: invalid severity %q", severity)
		}
	}
	return starlarkstruct.FromStringDict(issueCtor, starlark.StringDict{
		"message":  starlark.String(message),
		"line":     starlark.MakeInt(line),
		"column":   starlark.MakeInt(column),
		"severity": starlark.String(severity),
	}), nil
}

// toIssue converts a value returned by a check function.
func toIssue(v starlark.Value) (lint.Issue, error) {
	s, ok := v.(*starlarkstruct.Struct)
	if !ok || s.Constructor() != issueCtor {
		return lint.Issue{}, fmt.Errorf("check must return issue values, got %s", v.Type())
	}

	var (
		message  string
		severity string
		pos      token.Position
	)
	for _, f := range []struct {
		name string
		dst  any
	}{
		{"message", &message},
		{"line", &pos.Line},
		{"column", &pos.Column},
		{"severity", &severity},
	} {
		attr, err := s.Attr(f.name)
		if err != nil {
			return lint.Issue{}, err
		}
		switch dst := f.dst.(type) {
		case *string:
			str, _ := starlark.AsString(attr)
			*dst = str
		case *int:
			if err := starlark.AsInt(attr, dst); err != nil {
				return lint.Issue{}, fmt.Errorf("issue %s: %w", f.name, err)
			}
		}
	}

	iss := lint.NewIssue(pos, "%s", message)
	if severity != "" {
		sev, _ := core.ParseSeverity(severity)
		iss = iss.WithSeverity(sev)
	}
	return iss, nil
}
