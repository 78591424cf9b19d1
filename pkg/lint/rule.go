package lint

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/squall/pkg/core"
	"github.com/leapstack-labs/squall/pkg/parser"
)

// Rule is the capability every lint rule implements.
type Rule interface {
	// Check analyzes a parsed script and returns its findings.
	Check(script *parser.Script) ([]Issue, error)
}

// ContextRule is implemented by rules that can be cancelled, such as
// interpreted plugin rules.
type ContextRule interface {
	Rule
	CheckContext(ctx context.Context, script *parser.Script) ([]Issue, error)
}

// CheckFunc adapts a function to the Rule interface.
type CheckFunc func(script *parser.Script) ([]Issue, error)

// Check calls f(script).
func (f CheckFunc) Check(script *parser.Script) ([]Issue, error) {
	return f(script)
}

// Factory builds a configured rule from its option bundle.
type Factory func(opts Options) (Rule, error)

// RuleDescriptor describes a registered rule. It is immutable once registered.
type RuleDescriptor struct {
	Name        string        // Unique, case-sensitive name, e.g. "no-select-star"
	Description string        // One-line summary
	Help        string        // Longer help text shown by --show-rule
	Group       string        // Category, e.g. "migration", "query", "plugin"
	Severity    core.Severity // Default severity of findings
	ConfigKeys  []string      // Option keys the rule accepts
	Source      string        // "builtin" or the plugin file that defined it
	Factory     Factory
}

func (d RuleDescriptor) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidDescriptor)
	}
	if d.Factory == nil {
		return fmt.Errorf("%w: rule %q has no factory", ErrInvalidDescriptor, d.Name)
	}
	return nil
}

// Stateless returns a factory for a rule that takes no options. Any non-empty
// option bundle is rejected.
func Stateless(check CheckFunc) Factory {
	return func(opts Options) (Rule, error) {
		if len(opts) > 0 {
			keys := opts.Keys()
			return nil, fmt.Errorf("rule takes no options, got %s", strings.Join(keys, ", "))
		}
		return check, nil
	}
}

// RuleInfo is the serializable view of a descriptor used by listings.
type RuleInfo struct {
	Name        string        `json:"name" yaml:"name"`
	Group       string        `json:"group,omitempty" yaml:"group,omitempty"`
	Description string        `json:"description" yaml:"description"`
	Help        string        `json:"help,omitempty" yaml:"help,omitempty"`
	Severity    core.Severity `json:"severity" yaml:"severity"`
	ConfigKeys  []string      `json:"config_keys,omitempty" yaml:"config_keys,omitempty"`
	Source      string        `json:"source,omitempty" yaml:"source,omitempty"`
}

// Info extracts the descriptor metadata.
func (d RuleDescriptor) Info() RuleInfo {
	return RuleInfo{
		Name:        d.Name,
		Group:       d.Group,
		Description: d.Description,
		Help:        d.Help,
		Severity:    d.Severity,
		ConfigKeys:  slices.Clone(d.ConfigKeys),
		Source:      d.Source,
	}
}
