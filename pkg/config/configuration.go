package config

import (
	"slices"

	"github.com/leapstack-labs/squall/pkg/lint"
)

// RuleOptions is the option bundle of one enabled rule.
type RuleOptions = lint.Options

// PresetMeta records which preset a configuration was built from.
type PresetMeta struct {
	Name        string
	Description string
}

// Configuration is the resolved set of enabled rules and run settings.
// It is read-only once resolved.
type Configuration struct {
	Rules    map[string]RuleOptions // enabled rules and their options
	Reporter string
	Plugins  []string
	Preset   PresetMeta
	Source   string // configuration file the base was read from, if any
}

// Layer is one overlay in the resolution order.
type Layer struct {
	Name       string                 // for diagnostics, e.g. "preset:postgres"
	Rules      map[string]RuleOptions // rules to enable, with option overrides
	Disable    []string               // rules to disable
	DisableAll bool                   // disable every rule, including ones enabled by this layer
	Reporter   string
	Plugins    []string
}

// Defaults returns the built-in base configuration: no rules enabled.
func Defaults() *Configuration {
	return &Configuration{Rules: make(map[string]RuleOptions)}
}

// Clone returns a deep copy of c.
func (c *Configuration) Clone() *Configuration {
	out := &Configuration{
		Rules:    make(map[string]RuleOptions, len(c.Rules)),
		Reporter: c.Reporter,
		Plugins:  slices.Clone(c.Plugins),
		Preset:   c.Preset,
		Source:   c.Source,
	}
	for name, opts := range c.Rules {
		out.Rules[name] = cloneOptions(opts)
	}
	return out
}

// Merge returns a new configuration with l applied over c. Within the
// layer, enables are applied before disables.
func (c *Configuration) Merge(l Layer) *Configuration {
	out := c.Clone()

	for name, opts := range l.Rules {
		merged := out.Rules[name]
		if merged == nil {
			merged = make(RuleOptions, len(opts))
		}
		for k, v := range opts.Clone() {
			merged[k] = v
		}
		out.Rules[name] = merged
	}

	if l.DisableAll {
		out.Rules = make(map[string]RuleOptions)
	}
	for _, name := range l.Disable {
		delete(out.Rules, name)
	}

	if l.Reporter != "" {
		out.Reporter = l.Reporter
	}
	for _, p := range l.Plugins {
		if !slices.Contains(out.Plugins, p) {
			out.Plugins = append(out.Plugins, p)
		}
	}
	return out
}

// Enabled returns the names of enabled rules in evaluation order (sorted).
func (c *Configuration) Enabled() []string {
	names := make([]string, 0, len(c.Rules))
	for name := range c.Rules {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsEnabled reports whether the rule is enabled.
func (c *Configuration) IsEnabled(name string) bool {
	_, ok := c.Rules[name]
	return ok
}

// Options returns a copy of the options of an enabled rule.
func (c *Configuration) Options(name string) RuleOptions {
	return cloneOptions(c.Rules[name])
}

func cloneOptions(o RuleOptions) RuleOptions {
	if o == nil {
		return make(RuleOptions)
	}
	return o.Clone()
}
