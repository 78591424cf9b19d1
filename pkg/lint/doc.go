// Package lint provides the rule contract and the rule registry for squall.
//
// # Architecture
//
// The lint tree is split into four layers:
//
//  1. Root package (pkg/lint/): the Rule contract, Issue, RuleDescriptor and the Registry
//  2. Built-in rules (pkg/lint/rules/): the rules shipped with squall
//  3. Plugins (pkg/lint/plugin/): rules defined in Starlark files
//  4. Pipeline (pkg/lint/runner/): runs enabled rules over files and collects issues
//
// # Rule Registration
//
// A Registry is an owned value. It is populated once per process, builtins first,
// then plugins, and frozen before any file is linted:
//
//	reg := lint.NewRegistry()
//	if err := rules.LoadBuiltins(reg); err != nil {
//		return err
//	}
//	if err := plugin.NewLoader().Load(ctx, reg, sources); err != nil {
//		return err
//	}
//	reg.Freeze()
//
// # Creating Custom Rules
//
// A rule is produced by a Factory from its option bundle. Rules without options
// use Stateless:
//
//	var MyRule = lint.RuleDescriptor{
//		Name:        "my-custom-rule",
//		Group:       "custom",
//		Description: "My custom rule description",
//		Severity:    core.SeverityWarning,
//		Factory:     lint.Stateless(checkMyRule),
//	}
//
// Rules with options decode them with DecodeOptions, which rejects unknown keys.
package lint
