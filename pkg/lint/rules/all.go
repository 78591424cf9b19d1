package rules

import "github.com/leapstack-labs/squall/pkg/lint"

// Source is the RuleDescriptor.Source of every built-in rule.
const Source = "builtin"

// Builtins returns the descriptors of every built-in rule.
func Builtins() []lint.RuleDescriptor {
	descs := []lint.RuleDescriptor{
		NoSelectStar,
		RequireConcurrentIndex,
		DisallowRenameEnumValue,
		DisallowFloatTypes,
		DisallowPaddedCharType,
		DisallowTimetzType,
		DisallowNotIn,
		DisallowChangeColumnType,
		AddColumnDisallowConstraints,
		RequirePrimaryKey,
		DisallowForeignKey,
		RequireColumns,
	}
	for i := range descs {
		descs[i].Source = Source
	}
	return descs
}

// LoadBuiltins registers every built-in rule with reg.
func LoadBuiltins(reg *lint.Registry) error {
	return reg.LoadBuiltins(Builtins()...)
}
