package rules

import (
	"github.com/leapstack-labs/squall/pkg/core"
	"github.com/leapstack-labs/squall/pkg/lint"
	"github.com/leapstack-labs/squall/pkg/parser"
)

// DisallowRenameEnumValue flags ALTER TYPE ... RENAME VALUE.
var DisallowRenameEnumValue = lint.RuleDescriptor{
	Name:        "disallow-rename-enum-value",
	Group:       "migration",
	Description: "Prevent renaming existing enum values.",
	Help: `Renaming an enum value breaks every client still sending the old value,
and cannot run inside a transaction on older PostgreSQL versions.

Bad:  ALTER TYPE mood RENAME VALUE 'sad' TO 'unhappy';
Good: ALTER TYPE mood ADD VALUE 'unhappy';`,
	Severity: core.SeverityError,
	Factory:  lint.Stateless(checkDisallowRenameEnumValue),
}

func checkDisallowRenameEnumValue(script *parser.Script) ([]lint.Issue, error) {
	var issues []lint.Issue
	for _, stmt := range script.Statements {
		i, ok := stmt.Prefix(nil, "ALTER", "TYPE")
		if !ok {
			continue
		}
		name, _ := stmt.QualifiedName(i)
		if at := stmt.Find(i, "RENAME", "VALUE"); at >= 0 {
			issues = append(issues, lint.NewIssue(stmt.At(at).Pos, "cannot rename existing enum value of %q", name).
				WithContext("type", name))
		}
	}
	return issues, nil
}
