package rules

import (
	"github.com/leapstack-labs/squall/pkg/core"
	"github.com/leapstack-labs/squall/pkg/lint"
	"github.com/leapstack-labs/squall/pkg/parser"
)

// DisallowChangeColumnType flags ALTER COLUMN ... TYPE.
var DisallowChangeColumnType = lint.RuleDescriptor{
	Name:        "disallow-change-column-type",
	Group:       "migration",
	Description: "Prevent changing the type of an existing column.",
	Help: `Changing a column type usually rewrites the whole table under an
ACCESS EXCLUSIVE lock, and breaks clients that expect the old type.

Bad:  ALTER TABLE users ALTER COLUMN id TYPE bigint;
Good: add a new column, backfill it, and switch readers over.`,
	Severity: core.SeverityError,
	Factory:  lint.Stateless(checkDisallowChangeColumnType),
}

func checkDisallowChangeColumnType(script *parser.Script) ([]lint.Issue, error) {
	var issues []lint.Issue
	for _, stmt := range script.Statements {
		at, ok := parseAlterTable(stmt)
		if !ok {
			continue
		}
		for _, r := range at.actions {
			i := r[0]
			if !stmt.At(i).Is("ALTER") {
				continue
			}
			i = stmt.Skip(i+1, "COLUMN")
			col := stmt.At(i)
			if !col.IsIdentifier() {
				continue
			}
			i++
			if stmt.Match(i, "SET", "DATA", "TYPE") {
				i += 2
			}
			if !stmt.At(i).Is("TYPE") {
				continue
			}
			issues = append(issues, lint.NewIssue(col.Pos, "cannot change type of existing column %q", col.Name()).
				WithContext("table", at.name).
				WithContext("column", col.Name()))
		}
	}
	return issues, nil
}
