package rules

import (
	"github.com/leapstack-labs/squall/pkg/core"
	"github.com/leapstack-labs/squall/pkg/lint"
	"github.com/leapstack-labs/squall/pkg/parser"
)

// RequirePrimaryKey flags tables created without a primary key.
var RequirePrimaryKey = lint.RuleDescriptor{
	Name:        "require-primary-key",
	Group:       "schema",
	Description: "Require that all new tables specify a `PRIMARY KEY` constraint.",
	Help: `Tables without a primary key cannot be replicated logically and make
rows hard to address.

Bad:  CREATE TABLE users (email text);
Good: CREATE TABLE users (id bigint PRIMARY KEY, email text);`,
	Severity: core.SeverityError,
	Factory:  lint.Stateless(checkRequirePrimaryKey),
}

func checkRequirePrimaryKey(script *parser.Script) ([]lint.Issue, error) {
	var issues []lint.Issue
	for _, stmt := range script.Statements {
		ct, ok := parseCreateTable(stmt)
		if !ok || ct.lparen < 0 {
			continue
		}
		if stmt.Find(ct.lparen, "PRIMARY", "KEY") >= 0 {
			continue
		}
		issues = append(issues, lint.NewIssue(ct.nameTok.Pos, "table %q does not name a primary key", ct.name).
			WithContext("table", ct.name))
	}
	return issues, nil
}
