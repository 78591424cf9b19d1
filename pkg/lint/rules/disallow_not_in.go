package rules

import (
	"github.com/leapstack-labs/squall/pkg/core"
	"github.com/leapstack-labs/squall/pkg/lint"
	"github.com/leapstack-labs/squall/pkg/parser"
)

// DisallowNotIn flags NOT IN predicates.
var DisallowNotIn = lint.RuleDescriptor{
	Name:        "disallow-not-in",
	Group:       "query",
	Description: "Prevent `NOT IN` as part of queries.",
	Help: `x NOT IN (...) is NULL, not true, as soon as the list or subquery
yields a single NULL, so rows silently disappear. It also cannot be planned
as an anti-join.

Bad:  SELECT * FROM a WHERE id NOT IN (SELECT a_id FROM b);
Good: SELECT * FROM a WHERE NOT EXISTS (SELECT 1 FROM b WHERE b.a_id = a.id);`,
	Severity: core.SeverityWarning,
	Factory:  lint.Stateless(checkDisallowNotIn),
}

func checkDisallowNotIn(script *parser.Script) ([]lint.Issue, error) {
	var issues []lint.Issue
	for _, stmt := range script.Statements {
		for i := stmt.Find(0, "NOT", "IN"); i >= 0; i = stmt.Find(i+2, "NOT", "IN") {
			issues = append(issues, lint.NewIssue(stmt.At(i).Pos, "using `NOT IN` has nonintuitive behavior with NULL values, prefer `NOT EXISTS`"))
		}
	}
	return issues, nil
}
