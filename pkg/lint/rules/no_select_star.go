package rules

import (
	"github.com/leapstack-labs/squall/pkg/core"
	"github.com/leapstack-labs/squall/pkg/lint"
	"github.com/leapstack-labs/squall/pkg/parser"
	"github.com/leapstack-labs/squall/pkg/token"
)

// NoSelectStar flags bare `*` in a select list.
var NoSelectStar = lint.RuleDescriptor{
	Name:        "no-select-star",
	Group:       "query",
	Description: "Prevent using `SELECT *` in queries.",
	Help: `Selecting every column couples the query to the table layout: adding,
removing or reordering columns silently changes its result.

Bad:  SELECT * FROM users;
Good: SELECT id, email FROM users;

Qualified stars (users.*) and count(*) are allowed.`,
	Severity: core.SeverityWarning,
	Factory:  lint.Stateless(checkNoSelectStar),
}

func checkNoSelectStar(script *parser.Script) ([]lint.Issue, error) {
	var issues []lint.Issue
	for _, stmt := range script.Statements {
		for i, tok := range stmt.Tokens {
			if tok.Kind != token.STAR {
				continue
			}
			prev := stmt.At(i - 1)
			if prev.IsAny("SELECT", "DISTINCT", "ALL") || (prev.Kind == token.COMMA && inSelectList(stmt, i)) {
				issues = append(issues, lint.NewIssue(tok.Pos, "use of `SELECT *` is discouraged"))
			}
		}
	}
	return issues, nil
}

// inSelectList reports whether the token at i sits between a SELECT and its
// FROM at the same bracket depth.
func inSelectList(stmt *parser.Statement, i int) bool {
	depth := stmt.Depth(i)
	for j := i - 1; j >= 0; j-- {
		if stmt.Depth(j) < depth {
			return false
		}
		if stmt.Depth(j) != depth {
			continue
		}
		tok := stmt.At(j)
		if tok.Is("SELECT") {
			return true
		}
		if tok.IsAny("FROM", "WHERE", "GROUP", "ORDER", "VALUES", "SET", "RETURNING") {
			return false
		}
	}
	return false
}
