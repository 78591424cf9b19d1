package rules

import (
	"github.com/leapstack-labs/squall/pkg/core"
	"github.com/leapstack-labs/squall/pkg/lint"
	"github.com/leapstack-labs/squall/pkg/parser"
)

// RequireConcurrentIndex flags index creation that blocks writes.
var RequireConcurrentIndex = lint.RuleDescriptor{
	Name:        "require-concurrent-index",
	Group:       "migration",
	Description: "Require all new indexes to be created with `CONCURRENTLY`.",
	Help: `CREATE INDEX takes a lock that blocks writes to the table until the
index is built. CREATE INDEX CONCURRENTLY does not.

Bad:  CREATE INDEX users_email_idx ON users (email);
Good: CREATE INDEX CONCURRENTLY users_email_idx ON users (email);

Tables created earlier in the same file are exempt, since nothing else can
be using them yet.`,
	Severity: core.SeverityError,
	Factory:  lint.Stateless(checkRequireConcurrentIndex),
}

func checkRequireConcurrentIndex(script *parser.Script) ([]lint.Issue, error) {
	var (
		issues  []lint.Issue
		created []string
	)
	for _, stmt := range script.Statements {
		if ct, ok := parseCreateTable(stmt); ok {
			created = append(created, ct.name)
			continue
		}

		i, ok := stmt.Prefix([]string{"UNIQUE"}, "CREATE", "INDEX")
		if !ok || stmt.At(i).Is("CONCURRENTLY") {
			continue
		}

		on := stmt.Find(i, "ON")
		if on < 0 {
			continue
		}
		table, _ := stmt.QualifiedName(stmt.Skip(on+1, "ONLY"))
		if isCreated(created, table) {
			continue
		}

		index := "<unnamed>"
		j := i
		if stmt.Match(j, "IF", "NOT", "EXISTS") {
			j += 3
		}
		if j < on {
			if name, _ := stmt.QualifiedName(j); name != "" {
				index = name
			}
		}
		issues = append(issues, lint.NewIssue(stmt.Pos(), "index %q not created `CONCURRENTLY`", index).
			WithContext("table", table).
			WithContext("index", index))
	}
	return issues, nil
}

func isCreated(created []string, table string) bool {
	for _, c := range created {
		if sameTable(c, table) {
			return true
		}
	}
	return false
}
