package rules

import (
	"github.com/leapstack-labs/squall/pkg/core"
	"github.com/leapstack-labs/squall/pkg/lint"
	"github.com/leapstack-labs/squall/pkg/parser"
)

// DisallowForeignKey flags foreign keys outside an allow list of tables.
var DisallowForeignKey = lint.RuleDescriptor{
	Name:        "disallow-foreign-key",
	Group:       "schema",
	Description: "Prevent creation of new foreign keys (with optional exceptions).",
	Help: `Foreign keys take locks on both tables and couple their write paths.

Options:
  excluded: list of table names allowed to declare foreign keys

Bad:  CREATE TABLE orders (user_id bigint REFERENCES users (id));`,
	Severity:   core.SeverityError,
	ConfigKeys: []string{"excluded"},
	Factory:    newDisallowForeignKey,
}

type foreignKeyOptions struct {
	Excluded []string `mapstructure:"excluded"`
}

type disallowForeignKey struct {
	excluded []string
}

func newDisallowForeignKey(opts lint.Options) (lint.Rule, error) {
	var o foreignKeyOptions
	if err := lint.DecodeOptions(opts, &o); err != nil {
		return nil, err
	}
	return &disallowForeignKey{excluded: o.Excluded}, nil
}

func (r *disallowForeignKey) isExcluded(table string) bool {
	for _, e := range r.excluded {
		if sameTable(e, table) {
			return true
		}
	}
	return false
}

func (r *disallowForeignKey) Check(script *parser.Script) ([]lint.Issue, error) {
	var issues []lint.Issue
	for _, stmt := range script.Statements {
		var (
			table string
			from  int
		)
		if ct, ok := parseCreateTable(stmt); ok {
			table, from = ct.name, ct.lparen
		} else if at, ok := parseAlterTable(stmt); ok && len(at.actions) > 0 {
			table, from = at.name, at.actions[0][0]
		} else {
			continue
		}
		if from < 0 || r.isExcluded(table) {
			continue
		}
		for i := stmt.Find(from, "REFERENCES"); i >= 0; i = stmt.Find(i+1, "REFERENCES") {
			issues = append(issues, lint.NewIssue(stmt.At(i).Pos, "new foreign key on table %q is not allowed", table).
				WithContext("table", table))
		}
	}
	return issues, nil
}
