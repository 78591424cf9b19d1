package rules

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/squall/pkg/core"
	"github.com/leapstack-labs/squall/pkg/lint"
	"github.com/leapstack-labs/squall/pkg/parser"
)

// AddColumnDisallowConstraints flags constraints on newly added columns.
var AddColumnDisallowConstraints = lint.RuleDescriptor{
	Name:        "add-column-disallow-constraints",
	Group:       "migration",
	Description: "Disallow adding columns with certain constraints.",
	Help: `Some column constraints force PostgreSQL to rewrite or scan the whole
table while holding an exclusive lock when the column is added.

Options:
  disallowed: list of CHECK, DEFAULT, NULL, NOT NULL, FOREIGN, UNIQUE, PRIMARY

Bad (disallowed: [DEFAULT]):  ALTER TABLE t ADD COLUMN c int DEFAULT 0;
Good:                         ALTER TABLE t ADD COLUMN c int;`,
	Severity:   core.SeverityError,
	ConfigKeys: []string{"disallowed"},
	Factory:    newAddColumnDisallowConstraints,
}

var knownColumnConstraints = []string{"CHECK", "DEFAULT", "NULL", "NOT NULL", "FOREIGN", "UNIQUE", "PRIMARY"}

type addColumnOptions struct {
	Disallowed []string `mapstructure:"disallowed"`
}

type addColumnDisallowConstraints struct {
	disallowed map[string]bool
}

func newAddColumnDisallowConstraints(opts lint.Options) (lint.Rule, error) {
	var o addColumnOptions
	if err := lint.DecodeOptions(opts, &o); err != nil {
		return nil, err
	}
	if len(o.Disallowed) == 0 {
		return nil, errors.New(`"disallowed" must list at least one constraint`)
	}

	r := &addColumnDisallowConstraints{disallowed: make(map[string]bool)}
	for _, c := range o.Disallowed {
		c = strings.Join(strings.Fields(strings.ToUpper(c)), " ")
		if !slices.Contains(knownColumnConstraints, c) {
			return nil, fmt.Errorf("unknown constraint %q, expected one of %s", c, strings.Join(knownColumnConstraints, ", "))
		}
		r.disallowed[c] = true
	}
	return r, nil
}

func (r *addColumnDisallowConstraints) Check(script *parser.Script) ([]lint.Issue, error) {
	var issues []lint.Issue
	for _, stmt := range script.Statements {
		at, ok := parseAlterTable(stmt)
		if !ok {
			continue
		}
		for _, action := range at.actions {
			i := action[0]
			if !stmt.At(i).Is("ADD") {
				continue
			}
			i = stmt.Skip(i+1, "COLUMN")
			if stmt.Match(i, "IF", "NOT", "EXISTS") {
				i += 3
			}
			col, ok := parseColumnDef(stmt, [2]int{i, action[1]})
			if !ok {
				continue
			}
			for _, c := range columnConstraints(stmt, col) {
				if r.disallowed[c.kind] {
					issues = append(issues, lint.NewIssue(c.pos, "column %q has a disallowed constraint: %s", col.name, c.kind).
						WithContext("table", at.name).
						WithContext("column", col.name).
						WithContext("constraint", c.kind))
				}
			}
		}
	}
	return issues, nil
}
