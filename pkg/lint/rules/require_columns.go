package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/squall/pkg/core"
	"github.com/leapstack-labs/squall/pkg/lint"
	"github.com/leapstack-labs/squall/pkg/parser"
)

// RequireColumns requires every new table to define a set of columns.
var RequireColumns = lint.RuleDescriptor{
	Name:        "require-columns",
	Group:       "schema",
	Description: "Require that newly created tables have specified columns.",
	Help: `Enforces conventions such as audit columns on every table.

Options:
  required: list of "name" or "name,type" entries

Example (required: ["created_at,timestamptz"]):
  Bad:  CREATE TABLE t (id bigint PRIMARY KEY);
  Good: CREATE TABLE t (id bigint PRIMARY KEY, created_at timestamptz NOT NULL);`,
	Severity:   core.SeverityError,
	ConfigKeys: []string{"required"},
	Factory:    newRequireColumns,
}

type requireColumnsOptions struct {
	Required []string `mapstructure:"required"`
}

type requiredColumn struct {
	name string
	typ  string // normalized, empty when any type is accepted
}

type requireColumns struct {
	required []requiredColumn
}

func newRequireColumns(opts lint.Options) (lint.Rule, error) {
	var o requireColumnsOptions
	if err := lint.DecodeOptions(opts, &o); err != nil {
		return nil, err
	}
	if len(o.Required) == 0 {
		return nil, errors.New(`"required" must list at least one column`)
	}

	r := &requireColumns{}
	for _, entry := range o.Required {
		name, typ, _ := strings.Cut(entry, ",")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("invalid required column %q", entry)
		}
		r.required = append(r.required, requiredColumn{
			name: strings.ToLower(name),
			typ:  normalizeType(typ),
		})
	}
	return r, nil
}

func (r *requireColumns) Check(script *parser.Script) ([]lint.Issue, error) {
	var issues []lint.Issue
	for _, stmt := range script.Statements {
		ct, ok := parseCreateTable(stmt)
		if !ok || ct.lparen < 0 {
			continue
		}

		columns := make(map[string]columnDef)
		for _, g := range stmt.Groups(ct.lparen) {
			if col, ok := parseColumnDef(stmt, g); ok {
				columns[col.name] = col
			}
		}

		for _, req := range r.required {
			col, ok := columns[req.name]
			if !ok {
				issues = append(issues, lint.NewIssue(ct.nameTok.Pos, "table %q is missing required column %q", ct.name, req.name).
					WithContext("table", ct.name).
					WithContext("column", req.name))
				continue
			}
			if req.typ == "" {
				continue
			}
			if got := typeText(stmt, col.typ); got != req.typ {
				issues = append(issues, lint.NewIssue(col.nameTok.Pos, "column %q of table %q has type %s, expected %s", req.name, ct.name, got, req.typ).
					WithContext("table", ct.name).
					WithContext("column", req.name))
			}
		}
	}
	return issues, nil
}
