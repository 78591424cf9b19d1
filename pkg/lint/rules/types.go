package rules

import (
	"github.com/leapstack-labs/squall/pkg/core"
	"github.com/leapstack-labs/squall/pkg/lint"
	"github.com/leapstack-labs/squall/pkg/parser"
	"github.com/leapstack-labs/squall/pkg/token"
)

// DisallowFloatTypes flags inexact floating point column types.
var DisallowFloatTypes = lint.RuleDescriptor{
	Name:        "disallow-float-types",
	Group:       "types",
	Description: "Prevent using floating point types.",
	Help: `REAL and DOUBLE PRECISION are inexact: values are stored as binary
approximations and arithmetic accumulates rounding error.

Bad:  CREATE TABLE prices (amount DOUBLE PRECISION);
Good: CREATE TABLE prices (amount NUMERIC(12, 2));`,
	Severity: core.SeverityWarning,
	Factory:  lint.Stateless(checkDisallowFloatTypes),
}

// DisallowPaddedCharType flags blank-padded CHAR(n) types.
var DisallowPaddedCharType = lint.RuleDescriptor{
	Name:        "disallow-padded-char-type",
	Group:       "types",
	Description: "Prevent using `CHAR(n)` data types.",
	Help: `CHAR(n) pads values with spaces to the declared length and is no faster
than VARCHAR or TEXT in PostgreSQL.

Bad:  CREATE TABLE t (code CHAR(3));
Good: CREATE TABLE t (code TEXT CHECK (length(code) = 3));`,
	Severity: core.SeverityWarning,
	Factory:  lint.Stateless(checkDisallowPaddedCharType),
}

// DisallowTimetzType flags TIME WITH TIME ZONE.
var DisallowTimetzType = lint.RuleDescriptor{
	Name:        "disallow-timetz-type",
	Group:       "types",
	Description: "Prevent using `TIME WITH TIME ZONE`.",
	Help: `A time of day with a time zone offset cannot account for daylight
saving transitions and has no useful semantics.

Bad:  CREATE TABLE t (opens_at TIMETZ);
Good: CREATE TABLE t (opens_at TIMESTAMPTZ);`,
	Severity: core.SeverityWarning,
	Factory:  lint.Stateless(checkDisallowTimetzType),
}

// typeMatch reports how many tokens starting at i form the disallowed type,
// or 0 when there is no match.
type typeMatch func(stmt *parser.Statement, i int) int

func checkTypes(script *parser.Script, match typeMatch, message string) []lint.Issue {
	var issues []lint.Issue
	for _, stmt := range script.Statements {
		for i := 0; i < stmt.Len(); i++ {
			// t.real or real.x are identifiers, not types
			if stmt.At(i-1).Kind == token.DOT || stmt.At(i+1).Kind == token.DOT {
				continue
			}
			n := match(stmt, i)
			if n == 0 {
				continue
			}
			issues = append(issues, lint.NewIssue(stmt.At(i).Pos, message, stmt.Words(i, i+n)))
			i += n - 1
		}
	}
	return issues
}

func checkDisallowFloatTypes(script *parser.Script) ([]lint.Issue, error) {
	return checkTypes(script, func(stmt *parser.Statement, i int) int {
		switch {
		case stmt.Match(i, "DOUBLE", "PRECISION"):
			return 2
		case stmt.At(i).IsAny("REAL", "FLOAT", "FLOAT4", "FLOAT8"):
			return 1
		}
		return 0
	}, "floating point type %s is inexact, prefer NUMERIC"), nil
}

func checkDisallowPaddedCharType(script *parser.Script) ([]lint.Issue, error) {
	return checkTypes(script, func(stmt *parser.Statement, i int) int {
		tok := stmt.At(i)
		if tok.Is("BPCHAR") {
			return 1
		}
		if tok.IsAny("CHAR", "CHARACTER") && !stmt.At(i+1).Is("VARYING") {
			return 1
		}
		return 0
	}, "padded %s type is discouraged, prefer TEXT or VARCHAR"), nil
}

func checkDisallowTimetzType(script *parser.Script) ([]lint.Issue, error) {
	return checkTypes(script, func(stmt *parser.Statement, i int) int {
		switch {
		case stmt.At(i).Is("TIMETZ"):
			return 1
		case stmt.Match(i, "TIME", "WITH", "TIME", "ZONE"):
			return 4
		}
		return 0
	}, "%s is discouraged, prefer TIMESTAMPTZ"), nil
}
