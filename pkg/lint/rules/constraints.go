package rules

import (
	"github.com/leapstack-labs/squall/pkg/parser"
	"github.com/leapstack-labs/squall/pkg/token"
)

type constraint struct {
	kind string
	pos  token.Position
}

// columnConstraints lists the constraints attached to a column definition,
// named as CHECK, DEFAULT, NULL, NOT NULL, FOREIGN, UNIQUE or PRIMARY.
func columnConstraints(stmt *parser.Statement, col columnDef) []constraint {
	var out []constraint
	depth := stmt.Depth(col.rest[0])
	for i := col.rest[0]; i < col.rest[1]; i++ {
		if stmt.Depth(i) != depth {
			continue
		}
		tok := stmt.At(i)
		switch {
		case tok.Is("NOT") && stmt.At(i+1).Is("NULL"):
			out = append(out, constraint{kind: "NOT NULL", pos: tok.Pos})
			i++
		case tok.Is("NULL") && !stmt.At(i-1).Is("DEFAULT"):
			out = append(out, constraint{kind: "NULL", pos: tok.Pos})
		case tok.Is("DEFAULT"):
			out = append(out, constraint{kind: "DEFAULT", pos: tok.Pos})
		case tok.Is("CHECK"):
			out = append(out, constraint{kind: "CHECK", pos: tok.Pos})
		case tok.Is("UNIQUE"):
			out = append(out, constraint{kind: "UNIQUE", pos: tok.Pos})
		case tok.Is("PRIMARY") && stmt.At(i+1).Is("KEY"):
			out = append(out, constraint{kind: "PRIMARY", pos: tok.Pos})
			i++
		case tok.Is("REFERENCES"):
			out = append(out, constraint{kind: "FOREIGN", pos: tok.Pos})
		}
	}
	return out
}
