package rules

import (
	"strings"

	"github.com/leapstack-labs/squall/pkg/parser"
	"github.com/leapstack-labs/squall/pkg/token"
)

// tableModifiers may appear between CREATE and TABLE.
var tableModifiers = []string{"GLOBAL", "LOCAL", "TEMP", "TEMPORARY", "UNLOGGED"}

// tableConstraintStarts begin a table constraint rather than a column
// definition inside CREATE TABLE (...) or after ALTER TABLE ... ADD.
var tableConstraintStarts = []string{"CONSTRAINT", "PRIMARY", "UNIQUE", "CHECK", "FOREIGN", "EXCLUDE", "LIKE"}

// columnConstraintStarts end the type of a column definition.
var columnConstraintStarts = []string{
	"CONSTRAINT", "NOT", "NULL", "DEFAULT", "PRIMARY", "UNIQUE", "CHECK",
	"REFERENCES", "GENERATED", "COLLATE", "DEFERRABLE", "INITIALLY",
}

// createTable describes a CREATE TABLE statement.
type createTable struct {
	name    string
	nameTok token.Token
	lparen  int // index of the definition list, or -1 (CREATE TABLE AS, PARTITION OF)
}

func parseCreateTable(stmt *parser.Statement) (createTable, bool) {
	i, ok := stmt.Prefix(tableModifiers, "CREATE", "TABLE")
	if !ok {
		return createTable{}, false
	}
	if stmt.Match(i, "IF", "NOT", "EXISTS") {
		i += 3
	}
	nameTok := stmt.At(i)
	name, next := stmt.QualifiedName(i)
	if name == "" {
		return createTable{}, false
	}
	ct := createTable{name: name, nameTok: nameTok, lparen: -1}
	if stmt.At(next).Kind == token.LPAREN {
		ct.lparen = next
	}
	return ct, true
}

// alterTable describes an ALTER TABLE statement.
type alterTable struct {
	name    string
	nameTok token.Token
	actions [][2]int // top-level comma-separated action ranges
}

func parseAlterTable(stmt *parser.Statement) (alterTable, bool) {
	i, ok := stmt.Prefix(nil, "ALTER", "TABLE")
	if !ok {
		return alterTable{}, false
	}
	if stmt.Match(i, "IF", "EXISTS") {
		i += 2
	}
	i = stmt.Skip(i, "ONLY")
	nameTok := stmt.At(i)
	name, next := stmt.QualifiedName(i)
	if name == "" {
		return alterTable{}, false
	}
	if stmt.At(next).Kind == token.STAR {
		next++
	}
	return alterTable{name: name, nameTok: nameTok, actions: splitTopLevel(stmt, next)}, true
}

// splitTopLevel splits the tokens from start to the end of the statement
// on depth-0 commas.
func splitTopLevel(stmt *parser.Statement, start int) [][2]int {
	var out [][2]int
	from := start
	for i := start; i < stmt.Len(); i++ {
		if stmt.At(i).Kind == token.COMMA && stmt.Depth(i) == 0 {
			if i > from {
				out = append(out, [2]int{from, i})
			}
			from = i + 1
		}
	}
	if stmt.Len() > from {
		out = append(out, [2]int{from, stmt.Len()})
	}
	return out
}

// columnDef is a column definition inside CREATE TABLE or ALTER TABLE ADD.
type columnDef struct {
	name    string
	nameTok token.Token
	typ     [2]int // token range of the data type
	rest    [2]int // token range of the column constraints
}

// parseColumnDef reads a column definition from the token range r. It
// reports false when the range holds a table constraint instead.
func parseColumnDef(stmt *parser.Statement, r [2]int) (columnDef, bool) {
	i := r[0]
	first := stmt.At(i)
	if !first.IsIdentifier() || first.IsAny(tableConstraintStarts...) {
		return columnDef{}, false
	}
	col := columnDef{name: first.Name(), nameTok: first}
	depth := stmt.Depth(i)
	j := i + 1
	for j < r[1] {
		if stmt.Depth(j) == depth && stmt.At(j).IsAny(columnConstraintStarts...) {
			break
		}
		j++
	}
	col.typ = [2]int{i + 1, j}
	col.rest = [2]int{j, r[1]}
	return col, true
}

// typeText renders a data type range as a compact upper-case string, e.g.
// "NUMERIC(10,2)", for comparisons.
func typeText(stmt *parser.Statement, r [2]int) string {
	return normalizeType(stmt.Words(r[0], r[1]))
}

func normalizeType(s string) string {
	fields := strings.Fields(strings.ToUpper(s))
	var b strings.Builder
	for i, f := range fields {
		// keep a single space between words, none around punctuation
		if i > 0 && isWord(fields[i-1]) && isWord(f) {
			b.WriteByte(' ')
		}
		b.WriteString(f)
	}
	return b.String()
}

func isWord(s string) bool {
	c := s[len(s)-1]
	return c != '(' && c != ')' && c != ',' && c != '[' && c != ']' && s[0] != '(' && s[0] != ')' && s[0] != ','
}

// sameTable compares two possibly schema-qualified table names, treating an
// unqualified name as matching any schema.
func sameTable(a, b string) bool {
	if a == b {
		return true
	}
	if strings.Contains(a, ".") && strings.Contains(b, ".") {
		return false
	}
	return lastPart(a) == lastPart(b)
}

func lastPart(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
