package parser

import (
	"strings"

	"github.com/leapstack-labs/squall/pkg/token"
)

// Statement is one semicolon-terminated SQL statement.
type Statement struct {
	Index  int           // 0-based position within the script
	Tokens []token.Token // never includes the terminating semicolon
	depth  []int         // bracket depth of each token
}

func newStatement(index int, toks []token.Token) *Statement {
	s := &Statement{Index: index, Tokens: toks, depth: make([]int, len(toks))}
	d := 0
	for i, t := range toks {
		if t.Kind == token.RPAREN || t.Kind == token.RBRACKET {
			d--
		}
		s.depth[i] = d
		if t.Kind == token.LPAREN || t.Kind == token.LBRACKET {
			d++
		}
	}
	return s
}

// Pos returns the position of the first token.
func (s *Statement) Pos() token.Position {
	if len(s.Tokens) == 0 {
		return token.Position{}
	}
	return s.Tokens[0].Pos
}

// Len returns the number of tokens.
func (s *Statement) Len() int {
	return len(s.Tokens)
}

// At returns the token at i, or an EOF token when out of range.
func (s *Statement) At(i int) token.Token {
	if i < 0 || i >= len(s.Tokens) {
		return token.Token{Kind: token.EOF}
	}
	return s.Tokens[i]
}

// Depth returns the bracket nesting depth of token i.
func (s *Statement) Depth(i int) int {
	if i < 0 || i >= len(s.depth) {
		return 0
	}
	return s.depth[i]
}

// Keyword returns the upper-cased first word of the statement.
func (s *Statement) Keyword() string {
	return s.At(0).Upper()
}

// Match reports whether the keyword sequence words appears starting at i.
func (s *Statement) Match(i int, words ...string) bool {
	for j, w := range words {
		if !s.At(i + j).Is(w) {
			return false
		}
	}
	return len(words) > 0
}

// Find returns the index of the first occurrence of the keyword sequence at
// or after from, or -1.
func (s *Statement) Find(from int, words ...string) int {
	for i := max(from, 0); i < len(s.Tokens); i++ {
		if s.Match(i, words...) {
			return i
		}
	}
	return -1
}

// Skip advances past any of the optional keywords starting at i and returns
// the first index that is not one of them.
func (s *Statement) Skip(i int, optional ...string) int {
	for s.At(i).IsAny(optional...) {
		i++
	}
	return i
}

// Prefix reports whether the statement starts with words, allowing any of
// the optional keywords to appear between them. It returns the index just
// past the last matched word.
//
//	s.Prefix([]string{"UNIQUE"}, "CREATE", "INDEX")
func (s *Statement) Prefix(optional []string, words ...string) (int, bool) {
	i := 0
	for _, w := range words {
		i = s.Skip(i, optional...)
		if !s.At(i).Is(w) {
			return 0, false
		}
		i++
	}
	return i, true
}

// QualifiedName reads a possibly schema-qualified identifier starting at i.
// It returns the dotted, case-folded name and the index after it, or "" when
// no identifier starts at i.
func (s *Statement) QualifiedName(i int) (string, int) {
	if !s.At(i).IsIdentifier() {
		return "", i
	}
	parts := []string{s.At(i).Name()}
	i++
	for s.At(i).Kind == token.DOT && s.At(i+1).IsIdentifier() {
		parts = append(parts, s.At(i+1).Name())
		i += 2
	}
	return strings.Join(parts, "."), i
}

// Words renders the tokens between from and to (exclusive) as a single
// space-separated upper-cased string, for messages and type comparisons.
func (s *Statement) Words(from, to int) string {
	to = min(to, len(s.Tokens))
	parts := make([]string, 0, max(to-from, 0))
	for i := max(from, 0); i < to; i++ {
		parts = append(parts, s.Tokens[i].Upper())
	}
	return strings.Join(parts, " ")
}

// Groups splits the tokens inside the bracket pair opening at lparen into
// top-level comma-separated ranges [start, end). It returns nil when lparen
// does not open a bracket.
func (s *Statement) Groups(lparen int) [][2]int {
	if s.At(lparen).Kind != token.LPAREN {
		return nil
	}
	inner := s.Depth(lparen) + 1
	var groups [][2]int
	start := lparen + 1
	for i := lparen + 1; i < len(s.Tokens); i++ {
		t := s.Tokens[i]
		if t.Kind == token.RPAREN && s.Depth(i) == inner-1 {
			if i > start {
				groups = append(groups, [2]int{start, i})
			}
			return groups
		}
		if t.Kind == token.COMMA && s.Depth(i) == inner {
			groups = append(groups, [2]int{start, i})
			start = i + 1
		}
	}
	return groups
}
