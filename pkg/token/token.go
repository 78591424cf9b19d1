// Package token defines the lexical tokens produced by the SQL lexer.
//
// Keywords are not distinguished from identifiers at the lexical level:
// PostgreSQL has hundreds of non-reserved keywords and rules match them by
// their upper-cased text instead.
package token

import "strings"

// Kind is the lexical class of a token.
type Kind int

// Token kinds.
const (
	EOF Kind = iota
	ILLEGAL

	IDENT        // unquoted identifier or keyword
	QUOTED_IDENT // "quoted identifier"
	NUMBER       // 123, 4.5, 1e10
	STRING       // 'text', E'text', $$text$$
	PARAM        // $1

	STAR      // *
	COMMA     // ,
	DOT       // .
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	SEMICOLON // ;
	OPERATOR  // any other operator sequence (=, <>, ::, ||, ...)
)

var kindNames = map[Kind]string{
	EOF:          "EOF",
	ILLEGAL:      "ILLEGAL",
	IDENT:        "IDENT",
	QUOTED_IDENT: "QUOTED_IDENT",
	NUMBER:       "NUMBER",
	STRING:       "STRING",
	PARAM:        "PARAM",
	STAR:         "*",
	COMMA:        ",",
	DOT:          ".",
	LPAREN:       "(",
	RPAREN:       ")",
	LBRACKET:     "[",
	RBRACKET:     "]",
	SEMICOLON:    ";",
	OPERATOR:     "OPERATOR",
}

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token is a single lexical token with its source position.
type Token struct {
	Kind    Kind
	Literal string
	Pos     Position
}

// Upper returns the upper-cased literal for identifiers, and the literal
// unchanged for every other kind.
func (t Token) Upper() string {
	if t.Kind == IDENT {
		return strings.ToUpper(t.Literal)
	}
	return t.Literal
}

// Is reports whether t is the unquoted keyword kw (case-insensitive).
func (t Token) Is(kw string) bool {
	return t.Kind == IDENT && strings.EqualFold(t.Literal, kw)
}

// IsAny reports whether t is any of the given unquoted keywords.
func (t Token) IsAny(kws ...string) bool {
	for _, kw := range kws {
		if t.Is(kw) {
			return true
		}
	}
	return false
}

// Name returns the identifier name the token refers to: lower-cased for
// unquoted identifiers (PostgreSQL folds them), verbatim for quoted ones.
func (t Token) Name() string {
	switch t.Kind {
	case IDENT:
		return strings.ToLower(t.Literal)
	case QUOTED_IDENT:
		return t.Literal
	default:
		return ""
	}
}

// IsIdentifier reports whether t can name an object.
func (t Token) IsIdentifier() bool {
	return t.Kind == IDENT || t.Kind == QUOTED_IDENT
}
