// Package parser turns PostgreSQL source text into a Script: the comment
// list plus a sequence of statements, each a balanced token stream.
//
// The parser does not build a full syntax tree. Rules match keyword
// sequences over statement tokens, which is robust across the large and
// version-dependent PostgreSQL DDL grammar.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/squall/pkg/token"
)

// Script is the parsed representation of one SQL file.
type Script struct {
	Path       string
	Source     string
	Statements []*Statement
	Comments   []token.Comment
}

// Parse tokenizes src and splits it into statements on top-level semicolons.
// It fails with a *ParseError on lexical errors, stray tokens or unbalanced
// brackets.
func Parse(path string, src []byte) (*Script, error) {
	text := string(src)
	l := NewLexer(text)

	script := &Script{Path: path, Source: text}

	var (
		current []token.Token
		stack   []token.Token
	)
	flush := func() {
		if len(current) > 0 {
			script.Statements = append(script.Statements, newStatement(len(script.Statements), current))
			current = nil
		}
	}

	for {
		tok := l.NextToken()
		if tok.Kind == token.EOF {
			break
		}

		switch tok.Kind {
		case token.ILLEGAL:
			return nil, &ParseError{Pos: tok.Pos, Message: fmt.Sprintf(ErrUnexpectedToken, tok.Literal)}
		case token.LPAREN, token.LBRACKET:
			stack = append(stack, tok)
		case token.RPAREN, token.RBRACKET:
			open := token.LPAREN
			if tok.Kind == token.RBRACKET {
				open = token.LBRACKET
			}
			if len(stack) == 0 || stack[len(stack)-1].Kind != open {
				return nil, &ParseError{Pos: tok.Pos, Message: fmt.Sprintf(ErrUnbalancedParen, tok.Literal, open.String())}
			}
			stack = stack[:len(stack)-1]
		case token.SEMICOLON:
			if len(stack) == 0 {
				flush()
				continue
			}
		}
		current = append(current, tok)
	}

	if err := l.Err(); err != nil {
		return nil, err
	}
	if len(stack) > 0 {
		open := stack[len(stack)-1]
		return nil, &ParseError{Pos: open.Pos, Message: fmt.Sprintf(ErrUnclosedParen, open.Literal)}
	}
	flush()

	script.Comments = l.Comments
	return script, nil
}
