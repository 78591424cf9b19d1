package parser

import (
	"fmt"

	"github.com/leapstack-labs/squall/pkg/token"
)

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnterminatedString  = "unterminated string literal"
	ErrUnterminatedIdent   = "unterminated quoted identifier"
	ErrUnterminatedComment = "unterminated block comment"
	ErrUnterminatedDollar  = "unterminated dollar-quoted string"
	ErrUnexpectedToken     = "unexpected token %q"
	ErrUnbalancedParen     = "unexpected %q without matching %q"
	ErrUnclosedParen       = "unclosed %q"
)
