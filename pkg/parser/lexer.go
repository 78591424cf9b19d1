package parser

import (
	"strings"

	"github.com/leapstack-labs/squall/pkg/token"
)

// Lexer tokenizes PostgreSQL input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	// Comments collected during lexing
	Comments []token.Comment

	err *ParseError
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// Err returns the first lexical error encountered, if any.
func (l *Lexer) Err() *ParseError {
	return l.err
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.col++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

func (l *Lexer) fail(pos token.Position, msg string) {
	if l.err == nil {
		l.err = &ParseError{Pos: pos, Message: msg}
	}
}

// NextToken returns the next token. After a lexical error it returns EOF.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()
	if l.err != nil || l.atEOF() {
		return token.Token{Kind: token.EOF, Pos: pos}
	}

	switch {
	case l.ch == '\'':
		lit, ok := l.readQuoted('\'')
		if !ok {
			l.fail(pos, ErrUnterminatedString)
		}
		return token.Token{Kind: token.STRING, Literal: lit, Pos: pos}
	case (l.ch == 'E' || l.ch == 'e') && l.peekChar() == '\'':
		l.readChar()
		lit, ok := l.readEscapedString()
		if !ok {
			l.fail(pos, ErrUnterminatedString)
		}
		return token.Token{Kind: token.STRING, Literal: lit, Pos: pos}
	case l.ch == '"':
		lit, ok := l.readQuoted('"')
		if !ok {
			l.fail(pos, ErrUnterminatedIdent)
		}
		return token.Token{Kind: token.QUOTED_IDENT, Literal: lit, Pos: pos}
	case l.ch == '$':
		return l.readDollar(pos)
	case isLetter(l.ch) || l.ch == '_':
		return token.Token{Kind: token.IDENT, Literal: l.readIdentifier(), Pos: pos}
	case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
		return token.Token{Kind: token.NUMBER, Literal: l.readNumber(), Pos: pos}
	}

	var kind token.Kind
	switch l.ch {
	case '*':
		kind = token.STAR
	case ',':
		kind = token.COMMA
	case '.':
		kind = token.DOT
	case '(':
		kind = token.LPAREN
	case ')':
		kind = token.RPAREN
	case '[':
		kind = token.LBRACKET
	case ']':
		kind = token.RBRACKET
	case ';':
		kind = token.SEMICOLON
	default:
		if isOperatorChar(l.ch) {
			return token.Token{Kind: token.OPERATOR, Literal: l.readOperator(), Pos: pos}
		}
		lit := string(l.ch)
		l.readChar()
		return token.Token{Kind: token.ILLEGAL, Literal: lit, Pos: pos}
	}

	lit := string(l.ch)
	l.readChar()
	return token.Token{Kind: kind, Literal: lit, Pos: pos}
}

// skipWhitespaceAndComments skips whitespace and collects comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f' {
			l.readChar()
		}

		if l.ch == '-' && l.peekChar() == '-' {
			l.collectLineComment()
			continue
		}

		if l.ch == '/' && l.peekChar() == '*' {
			l.collectBlockComment()
			continue
		}

		break
	}
}

// collectLineComment collects a line comment.
func (l *Lexer) collectLineComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	for l.ch != '\n' && !l.atEOF() {
		l.readChar()
	}

	l.Comments = append(l.Comments, token.Comment{
		Kind: token.LineComment,
		Text: strings.TrimRight(l.input[startOffset:l.pos], "\r"),
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// collectBlockComment collects a block comment. PostgreSQL block comments nest.
func (l *Lexer) collectBlockComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	l.readChar() // skip '/'
	l.readChar() // skip '*'

	depth := 1
	for depth > 0 {
		if l.atEOF() {
			l.fail(startPos, ErrUnterminatedComment)
			return
		}
		switch {
		case l.ch == '*' && l.peekChar() == '/':
			depth--
			l.readChar()
		case l.ch == '/' && l.peekChar() == '*':
			depth++
			l.readChar()
		}
		l.readChar()
	}

	l.Comments = append(l.Comments, token.Comment{
		Kind: token.BlockComment,
		Text: l.input[startOffset:l.pos],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// readQuoted reads a string or identifier delimited by quote, where a
// doubled quote is an escaped quote. Reports false if input ends first.
func (l *Lexer) readQuoted(quote byte) (string, bool) {
	l.readChar() // skip opening quote

	var result strings.Builder
	for !l.atEOF() {
		if l.ch == quote {
			if l.peekChar() == quote {
				result.WriteByte(quote)
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			return result.String(), true
		}
		result.WriteByte(l.ch)
		l.readChar()
	}
	return result.String(), false
}

// readEscapedString reads the body of an E'...' string. A backslash escapes
// the following byte; escape sequences are kept as written.
func (l *Lexer) readEscapedString() (string, bool) {
	l.readChar() // skip opening quote

	var result strings.Builder
	for !l.atEOF() {
		switch {
		case l.ch == '\\':
			result.WriteByte(l.ch)
			l.readChar()
			if l.atEOF() {
				return result.String(), false
			}
		case l.ch == '\'' && l.peekChar() == '\'':
			l.readChar()
		case l.ch == '\'':
			l.readChar() // skip closing quote
			return result.String(), true
		}
		result.WriteByte(l.ch)
		l.readChar()
	}
	return result.String(), false
}

// readDollar reads a positional parameter ($1) or a dollar-quoted string
// ($$...$$ or $tag$...$tag$).
func (l *Lexer) readDollar(pos token.Position) token.Token {
	if isDigit(l.peekChar()) {
		start := l.pos
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
		return token.Token{Kind: token.PARAM, Literal: l.input[start:l.pos], Pos: pos}
	}

	start := l.pos
	l.readChar() // skip '$'
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	if l.ch != '$' {
		lit := l.input[start:l.pos]
		return token.Token{Kind: token.ILLEGAL, Literal: lit, Pos: pos}
	}
	l.readChar() // skip closing '$' of the tag
	tag := l.input[start:l.pos]

	end := strings.Index(l.input[l.pos:], tag)
	if end < 0 {
		l.fail(pos, ErrUnterminatedDollar)
		for !l.atEOF() {
			l.readChar()
		}
		return token.Token{Kind: token.STRING, Literal: l.input[start:], Pos: pos}
	}

	body := l.input[l.pos : l.pos+end]
	for i := 0; i < end+len(tag); i++ {
		l.readChar()
	}
	return token.Token{Kind: token.STRING, Literal: body, Pos: pos}
}

// readIdentifier reads an unquoted identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '$' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *Lexer) readNumber() string {
	start := l.pos

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if (l.ch == 'e' || l.ch == 'E') && (isDigit(l.peekChar()) || l.peekChar() == '+' || l.peekChar() == '-') {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return l.input[start:l.pos]
}

// readOperator reads a run of operator characters, stopping before the
// start of a comment.
func (l *Lexer) readOperator() string {
	start := l.pos
	for isOperatorChar(l.ch) {
		if (l.ch == '-' && l.peekChar() == '-') || (l.ch == '/' && l.peekChar() == '*') {
			if l.pos > start {
				break
			}
		}
		l.readChar()
	}
	if l.pos == start {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isOperatorChar(ch byte) bool {
	return strings.IndexByte("+-/<>=~!@#%^&|`?:", ch) >= 0
}

// Tokenize returns all tokens from the input, ending with EOF, and the first
// lexical error if any.
func Tokenize(input string) ([]token.Token, error) {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	if err := l.Err(); err != nil {
		return tokens, err
	}
	return tokens, nil
}
