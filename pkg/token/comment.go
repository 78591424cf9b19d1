package token

import "strings"

// CommentKind distinguishes line vs block comments.
type CommentKind int

// Comment kinds.
const (
	LineComment  CommentKind = iota // -- comment
	BlockComment                    // /* comment */
)

// Comment represents a SQL comment with position.
type Comment struct {
	Kind CommentKind
	Text string // includes delimiters (-- or /* */)
	Span Span
}

// Body returns the comment text without its delimiters, trimmed.
func (c Comment) Body() string {
	switch c.Kind {
	case LineComment:
		return strings.TrimSpace(strings.TrimPrefix(c.Text, "--"))
	default:
		body := strings.TrimPrefix(c.Text, "/*")
		return strings.TrimSpace(strings.TrimSuffix(body, "*/"))
	}
}
