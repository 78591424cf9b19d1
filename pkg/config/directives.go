package config

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/squall/pkg/parser"
	"github.com/leapstack-labs/squall/pkg/token"
)

// Directive is an inline configuration comment:
//
//	-- squall-enable:RULE key=value ...
//	-- squall-disable:RULE
//	-- squall-disable
type Directive struct {
	Enable  bool
	Rule    string // empty for squall-disable of every rule
	Options RuleOptions
	Pos     token.Position
}

var directiveRe = regexp.MustCompile(`^squall-(enable|disable)(?::(\S+))?(?:\s+(.*))?$`)

// ScanDirectives collects the directives in the line comments of src. The
// source does not need to parse: comments before a lexical error are
// still scanned.
func ScanDirectives(src []byte) ([]Directive, error) {
	l := parser.NewLexer(string(src))
	for l.NextToken().Kind != token.EOF {
	}
	return ParseDirectives(l.Comments)
}

// ParseDirectives extracts directives from comments.
func ParseDirectives(comments []token.Comment) ([]Directive, error) {
	var out []Directive
	for _, c := range comments {
		if c.Kind != token.LineComment {
			continue
		}
		body := c.Body()
		if !strings.HasPrefix(body, "squall-") {
			continue
		}

		m := directiveRe.FindStringSubmatch(body)
		if m == nil {
			return nil, &DirectiveError{Pos: c.Span.Start, Text: body, Reason: "expected squall-enable:RULE or squall-disable[:RULE]"}
		}

		d := Directive{Enable: m[1] == "enable", Rule: m[2], Pos: c.Span.Start}
		args := strings.TrimSpace(m[3])
		switch {
		case d.Enable && d.Rule == "":
			return nil, &DirectiveError{Pos: d.Pos, Text: body, Reason: "squall-enable requires a rule name"}
		case !d.Enable && args != "":
			return nil, &DirectiveError{Pos: d.Pos, Text: body, Reason: "squall-disable takes no options"}
		}

		if d.Enable {
			opts, err := parseDirectiveOptions(args)
			if err != nil {
				return nil, &DirectiveError{Pos: d.Pos, Text: body, Reason: err.Error()}
			}
			d.Options = opts
		}
		out = append(out, d)
	}
	return out, nil
}

// DirectivesLayer folds directives into one layer. Enables apply before
// disables regardless of their order in the file; repeated enables of a rule
// merge their options in file order.
func DirectivesLayer(ds []Directive) Layer {
	l := Layer{Name: "directives", Rules: make(map[string]RuleOptions)}
	for _, d := range ds {
		switch {
		case d.Enable:
			opts := l.Rules[d.Rule]
			if opts == nil {
				opts = make(RuleOptions)
			}
			for k, v := range d.Options {
				opts[k] = v
			}
			l.Rules[d.Rule] = opts
		case d.Rule == "":
			l.DisableAll = true
		default:
			l.Disable = append(l.Disable, d.Rule)
		}
	}
	return l
}

// parseDirectiveOptions parses space-separated key=value pairs. Values are
// YAML scalars or flow collections, e.g. excluded=[users, "audit log"].
func parseDirectiveOptions(s string) (RuleOptions, error) {
	opts := make(RuleOptions)
	fields, err := splitFields(s)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		key, raw, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("option %q is not key=value", f)
		}
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("option %q: %w", key, err)
		}
		opts[key] = v
	}
	return opts, nil
}

// splitFields splits on whitespace outside brackets and quotes.
func splitFields(s string) ([]string, error) {
	var (
		fields []string
		cur    strings.Builder
		depth  int
		quote  rune
	)
	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '[' || r == '{':
			depth++
		case r == ']' || r == '}':
			depth--
		case depth == 0 && (r == ' ' || r == '\t'):
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	if quote != 0 || depth != 0 {
		return nil, fmt.Errorf("unbalanced quotes or brackets in %q", s)
	}
	flush()
	return fields, nil
}
