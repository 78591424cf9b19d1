package lint

import (
	"fmt"

	"github.com/leapstack-labs/squall/pkg/core"
	"github.com/leapstack-labs/squall/pkg/token"
)

// Kind distinguishes rule findings from pipeline failures.
type Kind string

// Issue kinds.
const (
	KindFinding        Kind = "finding"
	KindParseError     Kind = "parse-error"
	KindExecutionError Kind = "execution-error"
)

// Rule names used for issues the pipeline itself produces.
const (
	ParseErrorRule     = "parse-error"
	ExecutionErrorRule = "execution-error"
)

// Issue is a single finding reported against a file.
type Issue struct {
	Rule     string
	File     string
	Pos      token.Position
	Severity core.Severity
	Message  string
	Kind     Kind
	Context  map[string]any

	severitySet bool
}

// NewIssue creates a finding at pos. Rule, File and Severity are filled in by
// the pipeline.
func NewIssue(pos token.Position, format string, args ...any) Issue {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return Issue{Pos: pos, Message: msg, Kind: KindFinding}
}

// WithSeverity returns a copy of the issue with an explicit severity that
// the pipeline will not override with the rule default.
func (i Issue) WithSeverity(s core.Severity) Issue {
	i.Severity = s
	i.severitySet = true
	return i
}

// WithContext returns a copy of the issue with key set in its context.
func (i Issue) WithContext(key string, value any) Issue {
	ctx := make(map[string]any, len(i.Context)+1)
	for k, v := range i.Context {
		ctx[k] = v
	}
	ctx[key] = value
	i.Context = ctx
	return i
}

// Finalize fills the fields owned by the pipeline: the file, the rule name
// when unset, the rule's default severity unless one was set explicitly, and
// the finding kind when unset.
func (i Issue) Finalize(rule, file string, sev core.Severity) Issue {
	if i.Rule == "" {
		i.Rule = rule
	}
	i.File = file
	if !i.severitySet {
		i.Severity = sev
		i.severitySet = true
	}
	if i.Kind == "" {
		i.Kind = KindFinding
	}
	return i
}

// IsFinding reports whether the issue came from a rule rather than from a
// parse or execution failure.
func (i Issue) IsFinding() bool {
	return i.Kind == KindFinding || i.Kind == ""
}

// String formats the issue as "file:line:col: [rule] message".
func (i Issue) String() string {
	return fmt.Sprintf("%s:%s: [%s] %s", i.File, i.Pos, i.Rule, i.Message)
}

// ParseErrorIssue builds the single issue reported for a file that could not
// be read or parsed.
func ParseErrorIssue(file string, pos token.Position, err error) Issue {
	return Issue{
		Rule:        ParseErrorRule,
		File:        file,
		Pos:         pos,
		Severity:    core.SeverityError,
		Message:     err.Error(),
		Kind:        KindParseError,
		severitySet: true,
	}
}

// ExecutionErrorIssue builds the issue reported when a rule cannot be
// instantiated or fails while checking a file.
func ExecutionErrorIssue(rule, file string, err error) Issue {
	return Issue{
		Rule:        rule,
		File:        file,
		Severity:    core.SeverityError,
		Message:     err.Error(),
		Kind:        KindExecutionError,
		severitySet: true,
	}
}
