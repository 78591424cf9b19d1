package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/muesli/termenv"

	"github.com/leapstack-labs/squall/pkg/lint"
)

// Reporter writes issues to w. Reporters never modify the issues.
type Reporter interface {
	Report(w io.Writer, issues []lint.Issue) error
}

// Reporter names.
const (
	Plain  = "plain"
	Color  = "color"
	JSON   = "json"
	SQLint = "sqlint"
	Table  = "table"
)

// UnknownReporterError is returned by New for an unregistered name.
type UnknownReporterError struct {
	Name string
}

func (e *UnknownReporterError) Error() string {
	return fmt.Sprintf("unknown reporter %q (available: %s)", e.Name, strings.Join(Names(), ", "))
}

type options struct {
	runID   uuid.UUID
	profile termenv.Profile
	files   int
}

// Option configures a reporter.
type Option func(*options)

// WithRunID tags machine-readable output with the run identifier.
func WithRunID(id uuid.UUID) Option {
	return func(o *options) {
		o.runID = id
	}
}

// WithColorProfile sets the color profile of the color reporter.
func WithColorProfile(p termenv.Profile) Option {
	return func(o *options) {
		o.profile = p
	}
}

// WithFileCount sets the number of linted files shown in summaries.
func WithFileCount(n int) Option {
	return func(o *options) {
		o.files = n
	}
}

var constructors = map[string]func(options) Reporter{
	Plain:  func(options) Reporter { return plainReporter{} },
	Color:  func(o options) Reporter { return newColorReporter(o) },
	JSON:   func(o options) Reporter { return jsonReporter{runID: o.runID, files: o.files} },
	SQLint: func(options) Reporter { return sqlintReporter{} },
	Table:  func(o options) Reporter { return tableReporter{files: o.files} },
}

// New returns the reporter called name.
func New(name string, opts ...Option) (Reporter, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, &UnknownReporterError{Name: name}
	}
	o := options{profile: termenv.ANSI}
	for _, opt := range opts {
		opt(&o)
	}
	return ctor(o), nil
}

// Names returns the sorted reporter names.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// sorted returns a copy of issues ordered by file and position. Issues
// without a position sort first within their file.
func sorted(issues []lint.Issue) []lint.Issue {
	out := slices.Clone(issues)
	slices.SortStableFunc(out, func(a, b lint.Issue) int {
		return cmp.Or(
			cmp.Compare(a.File, b.File),
			cmp.Compare(a.Pos.Line, b.Pos.Line),
			cmp.Compare(a.Pos.Column, b.Pos.Column),
		)
	})
	return out
}

// location renders "file:line:col", or just the file without a position.
func location(iss lint.Issue) string {
	if !iss.Pos.IsValid() {
		return iss.File
	}
	return fmt.Sprintf("%s:%d:%d", iss.File, iss.Pos.Line, iss.Pos.Column)
}

// label names the kind of a non-finding issue.
func label(iss lint.Issue) string {
	switch iss.Kind {
	case lint.KindParseError:
		return "parse error"
	case lint.KindExecutionError:
		return "execution error"
	default:
		return iss.Severity.String()
	}
}
