package runner

import (
	"github.com/google/uuid"

	"github.com/leapstack-labs/squall/pkg/lint"
)

// FileResult holds the issues of one linted file.
type FileResult struct {
	Path   string
	Issues []lint.Issue
}

// Result is the outcome of a lint run.
type Result struct {
	RunID uuid.UUID
	Files []FileResult // in input order
}

// Issues returns every issue of the run, file by file in input order.
func (r *Result) Issues() []lint.Issue {
	var out []lint.Issue
	for _, f := range r.Files {
		out = append(out, f.Issues...)
	}
	return out
}

// Failed reports whether the run produced any issue, of any severity or
// kind.
func (r *Result) Failed() bool {
	for _, f := range r.Files {
		if len(f.Issues) > 0 {
			return true
		}
	}
	return false
}

// Counts tallies issues by kind.
func (r *Result) Counts() map[lint.Kind]int {
	counts := make(map[lint.Kind]int)
	for _, f := range r.Files {
		for _, iss := range f.Issues {
			counts[iss.Kind]++
		}
	}
	return counts
}
