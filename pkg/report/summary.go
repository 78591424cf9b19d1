package report

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/squall/pkg/core"
	"github.com/leapstack-labs/squall/pkg/lint"
)

// Summary counts issues by severity and kind.
type Summary struct {
	Total           int `json:"total"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Info            int `json:"info"`
	Hints           int `json:"hints"`
	ParseErrors     int `json:"parse_errors"`
	ExecutionErrors int `json:"execution_errors"`
	Files           int `json:"files"`
}

// Summarize counts issues. Files is the number of files with issues.
func Summarize(issues []lint.Issue) Summary {
	s := Summary{Total: len(issues)}
	files := make(map[string]struct{})
	for _, iss := range issues {
		files[iss.File] = struct{}{}
		switch iss.Kind {
		case lint.KindParseError:
			s.ParseErrors++
			continue
		case lint.KindExecutionError:
			s.ExecutionErrors++
			continue
		}
		switch iss.Severity {
		case core.SeverityError:
			s.Errors++
		case core.SeverityWarning:
			s.Warnings++
		case core.SeverityInfo:
			s.Info++
		case core.SeverityHint:
			s.Hints++
		}
	}
	s.Files = len(files)
	return s
}

// summarize is Summarize with the file count raised to the number of linted
// files, when known.
func summarize(issues []lint.Issue, files int) Summary {
	s := Summarize(issues)
	s.Files = max(s.Files, files)
	return s
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// String renders e.g. "3 issues (2 errors, 1 warning) in 2 files".
func (s Summary) String() string {
	var parts []string
	for _, p := range []struct {
		n    int
		word string
	}{
		{s.Errors, "error"},
		{s.Warnings, "warning"},
		{s.Info, "info"},
		{s.Hints, "hint"},
		{s.ParseErrors, "parse error"},
		{s.ExecutionErrors, "execution error"},
	} {
		if p.n == 0 {
			continue
		}
		if p.word == "info" {
			parts = append(parts, fmt.Sprintf("%d info", p.n))
			continue
		}
		parts = append(parts, plural(p.n, p.word))
	}

	out := plural(s.Total, "issue")
	if len(parts) > 0 {
		out += " (" + strings.Join(parts, ", ") + ")"
	}
	return out + " in " + plural(s.Files, "file")
}
