package report

import (
	"fmt"
	"io"

	"github.com/leapstack-labs/squall/pkg/lint"
)

// plainReporter prints one uncolored line per issue:
//
//	a.sql:1:8: warning: use of `SELECT *` is discouraged [no-select-star]
//	b.sql:2:8: parse error: parse error at line 2, column 8: unclosed "("
//	c.sql: execution error: rule "r" failed on c.sql: boom [r]
type plainReporter struct{}

func (plainReporter) Report(w io.Writer, issues []lint.Issue) error {
	for _, iss := range sorted(issues) {
		if _, err := fmt.Fprintln(w, plainLine(iss)); err != nil {
			return err
		}
	}
	return nil
}

func plainLine(iss lint.Issue) string {
	if iss.Kind == lint.KindParseError {
		return fmt.Sprintf("%s: %s: %s", location(iss), label(iss), iss.Message)
	}
	return fmt.Sprintf("%s: %s: %s [%s]", location(iss), label(iss), iss.Message, iss.Rule)
}
