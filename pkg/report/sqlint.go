package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/squall/pkg/lint"
)

// sqlintReporter mimics the output of the sqlint tool so existing editor
// integrations can consume it:
//
//	a.sql:1:8:WARNING use of `SELECT *` is discouraged
//
// Positions default to 1:1 when unknown. Parse and execution errors are
// tagged in the message.
type sqlintReporter struct{}

func (sqlintReporter) Report(w io.Writer, issues []lint.Issue) error {
	for _, iss := range sorted(issues) {
		line, col := max(iss.Pos.Line, 1), max(iss.Pos.Column, 1)
		msg := iss.Message
		switch iss.Kind {
		case lint.KindParseError:
			msg = "parse error: " + msg
		case lint.KindExecutionError:
			msg = fmt.Sprintf("execution error in %s: %s", iss.Rule, msg)
		}
		sev := strings.ToUpper(iss.Severity.String())
		if _, err := fmt.Fprintf(w, "%s:%d:%d:%s %s\n", iss.File, line, col, sev, msg); err != nil {
			return err
		}
	}
	return nil
}
