package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/squall/pkg/lint"
)

// tableReporter renders issues as a box-drawn table with a summary footer.
type tableReporter struct {
	files int
}

func (r tableReporter) Report(w io.Writer, issues []lint.Issue) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Line", "Col", "Severity", "Rule", "Message"})

	for _, iss := range sorted(issues) {
		line, col := "", ""
		if iss.Pos.IsValid() {
			line, col = fmt.Sprint(iss.Pos.Line), fmt.Sprint(iss.Pos.Column)
		}
		t.AppendRow(table.Row{iss.File, line, col, label(iss), iss.Rule, iss.Message})
	}

	t.AppendFooter(table.Row{"", "", "", "", "", summarize(issues, r.files).String()})
	t.Render()
	return nil
}
