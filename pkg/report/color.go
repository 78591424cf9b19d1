package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/leapstack-labs/squall/pkg/core"
	"github.com/leapstack-labs/squall/pkg/lint"
)

// colorReporter groups issues by file with styled severities:
//
//	a.sql
//	  1:8    warning          no-select-star  use of `SELECT *` is discouraged
//	  -      execution error  broken-rule     rule "broken-rule" failed ...
//
//	Summary: 2 issues (1 warning, 1 execution error) in 1 file
type colorReporter struct {
	profile termenv.Profile
	files   int
}

func newColorReporter(o options) colorReporter {
	return colorReporter{profile: o.profile, files: o.files}
}

type styles struct {
	file     lipgloss.Style
	muted    lipgloss.Style
	bold     lipgloss.Style
	error    lipgloss.Style
	warning  lipgloss.Style
	info     lipgloss.Style
	internal lipgloss.Style
}

func newStyles(re *lipgloss.Renderer) styles {
	return styles{
		file:     re.NewStyle().Bold(true).Underline(true),
		muted:    re.NewStyle().Foreground(lipgloss.Color("8")),
		bold:     re.NewStyle().Bold(true),
		error:    re.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		warning:  re.NewStyle().Foreground(lipgloss.Color("11")),
		info:     re.NewStyle().Foreground(lipgloss.Color("12")),
		internal: re.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
	}
}

func (s styles) severity(iss lint.Issue) lipgloss.Style {
	if !iss.IsFinding() {
		return s.internal
	}
	switch iss.Severity {
	case core.SeverityError:
		return s.error
	case core.SeverityWarning:
		return s.warning
	case core.SeverityInfo:
		return s.info
	default:
		return s.muted
	}
}

func (r colorReporter) Report(w io.Writer, issues []lint.Issue) error {
	re := lipgloss.NewRenderer(w)
	re.SetColorProfile(r.profile)
	st := newStyles(re)

	if len(issues) == 0 {
		_, err := fmt.Fprintln(w, st.info.Render("No issues found"))
		return err
	}

	p := &printer{w: w}
	file := ""
	for i, iss := range sorted(issues) {
		if i == 0 || iss.File != file {
			if i > 0 {
				p.println("")
			}
			file = iss.File
			p.println(st.file.Render(file))
		}

		loc := "-"
		if iss.Pos.IsValid() {
			loc = fmt.Sprintf("%d:%d", iss.Pos.Line, iss.Pos.Column)
		}
		p.printf("  %s  %s  %s  %s\n",
			st.muted.Render(fmt.Sprintf("%-6s", loc)),
			st.severity(iss).Render(fmt.Sprintf("%-15s", label(iss))),
			st.bold.Render(iss.Rule),
			iss.Message,
		)
	}
	p.println("")
	p.printf("Summary: %s\n", summarize(issues, r.files))
	return p.err
}

// printer remembers the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
	}
}

func (p *printer) println(s string) {
	if p.err == nil {
		_, p.err = fmt.Fprintln(p.w, s)
	}
}
