package report_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/squall/pkg/core"
	"github.com/leapstack-labs/squall/pkg/lint"
	"github.com/leapstack-labs/squall/pkg/report"
	"github.com/leapstack-labs/squall/pkg/token"
)

func sampleIssues() []lint.Issue {
	return []lint.Issue{
		lint.NewIssue(token.Position{Line: 3, Column: 1}, "second").
			Finalize("require-primary-key", "b.sql", core.SeverityError),
		lint.NewIssue(token.Position{Line: 1, Column: 8}, "use of `SELECT *` is discouraged").
			WithContext("table", "t").
			Finalize("no-select-star", "a.sql", core.SeverityWarning),
		lint.ParseErrorIssue("c.sql", token.Position{Line: 2, Column: 5}, errors.New("unclosed")),
		lint.ExecutionErrorIssue("broken", "a.sql", errors.New("boom")),
	}
}

func render(t *testing.T, name string, issues []lint.Issue, opts ...report.Option) string {
	t.Helper()
	r, err := report.New(name, opts...)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Report(&buf, issues))
	return buf.String()
}

func TestNewUnknownReporter(t *testing.T) {
	_, err := report.New("xml")
	var unknown *report.UnknownReporterError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "xml", unknown.Name)
	assert.Contains(t, err.Error(), "plain")
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"color", "json", "plain", "sqlint", "table"}, report.Names())
}

func TestPlainReporter(t *testing.T) {
	out := render(t, report.Plain, sampleIssues())
	assert.Equal(t, strings.Join([]string{
		"a.sql: execution error: boom [broken]",
		"a.sql:1:8: warning: use of `SELECT *` is discouraged [no-select-star]",
		"b.sql:3:1: error: second [require-primary-key]",
		"c.sql:2:5: parse error: unclosed",
		"",
	}, "\n"), out)
}

func TestSQLintReporter(t *testing.T) {
	out := render(t, report.SQLint, sampleIssues())
	assert.Equal(t, strings.Join([]string{
		"a.sql:1:1:ERROR execution error in broken: boom",
		"a.sql:1:8:WARNING use of `SELECT *` is discouraged",
		"b.sql:3:1:ERROR second",
		"c.sql:2:5:ERROR parse error: unclosed",
		"",
	}, "\n"), out)
}

func TestJSONReporter(t *testing.T) {
	id := uuid.New()
	out := render(t, report.JSON, sampleIssues(), report.WithRunID(id))

	var doc report.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, id.String(), doc.RunID)
	require.Len(t, doc.Issues, 4)

	assert.Equal(t, "execution-error", doc.Issues[0].Kind)
	assert.Equal(t, "no-select-star", doc.Issues[1].Rule)
	assert.Equal(t, "finding", doc.Issues[1].Kind)
	assert.Equal(t, 8, doc.Issues[1].Column)
	assert.Equal(t, "t", doc.Issues[1].Context["table"])
	assert.Equal(t, "parse-error", doc.Issues[3].Kind)

	assert.Equal(t, 4, doc.Summary.Total)
	assert.Equal(t, 1, doc.Summary.ParseErrors)
	assert.Equal(t, 1, doc.Summary.ExecutionErrors)
	assert.Equal(t, 3, doc.Summary.Files)
}

func TestJSONReporterEmpty(t *testing.T) {
	out := render(t, report.JSON, nil)
	assert.Contains(t, out, `"issues": []`)
	assert.NotContains(t, out, "run_id")
}

func TestColorReporter(t *testing.T) {
	out := render(t, report.Color, sampleIssues(), report.WithColorProfile(termenv.Ascii), report.WithFileCount(5))

	assert.Contains(t, out, "a.sql\n")
	assert.Contains(t, out, "1:8")
	assert.Contains(t, out, "execution error")
	assert.Contains(t, out, "parse error")
	assert.Contains(t, out, "no-select-star")
	assert.Contains(t, out, "Summary: 4 issues (1 error, 1 warning, 1 parse error, 1 execution error) in 5 files")
	assert.NotContains(t, out, "\x1b[")

	colored := render(t, report.Color, sampleIssues(), report.WithColorProfile(termenv.ANSI))
	assert.Contains(t, colored, "\x1b[")
}

func TestColorReporterNoIssues(t *testing.T) {
	out := render(t, report.Color, nil, report.WithColorProfile(termenv.Ascii))
	assert.Equal(t, "No issues found\n", out)
}

func TestTableReporter(t *testing.T) {
	out := render(t, report.Table, sampleIssues())
	assert.Contains(t, out, "RULE")
	assert.Contains(t, out, "require-primary-key")
	assert.Contains(t, out, "execution error")
	// go-pretty upper-cases headers and footers
	assert.Contains(t, strings.ToUpper(out), "4 ISSUES")
}

func TestReportersDoNotReorderInput(t *testing.T) {
	issues := sampleIssues()
	before := append([]lint.Issue(nil), issues...)
	for _, name := range report.Names() {
		render(t, name, issues, report.WithColorProfile(termenv.Ascii))
	}
	assert.Equal(t, before, issues)
}

func TestSummaryString(t *testing.T) {
	s := report.Summarize(sampleIssues()[:1])
	assert.Equal(t, "1 issue (1 error) in 1 file", s.String())
}
