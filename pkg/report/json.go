package report

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"

	"github.com/leapstack-labs/squall/pkg/lint"
)

// JSONIssue is the JSON form of one issue.
type JSONIssue struct {
	Rule     string         `json:"rule"`
	File     string         `json:"file"`
	Line     int            `json:"line,omitempty"`
	Column   int            `json:"column,omitempty"`
	Severity string         `json:"severity"`
	Kind     string         `json:"kind"`
	Message  string         `json:"message"`
	Context  map[string]any `json:"context,omitempty"`
}

// JSONOutput is the document written by the json reporter.
type JSONOutput struct {
	RunID   string      `json:"run_id,omitempty"`
	Summary Summary     `json:"summary"`
	Issues  []JSONIssue `json:"issues"`
}

type jsonReporter struct {
	runID uuid.UUID
	files int
}

func (r jsonReporter) Report(w io.Writer, issues []lint.Issue) error {
	out := JSONOutput{
		Summary: summarize(issues, r.files),
		Issues:  make([]JSONIssue, 0, len(issues)),
	}
	if r.runID != uuid.Nil {
		out.RunID = r.runID.String()
	}
	for _, iss := range sorted(issues) {
		out.Issues = append(out.Issues, JSONIssue{
			Rule:     iss.Rule,
			File:     iss.File,
			Line:     iss.Pos.Line,
			Column:   iss.Pos.Column,
			Severity: iss.Severity.String(),
			Kind:     string(iss.Kind),
			Message:  iss.Message,
			Context:  iss.Context,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
