package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/squall/pkg/config"
	"github.com/leapstack-labs/squall/pkg/lint"
)

// listPresets prints every preset with its description and configuration.
func listPresets(w io.Writer) error {
	bold := lipgloss.NewRenderer(w).NewStyle().Bold(true)
	for _, p := range config.Presets() {
		if _, err := fmt.Fprintf(w, "%s - %s\n", bold.Render(p.Name), p.Description); err != nil {
			return err
		}
		out, err := yaml.Marshal(p.Config)
		if err != nil {
			return fmt.Errorf("failed to render preset %s: %w", p.Name, err)
		}
		for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
			if _, err := fmt.Fprintf(w, "    %s\n", line); err != nil {
				return err
			}
		}
	}
	return nil
}

// listRules prints every registered rule, sorted by name.
func listRules(w io.Writer, reg *lint.Registry) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Rule", "Group", "Severity", "Source", "Description"})
	for d := range reg.All() {
		t.AppendRow(table.Row{d.Name, d.Group, d.Severity.String(), d.Source, d.Description})
	}
	t.Render()
	return nil
}

// showRule prints the documentation of one rule.
func showRule(w io.Writer, reg *lint.Registry, name string) error {
	d, err := reg.Get(name)
	if err != nil {
		return err
	}
	bold := lipgloss.NewRenderer(w).NewStyle().Bold(true)

	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s\n", bold.Render(d.Name), d.Description)
	fmt.Fprintf(&b, "severity: %s  group: %s  source: %s\n", d.Severity, d.Group, d.Source)
	if len(d.ConfigKeys) > 0 {
		fmt.Fprintf(&b, "options: %s\n", strings.Join(d.ConfigKeys, ", "))
	}
	if d.Help != "" {
		fmt.Fprintf(&b, "\n%s\n", strings.TrimRight(d.Help, "\n"))
	}
	_, err = io.WriteString(w, b.String())
	return err
}
