package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/kirillkom/citecheck/internal/core/domain"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

func isKnownFormat(format string) bool {
	switch format {
	case "text", "json", "yaml":
		return true
	default:
		return false
	}
}

func renderResult(stdout, stderr io.Writer, format string, result domain.CheckResult) error {
	switch format {
	case "json":
		return writeJSON(stdout, result)
	case "yaml":
		return writeYAML(stdout, result)
	default:
		if !result.Success {
			_, err := fmt.Fprintln(stderr, errorStyle.Render("Error:")+" "+result.Error)
			return err
		}
		_, err := io.WriteString(stdout, renderSummary(result.Data))
		return err
	}
}

func renderSummary(data *domain.CheckData) string {
	meta := data.Report.Metadata
	var b strings.Builder
	b.WriteString(titleStyle.Render("Citation Check Summary:") + "\n")
	fmt.Fprintf(&b, "- Total: %d citations\n", meta.TotalCitations)
	fmt.Fprintf(&b, "- Valid: %s\n", successStyle.Render(fmt.Sprint(meta.Summary.Found)))
	fmt.Fprintf(&b, "- Not found: %s\n", warnStyle.Render(fmt.Sprint(meta.Summary.NotFound)))
	fmt.Fprintf(&b, "- Invalid: %s\n", warnStyle.Render(fmt.Sprint(meta.Summary.Invalid)))
	if meta.Summary.MultipleMatches > 0 {
		fmt.Fprintf(&b, "- Multiple matches: %d\n", meta.Summary.MultipleMatches)
	}
	if data.SavedTo != "" {
		fmt.Fprintf(&b, "\nReport saved: %s\n", data.SavedTo)
	}
	if data.ArchivedTo != "" {
		fmt.Fprintf(&b, "Archived to: %s\n", data.ArchivedTo)
	}
	return b.String()
}

func writeJSON(w io.Writer, result domain.CheckResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}

// writeYAML goes through JSON first so the YAML keys follow the json tags.
func writeYAML(w io.Writer, result domain.CheckResult) error {
	var buf bytes.Buffer
	if err := writeJSON(&buf, result); err != nil {
		return err
	}
	var generic any
	if err := yaml.Unmarshal(buf.Bytes(), &generic); err != nil {
		return fmt.Errorf("convert result to yaml: %w", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
