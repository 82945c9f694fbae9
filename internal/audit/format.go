package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReportTitle is the top-level heading of the markdown report.
const ReportTitle = "Production Readiness Audit Report"

// Formatter renders a report to w.
type Formatter interface {
	Format(w io.Writer, r *Report) error
}

// NewFormatter returns the formatter for a format name: markdown, json or sarif.
func NewFormatter(format string) (Formatter, error) {
	switch format {
	case "", "markdown", "md":
		return NewMarkdownFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "sarif":
		return NewSARIFFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (use markdown, json, or sarif)", format)
	}
}

// WriteReport renders r into path, replacing whatever the file held before.
func WriteReport(path string, f Formatter, r *Report) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := f.Format(out, r); err != nil {
		_ = out.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	return nil
}

// --- Markdown Formatter ---

// MarkdownFormatter writes the human-readable report.
type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter { return &MarkdownFormatter{} }

func (f *MarkdownFormatter) Format(w io.Writer, r *Report) error {
	blocks := make([]string, 0, len(r.Sections)+1)
	blocks = append(blocks, "# "+ReportTitle)
	for i, s := range r.Sections {
		blocks = append(blocks, renderSection(i+1, &s))
	}
	_, err := io.WriteString(w, strings.Join(blocks, "\n\n"))
	return err
}

func renderSection(n int, s *Section) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %d. %s", n, s.Title)
	for _, note := range s.Notes {
		fmt.Fprintf(&b, "\n%s %s", note.Severity.Marker(), note.Text)
		for _, item := range note.Items {
			fmt.Fprintf(&b, "\n- `%s`", item)
		}
	}
	return b.String()
}

// --- JSON Formatter ---

// JSONFormatter writes the report as JSON.
type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter { return &JSONFormatter{} }

func (f *JSONFormatter) Format(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
