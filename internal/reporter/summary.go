package reporter

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/prodaudit/internal/audit"
)

// Terminal styles
var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	runStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")) // cyan
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func severityStyle(s audit.Severity) lipgloss.Style {
	switch s {
	case audit.SeverityError:
		return failedStyle
	case audit.SeverityWarning:
		return warnStyle
	case audit.SeverityInfo:
		return runStyle
	default:
		return doneStyle
	}
}

// Summary prints the end-of-run message.
type Summary struct {
	w     io.Writer
	color bool
}

// NewSummary creates a summary printer. Section lines are printed only with color,
// i.e. when writing to a terminal; otherwise just the completion line.
func NewSummary(w io.Writer, color bool) *Summary {
	return &Summary{w: w, color: color}
}

// Print writes the per-section overview followed by the completion line.
func (s *Summary) Print(r *audit.Report, output string) {
	if s.color {
		for i, sec := range r.Sections {
			worst := sec.Worst()
			line := fmt.Sprintf("%s %d. %s %s", worst.Marker(), i+1, sec.Title, findingCount(len(sec.Findings)))
			fmt.Fprintln(s.w, "  "+severityStyle(worst).Render(line))
		}
		fmt.Fprintln(s.w)
	}
	fmt.Fprintln(s.w, s.render(headerStyle, "Audit complete! Report generated: "+output))
}

func (s *Summary) render(st lipgloss.Style, text string) string {
	if !s.color {
		return text
	}
	return st.Render(text)
}
