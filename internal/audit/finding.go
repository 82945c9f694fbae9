package audit

import (
	"strings"
	"time"
)

// Severity represents the importance level of a report line.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInfo
	SeverityOK
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityOK:
		return "ok"
	default:
		return "unknown"
	}
}

// Marker returns the emoji used for the severity in the markdown report.
func (s Severity) Marker() string {
	switch s {
	case SeverityError:
		return "❌"
	case SeverityWarning:
		return "⚠️"
	case SeverityInfo:
		return "ℹ️"
	case SeverityOK:
		return "✅"
	default:
		return "?"
	}
}

// ParseSeverity converts a string to Severity. Returns 0 if unrecognized.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError
	case "warning":
		return SeverityWarning
	case "info":
		return SeverityInfo
	case "ok":
		return SeverityOK
	default:
		return 0
	}
}

// MarshalText lets severities appear by name in JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Finding is a file path flagged by one check.
type Finding struct {
	Check string `json:"check"`
	Path  string `json:"path"`
}

// Note is one rendered line of a section. Items become a bullet list under it.
type Note struct {
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
	Items    []string `json:"items,omitempty"`
}

// Section holds the outcome of a single check.
type Section struct {
	Check    string    `json:"check"`
	Title    string    `json:"title"`
	Notes    []Note    `json:"notes"`
	Findings []Finding `json:"findings"`
}

// Worst returns the most severe note in the section, or SeverityOK when empty.
func (s *Section) Worst() Severity {
	worst := SeverityOK
	for _, n := range s.Notes {
		if n.Severity < worst {
			worst = n.Severity
		}
	}
	return worst
}

func (s *Section) add(sev Severity, text string, items ...string) {
	s.Notes = append(s.Notes, Note{Severity: sev, Text: text, Items: items})
}

// Report is the ordered set of sections produced by one run.
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Root        string    `json:"root"`
	Sections    []Section `json:"sections"`
}

// Findings returns every finding across sections, in section order.
func (r *Report) Findings() []Finding {
	var all []Finding
	for _, s := range r.Sections {
		all = append(all, s.Findings...)
	}
	return all
}
