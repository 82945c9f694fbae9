package audit

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
)

const (
	sarifSchema  = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json"
	sarifVersion = "2.1.0"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name  string      `json:"name"`
	Rules []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFFormatter writes a SARIF v2.1.0 log. Every non-ok note becomes one result
// per affected path, or a single location-less result when no path applies.
type SARIFFormatter struct{}

func NewSARIFFormatter() *SARIFFormatter { return &SARIFFormatter{} }

func (f *SARIFFormatter) Format(w io.Writer, r *Report) error {
	results := []sarifResult{}
	rules := make([]sarifRule, 0, len(r.Sections))

	for _, s := range r.Sections {
		rules = append(rules, sarifRule{ID: s.Check, ShortDescription: sarifMessage{Text: s.Title}})

		for _, n := range s.Notes {
			level := sarifLevel(n.Severity)
			if level == "" {
				continue
			}
			msg := sarifMessage{Text: plainText(n.Text)}

			paths := n.Items
			if len(paths) == 0 {
				for _, fd := range s.Findings {
					paths = append(paths, fd.Path)
				}
			}
			if len(paths) == 0 {
				results = append(results, sarifResult{RuleID: s.Check, Level: level, Message: msg})
				continue
			}
			for _, p := range paths {
				results = append(results, sarifResult{
					RuleID:  s.Check,
					Level:   level,
					Message: msg,
					Locations: []sarifLocation{{
						PhysicalLocation: sarifPhysicalLocation{
							ArtifactLocation: sarifArtifactLocation{URI: sarifURI(r.Root, p)},
						},
					}},
				})
			}
		}
	}

	sarif := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{
				Driver: sarifDriver{Name: "prodaudit", Rules: rules},
			},
			Results: results,
		}},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sarif)
}

func sarifLevel(s Severity) string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "note"
	default:
		return ""
	}
}

// sarifURI makes the path relative to the audited root with forward slashes.
func sarifURI(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		path = rel
	}
	return filepath.ToSlash(path)
}

func plainText(s string) string {
	return strings.NewReplacer("**", "", "`", "").Replace(s)
}
