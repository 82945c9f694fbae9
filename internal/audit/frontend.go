package audit

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

var frontendExts = []string{".ts", ".tsx", ".js"}

const debugLogCall = "console.log("

type frontendLogCheck struct{}

func (c *frontendLogCheck) ID() string    { return "frontend-console-log" }
func (c *frontendLogCheck) Title() string { return "Frontend Audit" }

func (c *frontendLogCheck) Run(p *Project) Section {
	s := newSection(c)

	var paths []string
	if exists(p.FrontendPath()) {
		p.Walker.Walk(filepath.Join(p.FrontendPath(), "src"), func(path string) {
			if !hasExt(path, frontendExts) {
				return
			}
			content, ok := readText(path)
			if ok && strings.Contains(content, debugLogCall) {
				paths = append(paths, path)
			}
		})
	} else {
		slog.Debug("frontend dir not found", "path", p.FrontendPath())
	}

	if len(paths) == 0 {
		s.add(SeverityOK, "No `console.log` statements found in `src`.")
		return s
	}
	for _, path := range paths {
		s.Findings = append(s.Findings, Finding{Check: c.ID(), Path: path})
	}
	s.add(SeverityWarning, fmt.Sprintf("**%s `console.log` statements.** These should be removed or replaced with a logger for production.",
		filesContain(len(paths))))
	return s
}

func filesContain(n int) string {
	if n == 1 {
		return "1 file contains"
	}
	return fmt.Sprintf("%d files contain", n)
}
