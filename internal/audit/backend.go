package audit

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	permitAllCall   = ".permitAll()"
	csrfDisableCall = "csrf().disable()"
)

type backendSecurityCheck struct{}

func (c *backendSecurityCheck) ID() string    { return "backend-security-config" }
func (c *backendSecurityCheck) Title() string { return "Backend Audit (Spring Boot)" }

func (c *backendSecurityCheck) Run(p *Project) Section {
	s := newSection(c)
	path := p.SecurityConfigPath()
	name := filepath.Base(path)

	if !exists(path) {
		s.add(SeverityWarning, fmt.Sprintf("`%s` not found in expected location.", name))
		return s
	}

	content, ok := readText(path)
	if !ok {
		s.add(SeverityError, fmt.Sprintf("Could not read `%s`.", name))
		return s
	}

	if strings.Contains(content, permitAllCall) {
		s.add(SeverityInfo, fmt.Sprintf("`%s` uses `permitAll()`. Ensure this is intended for production endpoints.", name))
	}
	if strings.Contains(content, csrfDisableCall) {
		s.add(SeverityWarning, fmt.Sprintf("CSRF is disabled in `%s`. Ensure this is safe for your production API usage.", name))
	}
	if len(s.Notes) == 0 {
		s.add(SeverityOK, fmt.Sprintf("`%s` does not use `permitAll()` or disable CSRF.", name))
		return s
	}
	s.Findings = append(s.Findings, Finding{Check: c.ID(), Path: path})
	return s
}
