package audit

import "regexp"

// Unicode-aware whitespace and word classes; RE2 \s and \w are ASCII-only.
const (
	reSpace = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`
	reWord  = `[\p{L}\p{N}_-]`
)

var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)api[_-]key` + reSpace + `*=` + reSpace + `*['"]` + reWord + `{20,}['"]`),
	regexp.MustCompile(`(?i)password` + reSpace + `*=` + reSpace + `*['"]` + reWord + `{8,}['"]`),
	regexp.MustCompile(`(?i)secret` + reSpace + `*=` + reSpace + `*['"]` + reWord + `{20,}['"]`),
	regexp.MustCompile(`(?i)token` + reSpace + `*=` + reSpace + `*['"]` + reWord + `{20,}['"]`),
	regexp.MustCompile(`(?i)firebase[_-]config`),
}

// source and config file extensions to scan for secrets
var secretExts = []string{".java", ".ts", ".tsx", ".js", ".properties", ".yml", ".yaml"}

type secretsCheck struct{}

func (c *secretsCheck) ID() string    { return "hardcoded-secrets" }
func (c *secretsCheck) Title() string { return "Hardcoded Secrets Check" }

func (c *secretsCheck) Run(p *Project) Section {
	s := newSection(c)

	seen := make(map[string]bool)
	var paths []string
	p.Walker.Walk(p.Root, func(path string) {
		if !hasExt(path, secretExts) {
			return
		}
		content, ok := readText(path)
		if !ok {
			return
		}
		if !matchesAny(content, secretPatterns) || seen[path] {
			return
		}
		seen[path] = true
		paths = append(paths, path)
	})

	if len(paths) == 0 {
		s.add(SeverityOK, "No obvious hardcoded secrets found.")
		return s
	}
	for _, path := range paths {
		s.Findings = append(s.Findings, Finding{Check: c.ID(), Path: path})
	}
	s.add(SeverityWarning, "**Potential secrets found in:**", paths...)
	return s
}

// matchesAny stops at the first matching pattern; only existence matters.
func matchesAny(content string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(content) {
			return true
		}
	}
	return false
}
