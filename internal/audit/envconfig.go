package audit

import (
	"path/filepath"
	"strings"
)

// file name fragments that mark production configuration
var prodConfigNames = []string{
	".env.production",
	"docker-compose.prod.yml",
	"nginx.conf",
	"application-prod.properties",
}

type envConfigCheck struct{}

func (c *envConfigCheck) ID() string    { return "prod-localhost" }
func (c *envConfigCheck) Title() string { return "Environment Configuration Check" }

func (c *envConfigCheck) Run(p *Project) Section {
	s := newSection(c)

	var paths []string
	p.Walker.Walk(p.Root, func(path string) {
		if !isProdConfig(filepath.Base(path)) {
			return
		}
		content, ok := readText(path)
		if !ok {
			return
		}
		if strings.Contains(strings.ToLower(content), "localhost") {
			paths = append(paths, path)
		}
	})

	if len(paths) == 0 {
		s.add(SeverityOK, "Production configs seem to use external hostnames.")
		return s
	}
	for _, path := range paths {
		s.Findings = append(s.Findings, Finding{Check: c.ID(), Path: path})
	}
	s.add(SeverityWarning, "**'localhost' found in production-related configs:**", paths...)
	return s
}

func isProdConfig(name string) bool {
	for _, frag := range prodConfigNames {
		if strings.Contains(name, frag) {
			return true
		}
	}
	return false
}
