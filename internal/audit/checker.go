package audit

import "path/filepath"

// Default project layout and output location.
const (
	DefaultRoot           = "."
	DefaultOutput         = "production_readiness_report.md"
	DefaultFrontendDir    = "my-frontend-app"
	DefaultBackendDir     = "backend"
	DefaultSecurityConfig = "src/main/java/com/zplus/counselling/config/SecurityConfig.java"
)

// DefaultExcludeDirs are the name markers of dependency, VCS and build directories.
var DefaultExcludeDirs = []string{"node_modules", ".git", "target"}

// Project describes the tree under audit.
type Project struct {
	Root           string
	FrontendDir    string // relative to Root
	BackendDir     string // relative to Root
	SecurityConfig string // relative to BackendDir
	Walker         *Walker
}

// FrontendPath returns the frontend application directory.
func (p *Project) FrontendPath() string {
	return filepath.Join(p.Root, p.FrontendDir)
}

// SecurityConfigPath returns the full path of the backend security config file.
func (p *Project) SecurityConfigPath() string {
	return filepath.Join(p.Root, p.BackendDir, p.SecurityConfig)
}

// Checker is the interface all audit checks implement.
type Checker interface {
	ID() string
	Title() string
	Run(p *Project) Section
}

// AllCheckers returns the checks in report order.
func AllCheckers() []Checker {
	return []Checker{
		&secretsCheck{},
		&envConfigCheck{},
		&frontendLogCheck{},
		&backendSecurityCheck{},
	}
}

func newSection(c Checker) Section {
	return Section{Check: c.ID(), Title: c.Title()}
}
