package audit

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

// Options controls auditor behavior. Zero values fall back to the defaults.
type Options struct {
	Root             string
	FrontendDir      string
	BackendDir       string
	SecurityConfig   string
	ExcludeDirs      []string
	RespectGitignore bool
}

// Auditor runs the checks against one project tree, one after another.
type Auditor struct {
	project  *Project
	checkers []Checker
	now      func() time.Time
}

// New creates an auditor. The root must be an existing directory.
func New(opts Options) (*Auditor, error) {
	if opts.Root == "" {
		opts.Root = DefaultRoot
	}
	if opts.FrontendDir == "" {
		opts.FrontendDir = DefaultFrontendDir
	}
	if opts.BackendDir == "" {
		opts.BackendDir = DefaultBackendDir
	}
	if opts.SecurityConfig == "" {
		opts.SecurityConfig = DefaultSecurityConfig
	}
	if opts.ExcludeDirs == nil {
		opts.ExcludeDirs = DefaultExcludeDirs
	}

	fi, err := os.Stat(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", opts.Root)
	}

	return &Auditor{
		project: &Project{
			Root:           opts.Root,
			FrontendDir:    opts.FrontendDir,
			BackendDir:     opts.BackendDir,
			SecurityConfig: opts.SecurityConfig,
			Walker:         NewWalker(opts.Root, opts.ExcludeDirs, opts.RespectGitignore),
		},
		checkers: AllCheckers(),
		now:      time.Now,
	}, nil
}

// Checkers returns the checks in report order.
func (a *Auditor) Checkers() []Checker {
	return a.checkers
}

// RunCheck runs a single check.
func (a *Auditor) RunCheck(c Checker) Section {
	start := time.Now()
	s := c.Run(a.project)
	slog.Debug("check finished", "check", c.ID(), "findings", len(s.Findings), "elapsed", time.Since(start))
	return s
}

// Run executes every check sequentially and assembles the report.
func (a *Auditor) Run() *Report {
	sections := make([]Section, 0, len(a.checkers))
	for _, c := range a.checkers {
		sections = append(sections, a.RunCheck(c))
	}
	return a.NewReport(sections)
}

// NewReport wraps already computed sections in a report.
func (a *Auditor) NewReport(sections []Section) *Report {
	return &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: a.now().UTC(),
		Root:        a.project.Root,
		Sections:    sections,
	}
}
