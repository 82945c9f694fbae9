package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/prodaudit/internal/audit"
)

// Settings holds persistent CLI defaults loaded from a config file.
type Settings struct {
	Root   string `yaml:"root" validate:"required,dir"`
	Output string `yaml:"output" validate:"required"`
	Format string `yaml:"format" validate:"omitempty,oneof=markdown md json sarif"`

	// Project layout, relative to Root
	FrontendDir    string `yaml:"frontend_dir" validate:"omitempty,relpath"`
	BackendDir     string `yaml:"backend_dir" validate:"omitempty,relpath"`
	SecurityConfig string `yaml:"security_config" validate:"omitempty,relpath"` // relative to BackendDir

	// Directory name markers skipped during walks; empty means the built-in list
	ExcludeDirs      []string `yaml:"exclude_dirs,omitempty" validate:"dive,required"`
	RespectGitignore bool     `yaml:"respect_gitignore"`
}

// LoadSettings reads a YAML config file into Settings.
// If the file does not exist, it returns zero-value Settings and nil error.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &s, nil
}

// ApplyDefaults fills empty fields with the built-in project layout.
func (s *Settings) ApplyDefaults() {
	if s.Root == "" {
		s.Root = audit.DefaultRoot
	}
	if s.Output == "" {
		s.Output = audit.DefaultOutput
	}
	if s.Format == "" {
		s.Format = "markdown"
	}
	if s.FrontendDir == "" {
		s.FrontendDir = audit.DefaultFrontendDir
	}
	if s.BackendDir == "" {
		s.BackendDir = audit.DefaultBackendDir
	}
	if s.SecurityConfig == "" {
		s.SecurityConfig = audit.DefaultSecurityConfig
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
	validateErr  error
)

// newValidator builds the shared validator with the relpath rule registered.
func newValidator() (*validator.Validate, error) {
	validateOnce.Do(func() {
		v := validator.New()
		if err := v.RegisterValidation("relpath", isRelPath); err != nil {
			validateErr = fmt.Errorf("register relpath: %w", err)
			return
		}
		validate = v
	})
	return validate, validateErr
}

// isRelPath accepts paths that stay inside their base directory.
func isRelPath(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	if filepath.IsAbs(p) {
		return false
	}
	clean := filepath.ToSlash(filepath.Clean(p))
	return clean != ".." && !strings.HasPrefix(clean, "../")
}

// Validate checks field constraints and reports every violation in one error.
func (s *Settings) Validate() error {
	v, err := newValidator()
	if err != nil {
		return err
	}

	err = v.Struct(s)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q check (value %v)", e.Namespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// AuditOptions converts settings into auditor options.
func (s *Settings) AuditOptions() audit.Options {
	return audit.Options{
		Root:             s.Root,
		FrontendDir:      s.FrontendDir,
		BackendDir:       s.BackendDir,
		SecurityConfig:   s.SecurityConfig,
		ExcludeDirs:      s.ExcludeDirs,
		RespectGitignore: s.RespectGitignore,
	}
}
