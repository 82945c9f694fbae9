package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ppiankov/prodaudit/internal/audit"
	"github.com/ppiankov/prodaudit/internal/config"
	"github.com/ppiankov/prodaudit/internal/reporter"
)

var errAborted = errors.New("audit aborted")

// resolveSettings loads the config file and lets explicitly set flags override it.
func resolveSettings(cmd *cobra.Command) (*config.Settings, error) {
	s, err := config.LoadSettings(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("root") || s.Root == "" {
		s.Root = rootDir
	}
	if flags.Changed("output") || s.Output == "" {
		s.Output = outputPath
	}
	if flags.Changed("format") || s.Format == "" {
		s.Format = format
	}
	if flags.Changed("respect-gitignore") {
		s.RespectGitignore = respectGitignore
	}

	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func runAudit(cmd *cobra.Command, useTUI bool) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	a, err := audit.New(s.AuditOptions())
	if err != nil {
		return err
	}
	formatter, err := audit.NewFormatter(s.Format)
	if err != nil {
		return err
	}

	isTTY := isTerminal()

	var report *audit.Report
	if useTUI && isTTY {
		report, err = runTUI(a)
		if err != nil {
			return err
		}
	} else {
		if useTUI {
			slog.Debug("stdout is not a terminal, TUI disabled")
		}
		report = a.Run()
	}

	if err := audit.WriteReport(s.Output, formatter, report); err != nil {
		return err
	}
	slog.Debug("report written", "path", s.Output, "format", s.Format, "findings", len(report.Findings()))

	reporter.NewSummary(cmd.OutOrStdout(), isTTY).Print(report, s.Output)
	return nil
}

func runTUI(a *audit.Auditor) (*audit.Report, error) {
	final, err := tea.NewProgram(reporter.NewTUIModel(a)).Run()
	if err != nil {
		return nil, fmt.Errorf("run TUI: %w", err)
	}
	model, ok := final.(reporter.TUIModel)
	if !ok {
		return nil, fmt.Errorf("unexpected TUI model %T", final)
	}
	sections, complete := model.Sections()
	if !complete {
		return nil, errAborted
	}
	return a.NewReport(sections), nil
}

// isTerminal checks if stdout is a terminal.
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
