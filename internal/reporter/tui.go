package reporter

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ppiankov/prodaudit/internal/audit"
)

var spinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type tickMsg time.Time

type checkDoneMsg struct {
	index   int
	section audit.Section
}

// TUIModel is the Bubbletea model for the live audit display.
// Checks run one at a time; the next starts only after the previous reported back.
type TUIModel struct {
	auditor  *audit.Auditor
	checks   []audit.Checker
	sections []audit.Section
	current  int
	frame    int
	done     bool
	aborted  bool
}

// NewTUIModel creates a TUI model driving the given auditor.
func NewTUIModel(a *audit.Auditor) TUIModel {
	return TUIModel{
		auditor: a,
		checks:  a.Checkers(),
	}
}

// Init implements tea.Model.
func (m TUIModel) Init() tea.Cmd {
	if len(m.checks) == 0 {
		return tea.Quit
	}
	return tea.Batch(m.runCheck(0), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m TUIModel) runCheck(i int) tea.Cmd {
	a, c := m.auditor, m.checks[i]
	return func() tea.Msg {
		return checkDoneMsg{index: i, section: a.RunCheck(c)}
	}
}

// Update implements tea.Model.
func (m TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		}

	case checkDoneMsg:
		if msg.index != m.current {
			return m, nil
		}
		m.sections = append(m.sections, msg.section)
		m.current++
		if m.current >= len(m.checks) {
			m.done = true
			return m, tea.Quit
		}
		return m, m.runCheck(m.current)

	case tickMsg:
		if m.done || m.aborted {
			return m, nil
		}
		m.frame++
		return m, tickCmd()
	}

	return m, nil
}

// Sections returns the completed sections. ok is false if the run was aborted.
func (m TUIModel) Sections() ([]audit.Section, bool) {
	return m.sections, m.done && !m.aborted
}

// View implements tea.Model.
func (m TUIModel) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("prodaudit — %d checks", len(m.checks))))
	b.WriteString("\n\n")

	for i, c := range m.checks {
		label := fmt.Sprintf("%d. %s", i+1, c.Title())
		switch {
		case i < len(m.sections):
			s := m.sections[i]
			line := fmt.Sprintf("%s %s %s", s.Worst().Marker(), label, findingCount(len(s.Findings)))
			b.WriteString("  " + severityStyle(s.Worst()).Render(line))
		case i == m.current && !m.aborted:
			spinner := spinnerChars[m.frame%len(spinnerChars)]
			b.WriteString("  " + runStyle.Render(spinner+" "+label))
		default:
			b.WriteString("  " + dimStyle.Render("─ "+label))
		}
		b.WriteString("\n")
	}

	switch {
	case m.aborted:
		b.WriteString("\n" + failedStyle.Render("aborted") + "\n")
	case !m.done:
		b.WriteString("\n" + helpStyle.Render("q: abort") + "\n")
	}
	return b.String()
}

func findingCount(n int) string {
	if n == 1 {
		return "(1 finding)"
	}
	return fmt.Sprintf("(%d findings)", n)
}
