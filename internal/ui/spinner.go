package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/getlawrence/otelinject/internal/logger"
)

// ErrCanceled is returned when the user interrupts a spinner
var ErrCanceled = errors.New("operation canceled")

// Action is the work shown under a spinner. Lines logged through l replace
// the spinner status; warnings and errors are kept above it.
type Action func(ctx context.Context, l logger.Logger) error

// RunSpinner runs a minimal Bubble Tea spinner while executing action.
// The UI exits when the action completes and returns the action's error.
func RunSpinner(ctx context.Context, title string, action Action) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newSpinnerModel(title, cancel)
	p := tea.NewProgram(m)
	go func() {
		err := action(ctx, &programLogger{program: p})
		p.Send(actionDoneMsg{err: err})
	}()
	if _, err := p.Run(); err != nil {
		return err
	}
	return m.err
}

type actionDoneMsg struct{ err error }

type logMsg string

type spinnerModel struct {
	title  string
	status string
	cancel context.CancelFunc
	spin   spinner.Model
	done   bool
	err    error
	style  lipgloss.Style
	faint  lipgloss.Style
}

func newSpinnerModel(title string, cancel context.CancelFunc) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &spinnerModel{
		title:  title,
		cancel: cancel,
		spin:   s,
		style:  lipgloss.NewStyle().Padding(0, 1),
		faint:  lipgloss.NewStyle().Faint(true),
	}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spin.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			m.done = true
			m.err = ErrCanceled
			return m, tea.Quit
		}
	case logMsg:
		line := strings.TrimSpace(strings.ReplaceAll(string(msg), "\n", " "))
		if strings.HasPrefix(line, "Warning:") || strings.HasPrefix(line, "Error:") {
			return m, tea.Println(line)
		}
		if line != "" {
			m.status = line
		}
		return m, nil
	case actionDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return m.style.Render("✗ " + m.title + " (" + m.err.Error() + ")\n")
		}
		return m.style.Render("✓ " + m.title + "\n")
	}
	view := m.spin.View() + " " + m.title
	if m.status != "" {
		view += " " + m.faint.Render(m.status)
	}
	return m.style.Render(view)
}

// programLogger forwards log lines to a running spinner program
type programLogger struct {
	program *tea.Program
}

func (l *programLogger) Logf(format string, args ...interface{}) {
	l.program.Send(logMsg(fmt.Sprintf(format, args...)))
}

func (l *programLogger) Log(msg string) {
	l.program.Send(logMsg(msg))
}
