package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// UILogger prints to a terminal, coloring "Warning:" and "Error:" lines
type UILogger struct {
	mu  sync.Mutex
	out io.Writer
}

func NewUILogger() *UILogger {
	return &UILogger{out: os.Stdout}
}

// NewUILoggerTo writes to w instead of stdout
func NewUILoggerTo(w io.Writer) *UILogger {
	return &UILogger{out: w}
}

// IsInteractive reports whether stdout is attached to a terminal.
// Used to decide when to use interactive UI elements like spinners.
func IsInteractive() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	// If it's a pipe or regular file, it's not interactive
	if (fi.Mode() & os.ModeCharDevice) == 0 {
		return false
	}
	return true
}

func (l *UILogger) Logf(format string, args ...interface{}) {
	l.write(fmt.Sprintf(format, args...))
}

func (l *UILogger) Log(msg string) {
	l.write(msg + "\n")
}

func (l *UILogger) write(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	line := strings.TrimSuffix(text, "\n")
	switch {
	case strings.HasPrefix(line, "Error:"):
		line = errorStyle.Render(line)
	case strings.HasPrefix(line, "Warning:"):
		line = warnStyle.Render(line)
	}
	fmt.Fprint(l.out, line)
	if strings.HasSuffix(text, "\n") {
		fmt.Fprint(l.out, "\n")
	}
}
