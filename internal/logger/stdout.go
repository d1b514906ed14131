package logger

import (
	"fmt"
	"io"
	"os"
)

// StdoutLogger prints plain lines, used for piped output and dry runs
type StdoutLogger struct {
	Out io.Writer
}

func (l *StdoutLogger) out() io.Writer {
	if l.Out == nil {
		return os.Stdout
	}
	return l.Out
}

func (l *StdoutLogger) Logf(format string, args ...interface{}) { fmt.Fprintf(l.out(), format, args...) }
func (l *StdoutLogger) Log(msg string)                          { fmt.Fprintln(l.out(), msg) }
