// Package logger carries the line-oriented logger every component reports
// progress and best-effort failures through.
package logger

import (
	"fmt"
	"strings"
	"sync"
)

type Logger interface {
	Logf(format string, args ...interface{})
	Log(msg string)
}

// Nop discards everything
type Nop struct{}

func (Nop) Logf(format string, args ...interface{}) {}
func (Nop) Log(msg string)                          {}

// Memory keeps every logged line. Tests assert on it.
type Memory struct {
	mu    sync.Mutex
	lines []string
}

func (m *Memory) Logf(format string, args ...interface{}) {
	m.Log(fmt.Sprintf(format, args...))
}

func (m *Memory) Log(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, strings.TrimSuffix(msg, "\n"))
}

// Lines returns a copy of the logged lines
func (m *Memory) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.lines...)
}

// Contains reports whether any line contains substr
func (m *Memory) Contains(substr string) bool {
	for _, l := range m.Lines() {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}
