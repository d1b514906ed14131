package commander

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Mock implements Commander for tests
type Mock struct {
	Commands  map[string]bool   // commands LookPath finds
	Responses map[string]string // command line or prefix -> output
	Errors    map[string]error  // command line or prefix -> error
	// OnRun, when set, runs for every call before the response lookup. Tests
	// use it to emulate side effects such as files written by a bundler.
	OnRun func(name string, args []string, dir string)

	mu            sync.Mutex
	RecordedCalls []RecordedCall
}

// RecordedCall captures a command invocation
type RecordedCall struct {
	Name string
	Args []string
	Dir  string
}

// Line renders the call as a single command line
func (c RecordedCall) Line() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

func NewMock() *Mock {
	return &Mock{
		Commands:  make(map[string]bool),
		Responses: make(map[string]string),
		Errors:    make(map[string]error),
	}
}

func (m *Mock) LookPath(name string) (string, error) {
	if m.Commands[name] {
		return "/usr/bin/" + name, nil
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}

// Run records the call and answers with the error or response registered for
// the longest matching prefix of the command line. Errors win over responses.
func (m *Mock) Run(ctx context.Context, name string, args []string, dir string) (string, error) {
	call := RecordedCall{Name: name, Args: append([]string(nil), args...), Dir: dir}
	m.mu.Lock()
	m.RecordedCalls = append(m.RecordedCalls, call)
	m.mu.Unlock()

	if m.OnRun != nil {
		m.OnRun(name, args, dir)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	line := call.Line()
	if key, ok := longestPrefix(line, m.Errors); ok {
		return m.Responses[key], m.Errors[key]
	}
	if key, ok := longestPrefix(line, m.Responses); ok {
		return m.Responses[key], nil
	}
	return "", nil
}

// Calls returns a copy of the recorded calls
func (m *Mock) Calls() []RecordedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RecordedCall(nil), m.RecordedCalls...)
}

func longestPrefix[V any](line string, patterns map[string]V) (string, bool) {
	best, found := "", false
	for pattern := range patterns {
		if strings.HasPrefix(line, pattern) && (!found || len(pattern) > len(best)) {
			best, found = pattern, true
		}
	}
	return best, found
}
