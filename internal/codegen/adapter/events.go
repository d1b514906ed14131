package adapter

import (
	"sort"
	"sync"
)

// userInteractionEvents is built on first use and never mutated afterwards.
var userInteractionEvents = sync.OnceValue(func() map[string]struct{} {
	names := []string{
		"auxclick", "blur", "change", "click", "contextmenu", "copy", "cut",
		"dblclick", "drag", "dragend", "dragstart", "drop", "focus", "input",
		"keydown", "keypress", "keyup", "mousedown", "mouseup", "paste",
		"pointerdown", "pointerup", "reset", "scroll", "select", "submit",
		"touchend", "touchstart", "wheel",
	}
	table := make(map[string]struct{}, len(names))
	for _, n := range names {
		table[n] = struct{}{}
	}
	return table
})

// IsUserInteractionEvent reports whether name is a DOM event the user
// interaction instrumentation can listen to.
func IsUserInteractionEvent(name string) bool {
	_, ok := userInteractionEvents()[name]
	return ok
}

// UserInteractionEvents lists the supported DOM event names in sorted order
func UserInteractionEvents() []string {
	table := userInteractionEvents()
	out := make([]string, 0, len(table))
	for n := range table {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
