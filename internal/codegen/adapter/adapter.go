// Package adapter supplies the runtime specific pieces of the generated tracing
// file: imports, provider class, context registration and the
// auto-instrumentation block.
package adapter

import (
	"fmt"
	"strings"

	"github.com/getlawrence/otelinject/internal/domain"
)

// Kind names a runtime adapter variant
type Kind string

const (
	KindWeb  Kind = "web"
	KindNode Kind = "node"
)

// TracingAdapter renders runtime specific fragments of the tracing file
type TracingAdapter interface {
	Kind() Kind
	// Imports returns the import statements the fragments below rely on
	Imports() []string
	// ProviderClass is the tracer provider class constructed by the file
	ProviderClass() string
	// Registration registers the provider (and context manager) globally
	Registration(providerVar string) string
	// AutoInstrumentations renders the registerInstrumentations block
	AutoInstrumentations(opts domain.AutomaticTracingOptions) string
	// Dependencies lists the npm packages the rendered code imports
	Dependencies() []string
}

// Select picks the adapter for app. The platform type decides first; backends
// additionally need a node technology. ok is false when nothing matches.
func Select(app domain.ApplicationMetadata) (TracingAdapter, bool) {
	switch {
	case app.IsFrontend():
		return NewWebAdapter(), true
	case app.IsBackend() && app.UsesTechnology(domain.TechnologyNode):
		return NewNodeAdapter(), true
	default:
		return nil, false
	}
}

// toggle is one `'<module>': { enabled: <bool> }` entry
type toggle struct {
	module  string
	enabled bool
	extra   string
}

func (t toggle) render() string {
	if t.extra != "" {
		return fmt.Sprintf("'%s': { enabled: %t, %s }", t.module, t.enabled, t.extra)
	}
	return fmt.Sprintf("'%s': { enabled: %t }", t.module, t.enabled)
}

// renderRegistration wraps toggles in a registerInstrumentations call using
// the given auto-instrumentation factory.
func renderRegistration(factory string, toggles []toggle) string {
	var b strings.Builder
	b.WriteString("registerInstrumentations({\n")
	b.WriteString("  instrumentations: [\n")
	fmt.Fprintf(&b, "    %s({\n", factory)
	for _, t := range toggles {
		fmt.Fprintf(&b, "      %s,\n", t.render())
	}
	b.WriteString("    }),\n")
	b.WriteString("  ],\n")
	b.WriteString("});\n")
	return b.String()
}

// EventNamesLiteral renders event names as a TypeScript array literal
func EventNamesLiteral(events []string) string {
	quoted := make([]string, len(events))
	for i, e := range events {
		quoted[i] = "'" + e + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
