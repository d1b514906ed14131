package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/getlawrence/otelinject/internal/codegen/injector"
	"github.com/getlawrence/otelinject/internal/detector"
	"github.com/getlawrence/otelinject/internal/domain"
	"github.com/getlawrence/otelinject/internal/manager"
	"github.com/getlawrence/otelinject/internal/preflight"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func header(b *strings.Builder, title string) {
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", lipgloss.Width(title)))
	b.WriteString("\n\n")
}

// RenderDetection formats what the detector found in a codebase
func RenderDetection(d *detector.Detection) string {
	if d == nil {
		return ""
	}
	var b strings.Builder
	header(&b, "🔎 Codebase Detection")

	app := d.Application
	fmt.Fprintf(&b, "📂 Codebase: %s\n", app.CodebasePath)
	fmt.Fprintf(&b, "🏷️  Name: %s\n", app.Name)
	fmt.Fprintf(&b, "🧭 Platform: %s\n", valueOr(app.Type, "unknown"))
	fmt.Fprintf(&b, "🧰 Technology: %s\n", valueOr(app.Technology, "unknown"))
	fmt.Fprintf(&b, "💬 Reason: %s\n", d.Reason)

	if len(d.Languages) > 0 {
		langs := make([]string, 0, len(d.Languages))
		for lang := range d.Languages {
			langs = append(langs, lang)
		}
		sort.Slice(langs, func(i, j int) bool {
			if d.Languages[langs[i]] == d.Languages[langs[j]] {
				return langs[i] < langs[j]
			}
			return d.Languages[langs[i]] > d.Languages[langs[j]]
		})
		parts := make([]string, 0, len(langs))
		for _, lang := range langs {
			parts = append(parts, fmt.Sprintf("%s (%d)", lang, d.Languages[lang]))
		}
		fmt.Fprintf(&b, "🗣️  Languages: %s\n", strings.Join(parts, ", "))
	}

	if len(d.Integrations) > 0 {
		b.WriteString("\n🔧 Suggested integrations:\n")
		for _, key := range d.Integrations {
			fmt.Fprintf(&b, "  • %s\n", key)
		}
	}

	b.WriteString("\n")
	if d.Supported() {
		b.WriteString(okStyle.Render("✅ This application can be instrumented."))
	} else {
		b.WriteString(warnStyle.Render("⚠️  No tracing adapter supports this application."))
	}
	b.WriteString("\n")
	return b.String()
}

// RenderBundle formats a generated bundle and its source files
func RenderBundle(bundle *domain.InstrumentationBundle) string {
	if bundle == nil {
		return ""
	}
	var b strings.Builder
	header(&b, "📦 Instrumentation Bundle")
	fmt.Fprintf(&b, "📄 File: %s\n", bundle.FileName)
	if bundle.Path != "" {
		fmt.Fprintf(&b, "📍 Path: %s\n", bundle.Path)
	}
	fmt.Fprintf(&b, "🕒 Created: %s\n", bundle.CreatedAt.UTC().Format("2006-01-02 15:04:05 MST"))
	if len(bundle.Files) == 0 {
		b.WriteString(warnStyle.Render("⚠️  No instrumentation files were generated."))
		b.WriteString("\n")
		return b.String()
	}
	fmt.Fprintf(&b, "\n🧩 Sources (%d):\n", len(bundle.Files))
	for _, f := range bundle.Files {
		fmt.Fprintf(&b, "  • %s\n", valueOr(f.Path, f.FileName))
	}
	return b.String()
}

// RenderInjection formats the phases of one injector run
func RenderInjection(res *injector.Result) string {
	if res == nil {
		return ""
	}
	var b strings.Builder
	title := "💉 Injection (" + res.Target + ")"
	if res.DryRun {
		title += " [dry run]"
	}
	header(&b, title)
	fmt.Fprintf(&b, "📦 Bundle copy: %s\n", res.BundlePath)
	fmt.Fprintf(&b, "📝 Entry file: %s\n", res.EntryPath)

	for _, state := range []injector.State{injector.StatePreInjecting, injector.StateInjecting, injector.StatePostInjecting} {
		if err := res.Errors[state]; err != nil {
			fmt.Fprintf(&b, "  %s %s: %v\n", failStyle.Render("✗"), state, err)
		} else {
			fmt.Fprintf(&b, "  %s %s\n", okStyle.Render("✓"), state)
		}
	}
	if res.DryRun && len(res.Patched) > 0 {
		b.WriteString("\nPlanned content:\n")
		b.Write(res.Patched)
		if !strings.HasSuffix(string(res.Patched), "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RenderChecks formats the preflight probes
func RenderChecks(results []preflight.Result) string {
	var b strings.Builder
	header(&b, "📡 Export Destinations")
	if len(results) == 0 {
		b.WriteString("No export destinations configured.\n")
		return b.String()
	}
	for _, r := range results {
		var mark string
		switch r.Status {
		case preflight.StatusReachable:
			mark = okStyle.Render("✓")
		case preflight.StatusUnreachable:
			mark = failStyle.Render("✗")
		default:
			mark = warnStyle.Render("-")
		}
		fmt.Fprintf(&b, "  %s %s %s", mark, r.Destination.Type, valueOr(string(r.Destination.Protocol), "-"))
		if r.Endpoint != "" {
			b.WriteString(" " + r.Endpoint)
		}
		if r.Detail != "" {
			fmt.Fprintf(&b, " (%s)", r.Detail)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderCatalog lists the built-in metrics
func RenderCatalog(defs []manager.MetricDefinition) string {
	var b strings.Builder
	header(&b, "📈 Built-in Metrics")
	for _, def := range defs {
		types := make([]string, 0, len(def.Telemetry))
		for _, t := range def.Telemetry {
			types = append(types, string(t))
		}
		fmt.Fprintf(&b, "  • %s [%s]\n    %s\n", def.Name, strings.Join(types, ", "), def.Description)
	}
	return b.String()
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
