package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/getlawrence/otelinject/internal/codegen/injector"
	"github.com/getlawrence/otelinject/internal/detector"
	"github.com/getlawrence/otelinject/internal/domain"
	"github.com/getlawrence/otelinject/internal/manager"
	"github.com/getlawrence/otelinject/internal/preflight"
)

func TestSpinnerModel(t *testing.T) {
	canceled := false
	m := newSpinnerModel("Generating bundle", func() { canceled = true })

	if _, cmd := m.Update(logMsg("Installing @opentelemetry/api\n")); cmd != nil {
		t.Errorf("plain log lines should not print")
	}
	if !strings.Contains(m.View(), "Installing @opentelemetry/api") {
		t.Errorf("status not shown: %q", m.View())
	}
	if _, cmd := m.Update(logMsg("Warning: dependency installation failed\n")); cmd == nil {
		t.Errorf("warnings should be printed above the spinner")
	}
	if strings.Contains(m.View(), "Warning") {
		t.Errorf("warnings must not replace the status")
	}

	_, cmd := m.Update(actionDoneMsg{})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg")
	}
	if !strings.Contains(m.View(), "✓ Generating bundle") {
		t.Errorf("unexpected final view %q", m.View())
	}
	if canceled {
		t.Errorf("completion must not cancel")
	}
}

func TestSpinnerModel_FailureAndCancel(t *testing.T) {
	m := newSpinnerModel("Deploying", nil)
	m.Update(actionDoneMsg{err: errors.New("webpack exploded")})
	if !strings.Contains(m.View(), "✗ Deploying (webpack exploded)") {
		t.Errorf("unexpected view %q", m.View())
	}

	canceled := false
	m = newSpinnerModel("Deploying", func() { canceled = true })
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !canceled || !errors.Is(m.err, ErrCanceled) {
		t.Errorf("ctrl+c should cancel: canceled=%v err=%v", canceled, m.err)
	}
}

func TestRenderDetection(t *testing.T) {
	out := RenderDetection(&detector.Detection{
		Application:  domain.ApplicationMetadata{Name: "orders", Type: "backend", Technology: "node", CodebasePath: "/srv/orders"},
		Languages:    map[string]int{"JavaScript": 12, "Python": 1},
		Integrations: []string{"express", "http"},
		Reason:       "package.json without a frontend framework",
	})
	for _, want := range []string{"/srv/orders", "Technology: node", "JavaScript (12), Python (1)", "• express", "can be instrumented"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	out = RenderDetection(&detector.Detection{Application: domain.ApplicationMetadata{Technology: "python"}})
	if !strings.Contains(out, "Platform: unknown") || !strings.Contains(out, "No tracing adapter") {
		t.Errorf("unsupported detection rendered as:\n%s", out)
	}
}

func TestRenderBundleAndInjection(t *testing.T) {
	bundle := &domain.InstrumentationBundle{
		FileName:  "shop_20261017T093012345Z.bundle.js",
		CreatedAt: time.Date(2026, 10, 17, 9, 30, 12, 0, time.UTC),
		Files:     []domain.Instrumentation{{FileName: "tracing.ts", Path: "/a/src/main/tracing.ts"}},
	}
	out := RenderBundle(bundle)
	if !strings.Contains(out, "2026-10-17 09:30:12 UTC") || !strings.Contains(out, "/a/src/main/tracing.ts") {
		t.Errorf("unexpected bundle output:\n%s", out)
	}
	if !strings.Contains(RenderBundle(&domain.InstrumentationBundle{FileName: "x"}), "No instrumentation files") {
		t.Errorf("empty bundle not flagged")
	}

	res := &injector.Result{
		Target:  "react",
		DryRun:  true,
		Patched: []byte("<body></body>"),
		Errors:  map[injector.State]error{injector.StatePreInjecting: errors.New("bundle missing")},
	}
	out = RenderInjection(res)
	for _, want := range []string{"[dry run]", "pre-injecting: bundle missing", "injecting", "Planned content:\n<body></body>\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderChecksAndCatalog(t *testing.T) {
	out := RenderChecks([]preflight.Result{
		{Destination: domain.ExportDestination{Type: domain.DestinationConsole}, Status: preflight.StatusSkipped, Detail: "console destination"},
		{Destination: domain.ExportDestination{Type: domain.DestinationLocalCollector, Protocol: domain.ProtocolOTLP}, Endpoint: "http://localhost:4318", Status: preflight.StatusUnreachable, Detail: "connection refused"},
	})
	if !strings.Contains(out, "LOCAL_COLLECTOR OTLP http://localhost:4318 (connection refused)") {
		t.Errorf("unexpected checks output:\n%s", out)
	}
	if !strings.Contains(RenderChecks(nil), "No export destinations") {
		t.Errorf("empty checks not reported")
	}

	out = RenderCatalog(manager.Catalog())
	if !strings.Contains(out, "• cpu-usage [TRACING, METRICS]") {
		t.Errorf("unexpected catalog output:\n%s", out)
	}
}
