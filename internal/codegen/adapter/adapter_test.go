package adapter

import (
	"strings"
	"testing"

	"github.com/getlawrence/otelinject/internal/domain"
)

func TestSelect(t *testing.T) {
	cases := []struct {
		name     string
		app      domain.ApplicationMetadata
		wantKind Kind
		wantOK   bool
	}{
		{"react frontend", domain.ApplicationMetadata{Type: "frontend", Technology: "react"}, KindWeb, true},
		{"angular frontend", domain.ApplicationMetadata{Type: "Frontend", Technology: "angular"}, KindWeb, true},
		{"node backend", domain.ApplicationMetadata{Type: "backend", Technology: "node"}, KindNode, true},
		{"node express backend", domain.ApplicationMetadata{Type: "backend-api", Technology: "node-express"}, KindNode, true},
		{"python backend", domain.ApplicationMetadata{Type: "backend", Technology: "django"}, "", false},
		{"unknown platform", domain.ApplicationMetadata{Type: "mobile", Technology: "node"}, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Select(tc.app)
			if ok != tc.wantOK {
				t.Fatalf("Select ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				if got != nil {
					t.Fatalf("expected nil adapter, got %T", got)
				}
				return
			}
			if got.Kind() != tc.wantKind {
				t.Fatalf("Select kind = %s, want %s", got.Kind(), tc.wantKind)
			}
		})
	}
}

func TestWebAdapter_AutoInstrumentations(t *testing.T) {
	opts := domain.AutomaticTracingOptions{
		DocumentLoad: true,
		Fetch:        false,
		AJAXRequests: true,
		UserInteractions: domain.UserInteractionOptions{
			Enabled: true,
			Events:  []string{"click", "submit"},
		},
	}

	out := NewWebAdapter().AutoInstrumentations(opts)

	expected := []string{
		"getWebAutoInstrumentations({",
		"'@opentelemetry/instrumentation-document-load': { enabled: true }",
		"'@opentelemetry/instrumentation-fetch': { enabled: false }",
		"'@opentelemetry/instrumentation-xml-http-request': { enabled: true }",
		"'@opentelemetry/instrumentation-user-interaction': { enabled: true, eventNames: ['click', 'submit'] }",
	}
	for _, want := range expected {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q; got:\n%s", want, out)
		}
	}
}

func TestWebAdapter_UserInteractionDisabledOmitsEvents(t *testing.T) {
	opts := domain.AutomaticTracingOptions{
		UserInteractions: domain.UserInteractionOptions{Enabled: false, Events: []string{"click"}},
	}
	out := NewWebAdapter().AutoInstrumentations(opts)
	if strings.Contains(out, "eventNames") {
		t.Fatalf("disabled user interaction must not render event names:\n%s", out)
	}
}

func TestWebAdapter_EventsFollowDerivedList(t *testing.T) {
	opts := domain.AutomaticTracingOptions{
		UserInteractions: domain.UserInteractionOptions{Enabled: true, Events: []string{"dblclick", "keydown"}},
	}
	out := NewWebAdapter().AutoInstrumentations(opts)
	want := "eventNames: " + EventNamesLiteral(opts.UserInteractionEvents())
	if !strings.Contains(out, want) {
		t.Fatalf("expected %q in:\n%s", want, out)
	}

	opts.UserInteractions.Events = nil
	if out := NewWebAdapter().AutoInstrumentations(opts); strings.Contains(out, "eventNames") {
		t.Fatalf("no events configured, no eventNames expected:\n%s", out)
	}
}

func TestNodeAdapter_OnlyEnabledIntegrations(t *testing.T) {
	opts := domain.AutomaticTracingOptions{
		Integrations: map[string]bool{"http": true, "express": true, "redis": false},
	}
	out := NewNodeAdapter().AutoInstrumentations(opts)

	if got := strings.Count(out, "enabled: true"); got != 2 {
		t.Fatalf("expected 2 enabled entries, got %d:\n%s", got, out)
	}
	if got := strings.Count(out, "enabled: false"); got != len(NodeIntegrations())-2 {
		t.Fatalf("expected %d disabled entries, got %d", len(NodeIntegrations())-2, got)
	}
	for _, want := range []string{
		"'@opentelemetry/instrumentation-http': { enabled: true }",
		"'@opentelemetry/instrumentation-express': { enabled: true }",
		"'@opentelemetry/instrumentation-socket.io': { enabled: false }",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestLookupIntegration(t *testing.T) {
	in, ok := LookupIntegration("socket-io")
	if !ok || in.Module != "@opentelemetry/instrumentation-socket.io" {
		t.Fatalf("unexpected lookup result: %+v %v", in, ok)
	}
	if _, ok := LookupIntegration("does-not-exist"); ok {
		t.Fatalf("expected unknown key to miss")
	}
}

func TestUserInteractionEvents(t *testing.T) {
	if !IsUserInteractionEvent("click") || !IsUserInteractionEvent("submit") {
		t.Fatalf("click and submit must be supported")
	}
	if IsUserInteractionEvent("load") {
		t.Fatalf("load is not a user interaction")
	}
	events := UserInteractionEvents()
	for i := 1; i < len(events); i++ {
		if events[i-1] >= events[i] {
			t.Fatalf("events not sorted: %v", events)
		}
	}
}
