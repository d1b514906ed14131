package domain

import (
	"reflect"
	"testing"
	"time"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Shop", "shop"},
		{"My Shop App", "my-shop-app"},
		{"  orders_service  v2 ", "orders-service-v2"},
		{"Café Über", "caf-ber"},
		{"!!!", "app"},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestApplicationMetadata_Matching(t *testing.T) {
	app := ApplicationMetadata{Name: "Orders API", Type: "Backend-Service", Technology: "node-express"}
	if !app.IsBackend() || app.IsFrontend() {
		t.Errorf("platform match wrong for %q", app.Type)
	}
	if !app.UsesTechnology(TechnologyNode) {
		t.Errorf("technology %q should match node", app.Technology)
	}
	if got := app.InstanceID(); got != "orders-api-1" {
		t.Errorf("InstanceID() = %q", got)
	}
}

func TestBundleFileName_RoundTrip(t *testing.T) {
	created := time.Date(2026, 10, 17, 9, 30, 12, 345_000_000, time.UTC)
	names := []string{"Shop", "My Shop App", "orders service 2"}
	for _, n := range names {
		app := ApplicationMetadata{Name: n}
		bundle := NewInstrumentationBundle(app, created)

		name, ts, err := ParseBundleFileName(bundle.FileName)
		if err != nil {
			t.Fatalf("ParseBundleFileName(%q): %v", bundle.FileName, err)
		}
		if name != app.NormalizedName() {
			t.Errorf("decoded name %q, want %q", name, app.NormalizedName())
		}
		if !ts.Equal(created) {
			t.Errorf("decoded time %v, want %v", ts, created)
		}
	}
}

func TestBundleFileName_Format(t *testing.T) {
	created := time.Date(2026, 10, 17, 11, 30, 12, 345_000_000, time.FixedZone("CEST", 2*3600))
	want := "shop_20261017T093012345Z.bundle.js"
	if got := BundleFileName("shop", created); got != want {
		t.Errorf("BundleFileName = %q, want %q", got, want)
	}
}

func TestParseBundleFileName_Rejects(t *testing.T) {
	for _, name := range []string{
		"shop.bundle.js",
		"Shop_20261017T093012345Z.bundle.js",
		"my shop_20261017T093012345Z.bundle.js",
		"shop_20261017T093012Z.bundle.js",
		"shop_20261317T093012345Z.bundle.js",
	} {
		if _, _, err := ParseBundleFileName(name); err == nil {
			t.Errorf("ParseBundleFileName(%q) should fail", name)
		}
	}
}

func TestRequiredTelemetryTypes(t *testing.T) {
	metrics := []Metric{
		{Name: "page-load-time", RequiredTelemetry: []TelemetryType{TelemetryTracing}},
		{Name: "log-volume", RequiredTelemetry: []TelemetryType{TelemetryLogging, TelemetryTracing}},
	}
	cfg := TelemetryConfig{TelemetryTypes: []TelemetryType{TelemetryMetrics, TelemetryLogging}}

	got := RequiredTelemetryTypes(metrics, cfg)
	want := []TelemetryType{TelemetryTracing, TelemetryLogging, TelemetryMetrics}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RequiredTelemetryTypes = %v, want %v", got, want)
	}
	if RequiredTelemetryTypes(nil, TelemetryConfig{}) != nil {
		t.Errorf("expected no requirement for empty input")
	}
}

func TestExportDestination_Endpoint(t *testing.T) {
	tests := []struct {
		dest ExportDestination
		want string
	}{
		{ExportDestination{URL: "ws://localhost", Port: 8080}, "ws://localhost:8080"},
		{ExportDestination{URL: "ws://localhost:8081", Port: 9000}, "ws://localhost:8081"},
		{ExportDestination{URL: "http://collector/v1/traces", Port: 4318}, "http://collector:4318/v1/traces"},
		{ExportDestination{URL: "http://collector:4318/v1/traces"}, "http://collector:4318/v1/traces"},
		{ExportDestination{Port: 4318}, ""},
	}
	for _, tt := range tests {
		if got := tt.dest.Endpoint(); got != tt.want {
			t.Errorf("Endpoint(%+v) = %q, want %q", tt.dest, got, tt.want)
		}
	}
}

func TestTelemetryConfig_UsesProtocol(t *testing.T) {
	cfg := TelemetryConfig{ExportDestinations: []ExportDestination{
		{Type: DestinationConsole, Protocol: ProtocolWebSockets},
		{Type: DestinationRemoteCollector, Protocol: ProtocolOTLP},
	}}
	if !cfg.UsesProtocol(ProtocolOTLP) {
		t.Error("OTLP destination not detected")
	}
	if cfg.UsesProtocol(ProtocolWebSockets) {
		t.Error("console destinations never speak a collector protocol")
	}
}

func TestUserInteractionEvents_DerivedFromOptions(t *testing.T) {
	cfg := TracingInstrumentationConfig{}
	cfg.AutomaticTracingOptions.UserInteractions.Events = []string{"click"}
	if cfg.UserInteractionEvents() != nil {
		t.Error("events must be empty while user interactions are disabled")
	}
	cfg.AutomaticTracingOptions.UserInteractions.Enabled = true
	if got := cfg.UserInteractionEvents(); !reflect.DeepEqual(got, []string{"click"}) {
		t.Errorf("UserInteractionEvents = %v", got)
	}
	if got := cfg.AutomaticTracingOptions.UserInteractionEvents(); !reflect.DeepEqual(got, cfg.UserInteractionEvents()) {
		t.Errorf("options and config disagree: %v", got)
	}
}

func TestInstrumentation_Names(t *testing.T) {
	util := Instrumentation{FileName: "sessionDataUtils.ts"}
	main := Instrumentation{FileName: "tracing.ts"}
	if !util.IsUtility() || main.IsUtility() {
		t.Error("utility detection wrong")
	}
	if main.ModuleName() != "tracing" {
		t.Errorf("ModuleName = %q", main.ModuleName())
	}
}
