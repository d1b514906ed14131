package strategy

import (
	"strings"
	"testing"

	"github.com/getlawrence/otelinject/internal/codegen/adapter"
	"github.com/getlawrence/otelinject/internal/domain"
	"github.com/getlawrence/otelinject/internal/templates"
)

const testBundle = "shop_20261017T093012345Z.bundle.js"

func reactApp() domain.ApplicationMetadata {
	return domain.ApplicationMetadata{Name: "Shop", Type: domain.PlatformFrontend, Technology: domain.TechnologyReact}
}

func nodeApp() domain.ApplicationMetadata {
	return domain.ApplicationMetadata{Name: "Orders API", Type: domain.PlatformBackend, Technology: domain.TechnologyNode}
}

func allDecorators() domain.AutomaticTracingOptions {
	return domain.AutomaticTracingOptions{AppMetadata: true, ResourceData: true, SessionData: true, UserIDData: true}
}

func TestExporterVariableNames(t *testing.T) {
	dests := []domain.ExportDestination{
		{Type: domain.DestinationConsole},
		{Type: domain.DestinationLocalCollector, Protocol: domain.ProtocolOTLP},
		{Type: domain.DestinationRemoteCollector, Protocol: domain.ProtocolWebSockets},
		{Type: domain.DestinationLocalCollector, Protocol: domain.ProtocolOTLP},
		{Type: domain.DestinationLocalCollector, Protocol: domain.ProtocolWebSockets},
	}
	got := ExporterVariableNames(dests)
	want := []string{
		"consoleExporter",
		"localOTLPCollectorExporter",
		"remoteWebSocketsCollectorExporter",
		"localOTLPCollectorExporter2",
		"localWebSocketsCollectorExporter",
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("names = %v, want %v", got, want)
	}
}

func TestBaseProcessorClass(t *testing.T) {
	cases := map[domain.ExportDestination]string{
		{Type: domain.DestinationConsole}:                                             SimpleSpanProcessor,
		{Type: domain.DestinationLocalCollector, Protocol: domain.ProtocolOTLP}:       BatchSpanProcessor,
		{Type: domain.DestinationRemoteCollector, Protocol: domain.ProtocolWebSockets}: SimpleSpanProcessor,
	}
	for dest, want := range cases {
		if got := BaseProcessorClass(dest); got != want {
			t.Errorf("BaseProcessorClass(%+v) = %s, want %s", dest, got, want)
		}
	}
}

func TestComposeProcessorChain_Order(t *testing.T) {
	chain := ComposeProcessorChain("new SimpleSpanProcessor(consoleExporter)", ProcessorDecorators(reactApp(), allDecorators(), testBundle))
	order := []string{
		"new UserIdentitySpanProcessor(",
		"new SessionDataSpanProcessor(",
		"new ResourceSpanProcessor(",
		"new AppMetadataSpanProcessor(",
		"new SimpleSpanProcessor(consoleExporter)",
	}
	last := -1
	for _, marker := range order {
		idx := strings.Index(chain, marker)
		if idx <= last {
			t.Fatalf("%q out of order in chain:\n%s", marker, chain)
		}
		last = idx
	}
	if !strings.Contains(chain, "bundleFileName: '"+testBundle+"'") {
		t.Errorf("app metadata record missing bundle name:\n%s", chain)
	}
}

func TestComposeProcessorChain_OrderIndependentOfFlags(t *testing.T) {
	opts := domain.AutomaticTracingOptions{AppMetadata: true, UserIDData: true}
	chain := ComposeProcessorChain("base", ProcessorDecorators(reactApp(), opts, testBundle))
	outer := strings.Index(chain, "UserIdentitySpanProcessor")
	inner := strings.Index(chain, "AppMetadataSpanProcessor")
	if outer < 0 || inner < 0 || outer > inner {
		t.Fatalf("user identity must wrap app metadata:\n%s", chain)
	}
	if strings.Contains(chain, "SessionDataSpanProcessor") || strings.Contains(chain, "ResourceSpanProcessor") {
		t.Errorf("disabled decorators rendered:\n%s", chain)
	}
}

func TestComposeProcessorChain_NoDecorators(t *testing.T) {
	if got := ComposeProcessorChain("base", nil); got != "base" {
		t.Fatalf("chain = %q, want base", got)
	}
}

func TestJSString(t *testing.T) {
	if got := jsString(`it's a\b`); got != `'it\'s a\\b'` {
		t.Fatalf("jsString = %s", got)
	}
}

func TestTracingStrategy_OneProcessorPerDestination(t *testing.T) {
	cfg := domain.TracingInstrumentationConfig{
		TelemetryConfig: domain.TelemetryConfig{
			TelemetryTypes: []domain.TelemetryType{domain.TelemetryTracing},
			ExportDestinations: []domain.ExportDestination{
				{Type: domain.DestinationConsole},
				{Type: domain.DestinationLocalCollector, Protocol: domain.ProtocolOTLP, URL: "http://localhost:4318/v1/traces"},
				{Type: domain.DestinationRemoteCollector, Protocol: domain.ProtocolOTLP, URL: "https://otel.example.com/v1/traces"},
			},
		},
	}
	s := NewTracingStrategy(nodeApp(), cfg, adapter.NewNodeAdapter(), "orders-api_20261017T093012345Z.bundle.js")
	files, err := s.Generate()
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(files) != 1 || files[0].FileName != TracingFileName {
		t.Fatalf("unexpected files: %+v", files)
	}
	out := files[0].Content
	if n := strings.Count(out, "tracerProvider.addSpanProcessor("); n != 3 {
		t.Fatalf("addSpanProcessor count = %d, want 3:\n%s", n, out)
	}
	for _, w := range []string{
		"const serviceName = 'orders-api';",
		"const serviceInstanceId = 'orders-api-1';",
		"const tracerProvider = new NodeTracerProvider({",
		"const consoleExporter = new ConsoleSpanExporter();",
		"url: 'http://localhost:4318/v1/traces',",
		"const remoteOTLPCollectorExporter = new OTLPTraceExporter({",
		"new BatchSpanProcessor(localOTLPCollectorExporter)",
		"import { BatchSpanProcessor, ConsoleSpanExporter, SimpleSpanProcessor } from '@opentelemetry/sdk-trace-base';",
		"import { OTLPTraceExporter } from '@opentelemetry/exporter-trace-otlp-http';",
		"tracerProvider.register();",
		"getNodeAutoInstrumentations({",
	} {
		if !strings.Contains(out, w) {
			t.Errorf("expected %q in:\n%s", w, out)
		}
	}
	if strings.Contains(out, "exporterUtils") {
		t.Errorf("websocket exporter imported without websocket destination")
	}
}

func TestTracingStrategy_ReactWebSockets(t *testing.T) {
	cfg := domain.TracingInstrumentationConfig{
		TelemetryConfig: domain.TelemetryConfig{
			TelemetryTypes: []domain.TelemetryType{domain.TelemetryTracing},
			ExportDestinations: []domain.ExportDestination{
				{Type: domain.DestinationLocalCollector, Protocol: domain.ProtocolWebSockets, URL: "ws://localhost", Port: 8080},
			},
		},
		AutomaticTracingOptions: domain.AutomaticTracingOptions{
			DocumentLoad:     true,
			UserInteractions: domain.UserInteractionOptions{Enabled: true, Events: []string{"click"}},
			AppMetadata:      true,
			SessionData:      true,
		},
	}
	s := NewTracingStrategy(reactApp(), cfg, adapter.NewWebAdapter(), testBundle)
	files, err := s.Generate()
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	out := files[0].Content
	for _, w := range []string{
		"import { WebSocketSpanExporter } from '../utils/exporterUtils';",
		"import { AppMetadataSpanProcessor } from '../utils/appMetadataUtils';",
		"import { SessionDataSpanProcessor } from '../utils/sessionDataUtils';",
		"const localWebSocketsCollectorExporter = new WebSocketSpanExporter('ws://localhost:8080');",
		"new SimpleSpanProcessor(localWebSocketsCollectorExporter)",
		"contextManager: new ZoneContextManager(),",
		"eventNames: ['click']",
	} {
		if !strings.Contains(out, w) {
			t.Errorf("expected %q in:\n%s", w, out)
		}
	}
	if strings.Contains(out, "OTLPTraceExporter") {
		t.Errorf("OTLP exporter imported without OTLP destination")
	}
	if strings.Count(out, "tracerProvider.addSpanProcessor(") != 1 {
		t.Errorf("expected one processor:\n%s", out)
	}
}

func TestTracingStrategy_NoAdapter(t *testing.T) {
	s := NewTracingStrategy(reactApp(), domain.TracingInstrumentationConfig{}, nil, testBundle)
	if _, err := s.Generate(); err == nil {
		t.Fatalf("expected error without adapter")
	}
}

func TestAuxiliary_Order(t *testing.T) {
	engine, err := templates.NewTemplateEngine()
	if err != nil {
		t.Fatalf("NewTemplateEngine error: %v", err)
	}
	cfg := domain.TracingInstrumentationConfig{
		TelemetryConfig: domain.TelemetryConfig{
			ExportDestinations: []domain.ExportDestination{{Type: domain.DestinationLocalCollector, Protocol: domain.ProtocolWebSockets}},
		},
		AutomaticTracingOptions: allDecorators(),
	}
	strategies := Auxiliary(engine, nodeApp(), cfg)
	want := []Kind{KindAppMetadata, KindSessionData, KindUserIdentity, KindResource, KindWebSocketExport}
	if len(strategies) != len(want) {
		t.Fatalf("got %d strategies, want %d", len(strategies), len(want))
	}
	for i, s := range strategies {
		if s.Kind() != want[i] {
			t.Errorf("strategy %d = %s, want %s", i, s.Kind(), want[i])
		}
		files, err := s.Generate()
		if err != nil {
			t.Fatalf("%s Generate error: %v", s.Kind(), err)
		}
		if len(files) != 1 || !files[0].IsUtility() {
			t.Errorf("%s produced %+v, want one utility file", s.Kind(), files)
		}
	}
	last := strategies[len(strategies)-1]
	if !strings.Contains(strings.Join(last.Dependencies(), ","), "ws@") {
		t.Errorf("node websocket exporter must depend on ws: %v", last.Dependencies())
	}
}

func TestAuxiliary_NoneEnabled(t *testing.T) {
	engine, err := templates.NewTemplateEngine()
	if err != nil {
		t.Fatalf("NewTemplateEngine error: %v", err)
	}
	cfg := domain.TracingInstrumentationConfig{
		TelemetryConfig: domain.TelemetryConfig{ExportDestinations: []domain.ExportDestination{{Type: domain.DestinationConsole}}},
	}
	if got := Auxiliary(engine, reactApp(), cfg); len(got) != 0 {
		t.Fatalf("expected no auxiliary strategies, got %d", len(got))
	}
}
