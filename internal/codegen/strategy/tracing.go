package strategy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getlawrence/otelinject/internal/codegen/adapter"
	"github.com/getlawrence/otelinject/internal/domain"
)

// TracingFileName is the main file wiring the tracer provider
const TracingFileName = "tracing.ts"

const providerVar = "tracerProvider"

// TracingStrategy generates main/tracing.ts. It runs last so the bundle file
// name embedded in the app metadata record is already known.
type TracingStrategy struct {
	app            domain.ApplicationMetadata
	config         domain.TracingInstrumentationConfig
	adapter        adapter.TracingAdapter
	bundleFileName string
}

// NewTracingStrategy creates the tracing strategy for app using the runtime adapter
func NewTracingStrategy(app domain.ApplicationMetadata, cfg domain.TracingInstrumentationConfig, a adapter.TracingAdapter, bundleFileName string) *TracingStrategy {
	return &TracingStrategy{app: app, config: cfg, adapter: a, bundleFileName: bundleFileName}
}

func (s *TracingStrategy) Kind() Kind { return KindTracing }

func (s *TracingStrategy) Generate() ([]domain.Instrumentation, error) {
	if s.adapter == nil {
		return nil, fmt.Errorf("no tracing adapter for %s/%s", s.app.Type, s.app.Technology)
	}
	return []domain.Instrumentation{{FileName: TracingFileName, Content: s.render()}}, nil
}

func (s *TracingStrategy) Dependencies() []string {
	var deps []string
	if s.adapter != nil {
		deps = append(deps, s.adapter.Dependencies()...)
	}
	if s.config.UsesProtocol(domain.ProtocolOTLP) {
		deps = append(deps, depOTLPHTTP)
	}
	return deps
}

func (s *TracingStrategy) render() string {
	dests := s.config.ExportDestinations
	names := ExporterVariableNames(dests)
	decorators := ProcessorDecorators(s.app, s.config.AutomaticTracingOptions, s.bundleFileName)

	var b strings.Builder
	for _, imp := range s.imports(decorators) {
		b.WriteString(imp + "\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "const serviceName = %s;\n", jsString(s.app.NormalizedName()))
	fmt.Fprintf(&b, "const serviceInstanceId = %s;\n", jsString(s.app.InstanceID()))

	b.WriteString("\n")
	fmt.Fprintf(&b, "const %s = new %s({\n", providerVar, s.adapter.ProviderClass())
	b.WriteString("  resource: new Resource({\n")
	b.WriteString("    [SemanticResourceAttributes.SERVICE_NAME]: serviceName,\n")
	b.WriteString("    [SemanticResourceAttributes.SERVICE_INSTANCE_ID]: serviceInstanceId,\n")
	b.WriteString("  }),\n")
	b.WriteString("});\n")

	if len(dests) > 0 {
		b.WriteString("\n")
		for i, dest := range dests {
			b.WriteString(exporterDeclaration(dest, names[i]))
		}
		b.WriteString("\n")
		for i, dest := range dests {
			chain := ComposeProcessorChain(BaseProcessor(dest, names[i]), decorators)
			fmt.Fprintf(&b, "%s.addSpanProcessor(\n%s\n);\n", providerVar, indent(chain+","))
		}
	}

	b.WriteString("\n")
	b.WriteString(s.adapter.Registration(providerVar))
	b.WriteString("\n")
	b.WriteString(s.adapter.AutoInstrumentations(s.config.AutomaticTracingOptions))
	return b.String()
}

// imports collects every import statement the tracing file needs
func (s *TracingStrategy) imports(decorators []Decorator) []string {
	imports := append([]string{}, s.adapter.Imports()...)
	imports = append(imports,
		"import { Resource } from '@opentelemetry/resources';",
		"import { SemanticResourceAttributes } from '@opentelemetry/semantic-conventions';",
	)

	base := make(map[string]bool)
	var otlp, websocket bool
	for _, dest := range s.config.ExportDestinations {
		base[BaseProcessorClass(dest)] = true
		switch {
		case dest.IsConsole():
			base[ConsoleExporter] = true
		case dest.Protocol == domain.ProtocolWebSockets:
			websocket = true
		default:
			otlp = true
		}
	}
	if len(base) > 0 {
		names := make([]string, 0, len(base))
		for name := range base {
			names = append(names, name)
		}
		sort.Strings(names)
		imports = append(imports, fmt.Sprintf("import { %s } from '@opentelemetry/sdk-trace-base';", strings.Join(names, ", ")))
	}
	if otlp {
		imports = append(imports, fmt.Sprintf("import { %s } from '@opentelemetry/exporter-trace-otlp-http';", OTLPExporter))
	}
	if websocket {
		imports = append(imports, fmt.Sprintf("import { %s } from '../utils/exporterUtils';", WebSocketExporter))
	}
	for _, d := range decorators {
		imports = append(imports, fmt.Sprintf("import { %s } from '../%s';", d.Class, d.Module))
	}
	return imports
}

// exporterDeclaration renders the const holding the exporter of dest
func exporterDeclaration(dest domain.ExportDestination, name string) string {
	switch {
	case dest.IsConsole():
		return fmt.Sprintf("const %s = new %s();\n", name, ConsoleExporter)
	case dest.Protocol == domain.ProtocolWebSockets:
		return fmt.Sprintf("const %s = new %s(%s);\n", name, WebSocketExporter, jsString(dest.Endpoint()))
	default:
		return fmt.Sprintf("const %s = new %s({\n  url: %s,\n});\n", name, OTLPExporter, jsString(dest.Endpoint()))
	}
}
