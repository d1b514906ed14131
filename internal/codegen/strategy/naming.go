package strategy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/getlawrence/otelinject/internal/domain"
)

// Processor and exporter class names shared by the fragments of the tracing file
const (
	SimpleSpanProcessor = "SimpleSpanProcessor"
	BatchSpanProcessor  = "BatchSpanProcessor"
	ConsoleExporter     = "ConsoleSpanExporter"
	OTLPExporter        = "OTLPTraceExporter"
	WebSocketExporter   = "WebSocketSpanExporter"

	AppMetadataProcessor  = "AppMetadataSpanProcessor"
	ResourceProcessor     = "ResourceSpanProcessor"
	SessionDataProcessor  = "SessionDataSpanProcessor"
	UserIdentityProcessor = "UserIdentitySpanProcessor"
)

// ExporterVariableName derives the variable holding the exporter of dest:
// consoleExporter, or {local|remote}{OTLP|WebSockets}CollectorExporter.
// The exporter block declares it and the processor block references it.
func ExporterVariableName(dest domain.ExportDestination) string {
	if dest.IsConsole() {
		return "consoleExporter"
	}
	location := "local"
	if dest.Type == domain.DestinationRemoteCollector {
		location = "remote"
	}
	protocol := "OTLP"
	if dest.Protocol == domain.ProtocolWebSockets {
		protocol = "WebSockets"
	}
	return location + protocol + "CollectorExporter"
}

// ExporterVariableNames names every destination's exporter. A name already
// taken by an earlier destination gets an ordinal suffix, so the N-th
// localOTLPCollectorExporter becomes localOTLPCollectorExporterN.
func ExporterVariableNames(dests []domain.ExportDestination) []string {
	counts := make(map[string]int, len(dests))
	names := make([]string, len(dests))
	for i, dest := range dests {
		base := ExporterVariableName(dest)
		counts[base]++
		if counts[base] == 1 {
			names[i] = base
		} else {
			names[i] = base + strconv.Itoa(counts[base])
		}
	}
	return names
}

// BaseProcessorClass is the processor talking to the real exporter. OTLP
// collectors get batching, console and websocket exporters see spans one by one.
func BaseProcessorClass(dest domain.ExportDestination) string {
	if !dest.IsConsole() && dest.Protocol != domain.ProtocolWebSockets {
		return BatchSpanProcessor
	}
	return SimpleSpanProcessor
}

// BaseProcessor renders the innermost processor expression
func BaseProcessor(dest domain.ExportDestination, exporterVar string) string {
	return fmt.Sprintf("new %s(%s)", BaseProcessorClass(dest), exporterVar)
}

// Decorator is a span processor that wraps the next processor in the chain
type Decorator struct {
	Class string
	// Module is the utils module exporting Class, relative to src/
	Module string
	// Args are extra constructor arguments following the wrapped processor
	Args []string
}

// Wrap renders a construction of d around inner
func (d Decorator) Wrap(inner string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "new %s(\n", d.Class)
	b.WriteString(indent(inner+",") + "\n")
	for _, arg := range d.Args {
		b.WriteString(indent(arg+",") + "\n")
	}
	b.WriteString(")")
	return b.String()
}

// ProcessorDecorators lists the enabled decorators innermost first. The order
// is fixed: app metadata, resource, session data, user identity. Toggling a
// flag only removes its layer, it never reorders the others.
func ProcessorDecorators(app domain.ApplicationMetadata, opts domain.AutomaticTracingOptions, bundleFileName string) []Decorator {
	var decorators []Decorator
	if opts.AppMetadata {
		decorators = append(decorators, Decorator{
			Class:  AppMetadataProcessor,
			Module: "utils/appMetadataUtils",
			Args:   []string{AppMetadataLiteral(app, bundleFileName)},
		})
	}
	if opts.ResourceData {
		decorators = append(decorators, Decorator{Class: ResourceProcessor, Module: "utils/resourceUtils"})
	}
	if opts.SessionData {
		decorators = append(decorators, Decorator{Class: SessionDataProcessor, Module: "utils/sessionDataUtils"})
	}
	if opts.UserIDData {
		decorators = append(decorators, Decorator{Class: UserIdentityProcessor, Module: "utils/userIdentityUtils"})
	}
	return decorators
}

// ComposeProcessorChain folds decorators over base, innermost first
func ComposeProcessorChain(base string, decorators []Decorator) string {
	chain := base
	for _, d := range decorators {
		chain = d.Wrap(chain)
	}
	return chain
}

// AppMetadataLiteral renders the metadata record handed to the app metadata
// processor. It names the bundle the record is compiled into.
func AppMetadataLiteral(app domain.ApplicationMetadata, bundleFileName string) string {
	return fmt.Sprintf("{ appName: %s, normalizedAppName: %s, platform: %s, technology: %s, bundleFileName: %s }",
		jsString(app.Name),
		jsString(app.NormalizedName()),
		jsString(app.Type),
		jsString(app.Technology),
		jsString(bundleFileName),
	)
}

// jsString quotes s as a single-quoted TypeScript string literal
func jsString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)
	return "'" + r.Replace(s) + "'"
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = "  " + l
		}
	}
	return strings.Join(lines, "\n")
}
