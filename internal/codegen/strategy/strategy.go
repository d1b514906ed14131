// Package strategy generates the instrumentation source files. Each strategy
// covers one telemetry concern and yields its files as structured text.
package strategy

import (
	"strings"

	"github.com/getlawrence/otelinject/internal/domain"
	"github.com/getlawrence/otelinject/internal/templates"
)

// Kind names a strategy variant
type Kind string

const (
	KindTracing         Kind = "tracing"
	KindAppMetadata     Kind = "app-metadata"
	KindSessionData     Kind = "session-data"
	KindUserIdentity    Kind = "user-identity"
	KindResource        Kind = "resource"
	KindWebSocketExport Kind = "websocket-export"
)

const (
	// VisitTimeoutMinutes is how long a visit survives without a write
	VisitTimeoutMinutes = 30
	// CPUSampleWindowMs is the backend CPU sampling window
	CPUSampleWindowMs = 500
)

// Strategy produces instrumentation files for one telemetry concern
type Strategy interface {
	Kind() Kind
	// Generate renders the files of this concern
	Generate() ([]domain.Instrumentation, error)
	// Dependencies lists the npm packages the generated files import
	Dependencies() []string
}

// utilityStrategy renders a single utils file from an embedded template
type utilityStrategy struct {
	kind   Kind
	engine *templates.TemplateEngine
	key    string
	data   templates.UtilityData
	deps   []string
}

func (s *utilityStrategy) Kind() Kind { return s.kind }

func (s *utilityStrategy) Generate() ([]domain.Instrumentation, error) {
	content, err := s.engine.Render(s.key, s.data)
	if err != nil {
		return nil, err
	}
	return []domain.Instrumentation{{FileName: s.key + ".ts", Content: content}}, nil
}

func (s *utilityStrategy) Dependencies() []string { return s.deps }

func utilityData(app domain.ApplicationMetadata) templates.UtilityData {
	return templates.UtilityData{
		Frontend:            app.IsFrontend(),
		StoreKey:            "__" + strings.ReplaceAll(app.NormalizedName(), "-", "_") + "_otel",
		VisitTimeoutMinutes: VisitTimeoutMinutes,
		CPUSampleWindowMs:   CPUSampleWindowMs,
	}
}

// NewAppMetadataStrategy generates the app metadata span processor
func NewAppMetadataStrategy(engine *templates.TemplateEngine, app domain.ApplicationMetadata) Strategy {
	return &utilityStrategy{
		kind:   KindAppMetadata,
		engine: engine,
		key:    templates.AppMetadataUtils,
		data:   utilityData(app),
		deps:   []string{depAPI, depSDKTraceBase},
	}
}

// NewSessionDataStrategy generates the session/visit span processor
func NewSessionDataStrategy(engine *templates.TemplateEngine, app domain.ApplicationMetadata) Strategy {
	return &utilityStrategy{
		kind:   KindSessionData,
		engine: engine,
		key:    templates.SessionDataUtils,
		data:   utilityData(app),
		deps:   []string{depAPI, depSDKTraceBase},
	}
}

// NewUserIdentityStrategy generates the user identity span processor
func NewUserIdentityStrategy(engine *templates.TemplateEngine, app domain.ApplicationMetadata) Strategy {
	return &utilityStrategy{
		kind:   KindUserIdentity,
		engine: engine,
		key:    templates.UserIdentityUtils,
		data:   utilityData(app),
		deps:   []string{depAPI, depSDKTraceBase},
	}
}

// NewResourceStrategy generates the DOM (frontend) or host (backend) resource processor
func NewResourceStrategy(engine *templates.TemplateEngine, app domain.ApplicationMetadata) Strategy {
	return &utilityStrategy{
		kind:   KindResource,
		engine: engine,
		key:    templates.ResourceUtils,
		data:   utilityData(app),
		deps:   []string{depAPI, depSDKTraceBase},
	}
}

// NewWebSocketExportStrategy generates the websocket span exporter
func NewWebSocketExportStrategy(engine *templates.TemplateEngine, app domain.ApplicationMetadata) Strategy {
	deps := []string{depCore, depSDKTraceBase}
	if !app.IsFrontend() {
		deps = append(deps, depWS)
	}
	return &utilityStrategy{
		kind:   KindWebSocketExport,
		engine: engine,
		key:    templates.ExporterUtils,
		data:   utilityData(app),
		deps:   deps,
	}
}

const (
	depAPI          = "@opentelemetry/api@^1.9.0"
	depCore         = "@opentelemetry/core@^1.30.0"
	depSDKTraceBase = "@opentelemetry/sdk-trace-base@^1.30.0"
	depOTLPHTTP     = "@opentelemetry/exporter-trace-otlp-http@^0.57.0"
	depWS           = "ws@^8.18.0"
)

// Auxiliary returns the strategies the tracing file depends on, in the order
// they run: app metadata, session data, user identity, resource, then the
// websocket exporter when a destination speaks WEB_SOCKETS.
func Auxiliary(engine *templates.TemplateEngine, app domain.ApplicationMetadata, cfg domain.TracingInstrumentationConfig) []Strategy {
	opts := cfg.AutomaticTracingOptions
	var out []Strategy
	if opts.AppMetadata {
		out = append(out, NewAppMetadataStrategy(engine, app))
	}
	if opts.SessionData {
		out = append(out, NewSessionDataStrategy(engine, app))
	}
	if opts.UserIDData {
		out = append(out, NewUserIdentityStrategy(engine, app))
	}
	if opts.ResourceData {
		out = append(out, NewResourceStrategy(engine, app))
	}
	if cfg.UsesProtocol(domain.ProtocolWebSockets) {
		out = append(out, NewWebSocketExportStrategy(engine, app))
	}
	return out
}
