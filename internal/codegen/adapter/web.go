package adapter

import (
	"fmt"

	"github.com/getlawrence/otelinject/internal/domain"
)

const (
	moduleDocumentLoad    = "@opentelemetry/instrumentation-document-load"
	moduleFetch           = "@opentelemetry/instrumentation-fetch"
	moduleXMLHTTPRequest  = "@opentelemetry/instrumentation-xml-http-request"
	moduleUserInteraction = "@opentelemetry/instrumentation-user-interaction"
)

// WebAdapter targets browser applications
type WebAdapter struct{}

func NewWebAdapter() *WebAdapter { return &WebAdapter{} }

func (a *WebAdapter) Kind() Kind { return KindWeb }

func (a *WebAdapter) Imports() []string {
	return []string{
		"import { WebTracerProvider } from '@opentelemetry/sdk-trace-web';",
		"import { ZoneContextManager } from '@opentelemetry/context-zone';",
		"import { registerInstrumentations } from '@opentelemetry/instrumentation';",
		"import { getWebAutoInstrumentations } from '@opentelemetry/auto-instrumentations-web';",
	}
}

func (a *WebAdapter) ProviderClass() string { return "WebTracerProvider" }

func (a *WebAdapter) Registration(providerVar string) string {
	return fmt.Sprintf("%s.register({\n  contextManager: new ZoneContextManager(),\n});\n", providerVar)
}

func (a *WebAdapter) AutoInstrumentations(opts domain.AutomaticTracingOptions) string {
	interaction := toggle{module: moduleUserInteraction, enabled: opts.UserInteractions.Enabled}
	if events := opts.UserInteractionEvents(); len(events) > 0 {
		interaction.extra = "eventNames: " + EventNamesLiteral(events)
	}
	return renderRegistration("getWebAutoInstrumentations", []toggle{
		{module: moduleDocumentLoad, enabled: opts.DocumentLoad},
		{module: moduleFetch, enabled: opts.Fetch},
		{module: moduleXMLHTTPRequest, enabled: opts.AJAXRequests},
		interaction,
	})
}

func (a *WebAdapter) Dependencies() []string {
	return []string{
		"@opentelemetry/api@^1.9.0",
		"@opentelemetry/sdk-trace-base@^1.30.0",
		"@opentelemetry/sdk-trace-web@^1.30.0",
		"@opentelemetry/context-zone@^1.30.0",
		"@opentelemetry/instrumentation@^0.57.0",
		"@opentelemetry/auto-instrumentations-web@^0.45.0",
		"@opentelemetry/resources@^1.30.0",
		"@opentelemetry/semantic-conventions@^1.28.0",
	}
}
