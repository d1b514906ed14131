package adapter

import (
	"fmt"

	"github.com/getlawrence/otelinject/internal/domain"
)

// NodeAdapter targets Node.js backends
type NodeAdapter struct{}

func NewNodeAdapter() *NodeAdapter { return &NodeAdapter{} }

func (a *NodeAdapter) Kind() Kind { return KindNode }

func (a *NodeAdapter) Imports() []string {
	return []string{
		"import { NodeTracerProvider } from '@opentelemetry/sdk-trace-node';",
		"import { registerInstrumentations } from '@opentelemetry/instrumentation';",
		"import { getNodeAutoInstrumentations } from '@opentelemetry/auto-instrumentations-node';",
	}
}

func (a *NodeAdapter) ProviderClass() string { return "NodeTracerProvider" }

// Registration relies on the AsyncLocalStorage context manager NodeTracerProvider installs by default.
func (a *NodeAdapter) Registration(providerVar string) string {
	return fmt.Sprintf("%s.register();\n", providerVar)
}

func (a *NodeAdapter) AutoInstrumentations(opts domain.AutomaticTracingOptions) string {
	toggles := make([]toggle, 0, len(nodeIntegrations))
	for _, in := range nodeIntegrations {
		toggles = append(toggles, toggle{module: in.Module, enabled: opts.IntegrationEnabled(in.Key)})
	}
	return renderRegistration("getNodeAutoInstrumentations", toggles)
}

func (a *NodeAdapter) Dependencies() []string {
	return []string{
		"@opentelemetry/api@^1.9.0",
		"@opentelemetry/sdk-trace-base@^1.30.0",
		"@opentelemetry/sdk-trace-node@^1.30.0",
		"@opentelemetry/instrumentation@^0.57.0",
		"@opentelemetry/auto-instrumentations-node@^0.56.0",
		"@opentelemetry/resources@^1.30.0",
		"@opentelemetry/semantic-conventions@^1.28.0",
	}
}
