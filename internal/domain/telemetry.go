package domain

import (
	"net/url"
	"strconv"
)

// TelemetryType is a kind of telemetry signal
type TelemetryType string

const (
	TelemetryTracing TelemetryType = "TRACING"
	TelemetryLogging TelemetryType = "LOGGING"
	TelemetryMetrics TelemetryType = "METRICS"
)

// DestinationType says where exported telemetry goes
type DestinationType string

const (
	DestinationConsole         DestinationType = "CONSOLE"
	DestinationLocalCollector  DestinationType = "LOCAL_COLLECTOR"
	DestinationRemoteCollector DestinationType = "REMOTE_COLLECTOR"
)

// Protocol is the wire protocol used to reach a collector
type Protocol string

const (
	ProtocolOTLP       Protocol = "OTLP"
	ProtocolWebSockets Protocol = "WEB_SOCKETS"
)

// ExportDestination is one place spans are exported to
type ExportDestination struct {
	Type     DestinationType `json:"type" yaml:"type" koanf:"type" validate:"required,oneof=CONSOLE LOCAL_COLLECTOR REMOTE_COLLECTOR"`
	Protocol Protocol        `json:"protocol,omitempty" yaml:"protocol,omitempty" koanf:"protocol" validate:"omitempty,oneof=OTLP WEB_SOCKETS"`
	URL      string          `json:"url,omitempty" yaml:"url,omitempty" koanf:"url" validate:"omitempty,url"`
	Port     int             `json:"port,omitempty" yaml:"port,omitempty" koanf:"port" validate:"gte=0,lte=65535"`
}

// IsConsole reports whether spans are printed instead of sent to a collector
func (d ExportDestination) IsConsole() bool {
	return d.Type == DestinationConsole
}

// Endpoint returns the destination URL, with Port applied when the URL
// carries no explicit port.
func (d ExportDestination) Endpoint() string {
	if d.Port == 0 || d.URL == "" {
		return d.URL
	}
	u, err := url.Parse(d.URL)
	if err != nil || u.Host == "" || u.Port() != "" {
		return d.URL
	}
	u.Host = u.Hostname() + ":" + strconv.Itoa(d.Port)
	return u.String()
}

// TelemetryConfig declares the requested telemetry types and export destinations
type TelemetryConfig struct {
	TelemetryTypes     []TelemetryType     `json:"telemetry_types" yaml:"telemetry_types" koanf:"telemetry_types" validate:"dive,oneof=TRACING LOGGING METRICS"`
	ExportDestinations []ExportDestination `json:"export_destinations" yaml:"export_destinations" koanf:"export_destinations" validate:"dive"`
}

// UsesProtocol reports whether any destination speaks p
func (c TelemetryConfig) UsesProtocol(p Protocol) bool {
	for _, dest := range c.ExportDestinations {
		if !dest.IsConsole() && dest.Protocol == p {
			return true
		}
	}
	return false
}

// UserInteractionOptions toggles user interaction tracing and the DOM events it listens to
type UserInteractionOptions struct {
	Enabled bool     `json:"enabled" yaml:"enabled" koanf:"enabled"`
	Events  []string `json:"events,omitempty" yaml:"events,omitempty" koanf:"events"`
}

// AutomaticTracingOptions toggles each automatic tracing capability.
// Integrations holds one flag per Node auto-instrumented library, keyed by
// the short library name (http, express, mongodb...).
type AutomaticTracingOptions struct {
	DocumentLoad     bool                   `json:"document_load" yaml:"document_load" koanf:"document_load"`
	Fetch            bool                   `json:"fetch" yaml:"fetch" koanf:"fetch"`
	AJAXRequests     bool                   `json:"ajax_requests" yaml:"ajax_requests" koanf:"ajax_requests"`
	UserInteractions UserInteractionOptions `json:"user_interactions" yaml:"user_interactions" koanf:"user_interactions"`
	SessionData      bool                   `json:"session_data" yaml:"session_data" koanf:"session_data"`
	UserIDData       bool                   `json:"user_id_data" yaml:"user_id_data" koanf:"user_id_data"`
	ResourceData     bool                   `json:"resource_data" yaml:"resource_data" koanf:"resource_data"`
	AppMetadata      bool                   `json:"app_metadata" yaml:"app_metadata" koanf:"app_metadata"`
	Integrations     map[string]bool        `json:"integrations,omitempty" yaml:"integrations,omitempty" koanf:"integrations"`
}

// IntegrationEnabled reports whether the Node integration name is switched on
func (o AutomaticTracingOptions) IntegrationEnabled(name string) bool {
	return o.Integrations[name]
}

// UserInteractionEvents returns the tracked event names, none while user
// interactions are disabled
func (o AutomaticTracingOptions) UserInteractionEvents() []string {
	if !o.UserInteractions.Enabled {
		return nil
	}
	return o.UserInteractions.Events
}

// TracingInstrumentationConfig is a TelemetryConfig with automatic tracing toggles
type TracingInstrumentationConfig struct {
	TelemetryConfig         `yaml:",inline" koanf:",squash"`
	AutomaticTracingOptions AutomaticTracingOptions `json:"automatic_tracing_options" yaml:"automatic_tracing_options" koanf:"automatic_tracing_options"`
}

// UserInteractionEvents is always derived from the user interaction options.
func (c TracingInstrumentationConfig) UserInteractionEvents() []string {
	return c.AutomaticTracingOptions.UserInteractionEvents()
}

// Metric is a quality metric together with the telemetry it needs
type Metric struct {
	Name              string          `json:"name" yaml:"name" koanf:"name" validate:"required"`
	RequiredTelemetry []TelemetryType `json:"telemetry,omitempty" yaml:"telemetry,omitempty" koanf:"telemetry" validate:"dive,oneof=TRACING LOGGING METRICS"`
}

// RequiredTelemetryTypes unions the requirements of every metric with the
// types the config declares itself. Order of first appearance is kept.
func RequiredTelemetryTypes(metrics []Metric, cfg TelemetryConfig) []TelemetryType {
	seen := make(map[TelemetryType]bool)
	var out []TelemetryType
	add := func(t TelemetryType) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, m := range metrics {
		for _, t := range m.RequiredTelemetry {
			add(t)
		}
	}
	for _, t := range cfg.TelemetryTypes {
		add(t)
	}
	return out
}

// ContainsTelemetryType reports whether t is in types
func ContainsTelemetryType(types []TelemetryType, t TelemetryType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
