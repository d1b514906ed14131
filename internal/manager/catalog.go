package manager

import (
	"fmt"
	"sort"

	"github.com/getlawrence/otelinject/internal/domain"
)

// MetricDefinition is a metric of the built-in catalog
type MetricDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Telemetry   []domain.TelemetryType `json:"telemetry"`
}

var catalog = map[string]MetricDefinition{
	"page-load-time": {
		Name:        "page-load-time",
		Description: "Time from navigation start to the load event of the document",
		Telemetry:   []domain.TelemetryType{domain.TelemetryTracing},
	},
	"error-rate": {
		Name:        "error-rate",
		Description: "Share of traced operations that end with an error status",
		Telemetry:   []domain.TelemetryType{domain.TelemetryTracing},
	},
	"request-latency": {
		Name:        "request-latency",
		Description: "Duration of outgoing and incoming HTTP requests",
		Telemetry:   []domain.TelemetryType{domain.TelemetryTracing},
	},
	"user-session-length": {
		Name:        "user-session-length",
		Description: "Duration of a visit, derived from session data on spans",
		Telemetry:   []domain.TelemetryType{domain.TelemetryTracing},
	},
	"cpu-usage": {
		Name:        "cpu-usage",
		Description: "Process CPU time sampled by the resource processor",
		Telemetry:   []domain.TelemetryType{domain.TelemetryTracing, domain.TelemetryMetrics},
	},
	"log-volume": {
		Name:        "log-volume",
		Description: "Number of log records emitted per minute",
		Telemetry:   []domain.TelemetryType{domain.TelemetryLogging},
	},
}

// Catalog returns the built-in metrics sorted by name
func Catalog() []MetricDefinition {
	out := make([]MetricDefinition, 0, len(catalog))
	for _, def := range catalog {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupMetric finds a catalog metric by name
func LookupMetric(name string) (MetricDefinition, bool) {
	def, ok := catalog[name]
	return def, ok
}

// ResolveMetrics fills the telemetry requirements of metrics that list none
// from the catalog. A metric that lists none and is not in the catalog is an
// error.
func ResolveMetrics(metrics []domain.Metric) ([]domain.Metric, error) {
	out := make([]domain.Metric, 0, len(metrics))
	for _, m := range metrics {
		if len(m.RequiredTelemetry) == 0 {
			def, ok := LookupMetric(m.Name)
			if !ok {
				return nil, fmt.Errorf("unknown metric %q: not in the catalog and no telemetry listed", m.Name)
			}
			m.RequiredTelemetry = append([]domain.TelemetryType(nil), def.Telemetry...)
		}
		out = append(out, m)
	}
	return out, nil
}
