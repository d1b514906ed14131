package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/getlawrence/otelinject/internal/domain"
)

const sampleHeader = `# otelinject run configuration.
# Every key can be overridden from the environment, e.g.
#   OTELINJECT_APPLICATION__CODEBASE_PATH=../shop
#   OTELINJECT_TELEMETRY__AUTOMATIC_TRACING_OPTIONS__FETCH=false
`

// SampleConfig returns a configuration for app that traces document loads,
// fetch calls and clicks, exporting to a local OTLP collector.
func SampleConfig(app domain.ApplicationMetadata) *Config {
	cfg := DefaultConfig()
	cfg.Application = app
	applyDefaults(cfg)
	cfg.Metrics = []domain.Metric{{Name: "page-load-time"}, {Name: "error-rate"}}
	cfg.Telemetry = domain.TracingInstrumentationConfig{
		TelemetryConfig: domain.TelemetryConfig{
			TelemetryTypes: []domain.TelemetryType{domain.TelemetryTracing},
			ExportDestinations: []domain.ExportDestination{
				{Type: domain.DestinationConsole},
				{Type: domain.DestinationLocalCollector, Protocol: domain.ProtocolOTLP, URL: "http://localhost:4318/v1/traces"},
			},
		},
		AutomaticTracingOptions: domain.AutomaticTracingOptions{
			DocumentLoad: true,
			Fetch:        true,
			UserInteractions: domain.UserInteractionOptions{
				Enabled: true,
				Events:  []string{"click", "submit"},
			},
			AppMetadata: true,
		},
	}
	if app.IsBackend() {
		cfg.Metrics = []domain.Metric{{Name: "request-latency"}, {Name: "error-rate"}}
		cfg.Telemetry.AutomaticTracingOptions = domain.AutomaticTracingOptions{
			AppMetadata:  true,
			ResourceData: true,
			Integrations: map[string]bool{"http": true, "express": true},
		}
	}
	return cfg
}

// MarshalSample renders cfg as commented YAML
func MarshalSample(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(sampleHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSample writes the sample configuration for app to path. An existing
// file is only replaced when overwrite is set.
func WriteSample(path string, app domain.ApplicationMetadata, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("%s already exists", path)
	}
	data, err := MarshalSample(SampleConfig(app))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
