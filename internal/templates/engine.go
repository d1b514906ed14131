package templates

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

//go:embed ts/*.tmpl
var templateFS embed.FS

// Template keys of the generated utility files
const (
	AppMetadataUtils  = "appMetadataUtils"
	SessionDataUtils  = "sessionDataUtils"
	UserIdentityUtils = "userIdentityUtils"
	ResourceUtils     = "resourceUtils"
	ExporterUtils     = "exporterUtils"
)

// UtilityData feeds the utility file templates
type UtilityData struct {
	// Frontend selects the browser rendition of runtime dependent code
	Frontend bool `json:"frontend"`
	// StoreKey prefixes storage keys and names the process-global fallback store
	StoreKey string `json:"store_key"`
	// VisitTimeoutMinutes bounds a visit, measured from the last write
	VisitTimeoutMinutes int `json:"visit_timeout_minutes,omitempty"`
	// CPUSampleWindowMs is the one-shot CPU sampling window on backends
	CPUSampleWindowMs int `json:"cpu_sample_window_ms,omitempty"`
}

// TemplateEngine handles template loading and execution
type TemplateEngine struct {
	set  *template.Template
	keys []string
}

// NewTemplateEngine creates a new template engine
func NewTemplateEngine() (*TemplateEngine, error) {
	set, err := template.New("ts").ParseFS(templateFS, "ts/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	engine := &TemplateEngine{set: set}
	for _, t := range set.Templates() {
		name := t.Name()
		// partials start with an underscore, the root set has no file
		if !strings.HasSuffix(name, ".ts.tmpl") || strings.HasPrefix(name, "_") {
			continue
		}
		engine.keys = append(engine.keys, strings.TrimSuffix(name, ".ts.tmpl"))
	}
	sort.Strings(engine.keys)
	return engine, nil
}

// Render executes the template registered under key
func (e *TemplateEngine) Render(key string, data UtilityData) (string, error) {
	tmpl := e.set.Lookup(key + ".ts.tmpl")
	if tmpl == nil {
		return "", fmt.Errorf("template not found: %s", key)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template %s execution failed: %w", key, err)
	}
	return buf.String(), nil
}

// GetAvailableTemplates returns all available template keys
func (e *TemplateEngine) GetAvailableTemplates() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}
