// Package detector infers the platform and technology of a target codebase
// and suggests which Node auto-instrumentations to enable.
package detector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/getlawrence/otelinject/internal/codegen/adapter"
	"github.com/getlawrence/otelinject/internal/codegen/dependency/scanner"
	"github.com/getlawrence/otelinject/internal/domain"
)

// Detection is what Detect learned about a codebase
type Detection struct {
	Application domain.ApplicationMetadata `json:"application"`
	// Language is the primary programming language by file count
	Language  string         `json:"language,omitempty"`
	Languages map[string]int `json:"languages,omitempty"`
	// Dependencies declared in package.json
	Dependencies []string `json:"dependencies,omitempty"`
	// Integrations are the Node integration keys worth enabling
	Integrations []string `json:"integrations,omitempty"`
	// Reason explains which evidence decided the technology
	Reason string `json:"reason"`
}

// Supported reports whether the detected application can be instrumented
func (d *Detection) Supported() bool {
	_, ok := adapter.Select(d.Application)
	return ok
}

// frameworkRule maps a package.json dependency to a platform and technology.
// Rules are checked in order; the first declared dependency wins.
type frameworkRule struct {
	dependency string
	platform   string
	technology string
}

var frameworkRules = []frameworkRule{
	{"@angular/core", domain.PlatformFrontend, domain.TechnologyAngular},
	{"react-dom", domain.PlatformFrontend, domain.TechnologyReact},
	{"react-scripts", domain.PlatformFrontend, domain.TechnologyReact},
	{"react", domain.PlatformFrontend, domain.TechnologyReact},
	{"vue", domain.PlatformFrontend, "vue"},
	{"svelte", domain.PlatformFrontend, "svelte"},
}

// Detect inspects rootPath. A package.json with a known frontend framework
// yields a frontend; any other package.json yields a node backend. Without
// package.json only the primary language is reported and the application
// has no platform.
func Detect(ctx context.Context, rootPath string) (*Detection, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect codebase: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("codebase path %s is not a directory", rootPath)
	}

	langs, err := detectLanguages(ctx, rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to detect languages: %w", err)
	}

	d := &Detection{
		Application: domain.ApplicationMetadata{
			Name:         projectName(rootPath),
			CodebasePath: rootPath,
		},
		Language:  PrimaryLanguage(langs),
		Languages: langs,
	}

	npm := scanner.NewNpmScanner()
	if !npm.Detect(rootPath) {
		d.Reason = "no package.json found"
		if d.Language != "" {
			d.Application.Technology = normalizeTechnology(d.Language)
			d.Reason += "; primary language is " + d.Language
		}
		return d, nil
	}

	deps, err := npm.Scan(rootPath)
	if err != nil {
		return nil, err
	}
	d.Dependencies = deps
	declared := make(map[string]bool, len(deps))
	for _, dep := range deps {
		declared[dep] = true
	}

	for _, rule := range frameworkRules {
		if declared[rule.dependency] {
			d.Application.Type = rule.platform
			d.Application.Technology = rule.technology
			d.Reason = fmt.Sprintf("package.json depends on %s", rule.dependency)
			return d, nil
		}
	}

	d.Application.Type = domain.PlatformBackend
	d.Application.Technology = domain.TechnologyNode
	d.Reason = "package.json without a frontend framework"
	d.Integrations = SuggestIntegrations(deps)
	return d, nil
}

// SuggestIntegrations returns the integration keys whose library is among
// deps, always including http. Keys come in rendering order.
func SuggestIntegrations(deps []string) []string {
	declared := make(map[string]bool, len(deps))
	for _, dep := range deps {
		declared[dep] = true
	}
	var out []string
	for _, in := range adapter.NodeIntegrations() {
		if in.Key == "http" || (in.Package != "" && declared[in.Package]) {
			out = append(out, in.Key)
		}
	}
	return out
}

// projectName prefers the package.json name and falls back to the directory
func projectName(rootPath string) string {
	raw, err := os.ReadFile(filepath.Join(rootPath, "package.json"))
	if err == nil {
		var manifest struct {
			Name string `json:"name"`
		}
		if json.Unmarshal(raw, &manifest) == nil && manifest.Name != "" {
			return manifest.Name
		}
	}
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return filepath.Base(rootPath)
	}
	return filepath.Base(abs)
}

func normalizeTechnology(language string) string {
	switch language {
	case "JavaScript", "TypeScript":
		return domain.TechnologyNode
	default:
		return domain.NormalizeName(language)
	}
}
