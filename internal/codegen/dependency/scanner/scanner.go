package scanner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Scanner enumerates the dependencies a project already has
type Scanner interface {
	// Detect returns true if the project path appears to be managed by this scanner
	Detect(projectPath string) bool
	// Scan returns the declared package names
	Scan(projectPath string) ([]string, error)
	// Installed reports whether name is present on disk, not merely declared
	Installed(projectPath, name string) bool
}

// NpmScanner reads package.json and node_modules
type NpmScanner struct{}

func NewNpmScanner() *NpmScanner { return &NpmScanner{} }

func (s *NpmScanner) Detect(projectPath string) bool {
	_, err := os.Stat(filepath.Join(projectPath, "package.json"))
	return err == nil
}

// Scan lists dependencies and devDependencies, sorted
func (s *NpmScanner) Scan(projectPath string) ([]string, error) {
	raw, err := os.ReadFile(filepath.Join(projectPath, "package.json"))
	if err != nil {
		return nil, err
	}
	var manifest struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("invalid package.json: %w", err)
	}
	out := make([]string, 0, len(manifest.Dependencies)+len(manifest.DevDependencies))
	for name := range manifest.Dependencies {
		out = append(out, name)
	}
	for name := range manifest.DevDependencies {
		if _, dup := manifest.Dependencies[name]; !dup {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *NpmScanner) Installed(projectPath, name string) bool {
	_, err := os.Stat(filepath.Join(projectPath, "node_modules", filepath.FromSlash(name), "package.json"))
	return err == nil
}
