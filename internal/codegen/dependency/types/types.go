package types

import (
	"context"
	"strings"
)

// Dependency is an npm package the generated instrumentation imports
type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"` // semver range, empty for latest
}

// ParseDependency splits an npm spec such as "@opentelemetry/api@^1.9.0" or
// "ws" into name and version. The leading @ of a scoped name is not a
// version separator.
func ParseDependency(spec string) Dependency {
	spec = strings.TrimSpace(spec)
	idx := strings.LastIndex(spec, "@")
	if idx <= 0 {
		return Dependency{Name: spec}
	}
	return Dependency{Name: spec[:idx], Version: spec[idx+1:]}
}

// ParseDependencies parses specs and drops repeated names. The first
// occurrence of a name wins.
func ParseDependencies(specs []string) []Dependency {
	seen := make(map[string]bool, len(specs))
	out := make([]Dependency, 0, len(specs))
	for _, spec := range specs {
		dep := ParseDependency(spec)
		if dep.Name == "" || seen[dep.Name] {
			continue
		}
		seen[dep.Name] = true
		out = append(out, dep)
	}
	return out
}

// String renders the dependency as an npm install argument
func (d Dependency) String() string {
	if d.Version == "" {
		return d.Name
	}
	return d.Name + "@" + d.Version
}

// Commander abstracts command execution for testing
type Commander interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, name string, args []string, dir string) (output string, err error)
}
