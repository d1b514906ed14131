package domain

import (
	"strings"
	"unicode"
)

// Platform values accepted in ApplicationMetadata.Type
const (
	PlatformFrontend = "frontend"
	PlatformBackend  = "backend"
)

// Technology values with dedicated adapters and injectors
const (
	TechnologyAngular = "angular"
	TechnologyReact   = "react"
	TechnologyNode    = "node"
)

// ApplicationMetadata identifies the target application of a generation run.
// Type and Technology are matched by substring, so "frontend-spa" still counts
// as a frontend and "node-express" as a node backend.
type ApplicationMetadata struct {
	Name         string `json:"name" yaml:"name" koanf:"name" validate:"required"`
	Type         string `json:"type" yaml:"type" koanf:"type" validate:"required"`
	Technology   string `json:"technology" yaml:"technology" koanf:"technology" validate:"required"`
	CodebasePath string `json:"codebase_path" yaml:"codebase_path" koanf:"codebase_path"`
	URL          string `json:"url,omitempty" yaml:"url,omitempty" koanf:"url" validate:"omitempty,url"`
}

// IsFrontend reports whether the platform type names a frontend
func (a ApplicationMetadata) IsFrontend() bool {
	return strings.Contains(strings.ToLower(a.Type), PlatformFrontend)
}

// IsBackend reports whether the platform type names a backend
func (a ApplicationMetadata) IsBackend() bool {
	return strings.Contains(strings.ToLower(a.Type), PlatformBackend)
}

// UsesTechnology reports whether the technology field mentions tech
func (a ApplicationMetadata) UsesTechnology(tech string) bool {
	return strings.Contains(strings.ToLower(a.Technology), tech)
}

// NormalizedName returns the filesystem-safe name used to namespace generated
// artifacts: lowercase letters and digits, words joined with '-'.
func (a ApplicationMetadata) NormalizedName() string {
	return NormalizeName(a.Name)
}

// InstanceID is the service instance id embedded in generated resources.
func (a ApplicationMetadata) InstanceID() string {
	return a.NormalizedName() + "-1"
}

// NormalizeName lowercases name and joins its alphanumeric words with '-'.
func NormalizeName(name string) string {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
	})
	if len(words) == 0 {
		return "app"
	}
	return strings.Join(words, "-")
}
