package injector

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/getlawrence/otelinject/internal/domain"
)

// Target is the framework-specific half of an injection
type Target interface {
	Name() string
	// AssetsDir is where the bundle is copied, relative to the codebase
	AssetsDir() string
	// EntryFile is the file patched to load the bundle, relative to the codebase
	EntryFile() string
	// Patch returns content loading the bundle at bundlePath (absolute)
	Patch(content []byte, entryPath, bundlePath string) ([]byte, error)
}

// htmlTarget loads the bundle from a script tag in the host page
type htmlTarget struct {
	name   string
	page   string
	assets string
}

func (t htmlTarget) Name() string      { return t.name }
func (t htmlTarget) AssetsDir() string { return t.assets }
func (t htmlTarget) EntryFile() string { return t.page }

func (t htmlTarget) Patch(content []byte, entryPath, bundlePath string) ([]byte, error) {
	rel, err := filepath.Rel(filepath.Dir(entryPath), bundlePath)
	if err != nil {
		return nil, fmt.Errorf("relative bundle path: %w", err)
	}
	return InsertScriptTag(content, filepath.ToSlash(rel))
}

// NewReactTarget serves the bundle from public/
func NewReactTarget() Target {
	return htmlTarget{
		name:   "react",
		page:   filepath.Join("public", "index.html"),
		assets: filepath.Join("public", "instrumentation"),
	}
}

// NewAngularTarget serves the bundle from src/assets/
func NewAngularTarget() Target {
	return htmlTarget{
		name:   "angular",
		page:   filepath.Join("src", "index.html"),
		assets: filepath.Join("src", "assets", "instrumentation"),
	}
}

// nodeTarget preloads the bundle through the start script
type nodeTarget struct{}

// NewNodeTarget patches scripts.start in package.json
func NewNodeTarget() Target { return nodeTarget{} }

func (nodeTarget) Name() string      { return "node" }
func (nodeTarget) AssetsDir() string { return "instrumentation" }
func (nodeTarget) EntryFile() string { return "package.json" }

func (nodeTarget) Patch(content []byte, entryPath, bundlePath string) ([]byte, error) {
	start, err := StartScript(content)
	if err != nil {
		return nil, err
	}
	rel, err := filepath.Rel(filepath.Dir(entryPath), bundlePath)
	if err != nil {
		return nil, fmt.Errorf("relative bundle path: %w", err)
	}
	patched, err := InsertRequireFlag(start, "./"+filepath.ToSlash(rel))
	if err != nil {
		return nil, err
	}
	return RewriteStartScript(content, start, patched)
}

// SelectTarget picks the injection target of app
func SelectTarget(app domain.ApplicationMetadata) (Target, bool) {
	switch {
	case app.IsFrontend() && app.UsesTechnology(domain.TechnologyAngular):
		return NewAngularTarget(), true
	case app.IsFrontend() && app.UsesTechnology(domain.TechnologyReact):
		return NewReactTarget(), true
	case app.IsBackend() && app.UsesTechnology(domain.TechnologyNode):
		return NewNodeTarget(), true
	default:
		return nil, false
	}
}

func copyFile(src, dst string) error {
	raw, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, raw, 0o644)
}
