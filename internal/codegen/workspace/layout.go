// Package workspace knows where generated sources, compiled bundles and logs
// live under the tool's assets directory.
package workspace

import "path/filepath"

const (
	DefaultAssetsDir = "assets"

	instrumentationsDir = "instrumentations"
	bundlesDir          = "bundles"
	logsDir             = "logs"
)

// Layout resolves staging paths below an assets root
type Layout struct {
	Root string
}

// NewLayout returns a layout rooted at assetsDir, or DefaultAssetsDir when
// empty. A relative root is resolved against the working directory so every
// staging path handed to the bundlers is absolute.
func NewLayout(assetsDir string) Layout {
	if assetsDir == "" {
		assetsDir = DefaultAssetsDir
	}
	if abs, err := filepath.Abs(assetsDir); err == nil {
		assetsDir = abs
	}
	return Layout{Root: assetsDir}
}

// ProjectRoot is the staging project of an application: it holds src/,
// tsconfig.json, package.json and node_modules.
func (l Layout) ProjectRoot(normalizedName string) string {
	return filepath.Join(l.Root, instrumentationsDir, normalizedName)
}

func (l Layout) SrcDir(normalizedName string) string {
	return filepath.Join(l.ProjectRoot(normalizedName), "src")
}

func (l Layout) MainDir(normalizedName string) string {
	return filepath.Join(l.SrcDir(normalizedName), "main")
}

func (l Layout) UtilsDir(normalizedName string) string {
	return filepath.Join(l.SrcDir(normalizedName), "utils")
}

// IndexFile is the bundler entry point
func (l Layout) IndexFile(normalizedName string) string {
	return filepath.Join(l.SrcDir(normalizedName), "index.ts")
}

func (l Layout) TSConfigFile(normalizedName string) string {
	return filepath.Join(l.ProjectRoot(normalizedName), "tsconfig.json")
}

// BundleDir holds the compiled bundles of one application
func (l Layout) BundleDir(normalizedName string) string {
	return filepath.Join(l.Root, bundlesDir, normalizedName)
}

// BundlerErrorLog collects compiler diagnostics across runs
func (l Layout) BundlerErrorLog() string {
	return filepath.Join(l.Root, logsDir, "bundler-errors.log")
}
