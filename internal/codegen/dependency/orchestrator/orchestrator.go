package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/getlawrence/otelinject/internal/codegen/dependency/installer"
	"github.com/getlawrence/otelinject/internal/codegen/dependency/scanner"
	"github.com/getlawrence/otelinject/internal/codegen/dependency/types"
	"github.com/getlawrence/otelinject/internal/logger"
)

// Orchestrator coordinates scanning -> matching -> installing
type Orchestrator struct {
	scanner   scanner.Scanner
	installer installer.Installer
	logger    logger.Logger
}

// New creates an npm orchestrator running commands through commander
func New(commander types.Commander, l logger.Logger) *Orchestrator {
	if l == nil {
		l = logger.Nop{}
	}
	return &Orchestrator{
		scanner:   scanner.NewNpmScanner(),
		installer: installer.NewNpmInstaller(commander),
		logger:    l,
	}
}

// EnsureManifest writes a minimal private package.json into projectPath
// unless one already exists.
func EnsureManifest(projectPath, name string) error {
	path := filepath.Join(projectPath, "package.json")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(projectPath, 0o755); err != nil {
		return fmt.Errorf("create project dir: %w", err)
	}
	manifest := fmt.Sprintf("{\n  \"name\": %q,\n  \"version\": \"0.0.0\",\n  \"private\": true\n}\n", name)
	return os.WriteFile(path, []byte(manifest), 0o644)
}

// Missing returns the dependencies that are not declared in package.json or
// not present in node_modules
func (o *Orchestrator) Missing(projectPath string, deps []types.Dependency) ([]types.Dependency, error) {
	declared, err := o.scanner.Scan(projectPath)
	if err != nil {
		return nil, fmt.Errorf("scan dependencies: %w", err)
	}
	isDeclared := make(map[string]bool, len(declared))
	for _, name := range declared {
		isDeclared[name] = true
	}
	var missing []types.Dependency
	for _, dep := range deps {
		if !isDeclared[dep.Name] || !o.scanner.Installed(projectPath, dep.Name) {
			missing = append(missing, dep)
		}
	}
	return missing, nil
}

// Run validates specs against the project and installs what is missing. It
// returns the dependencies it installed.
func (o *Orchestrator) Run(ctx context.Context, projectPath string, specs []string, dryRun bool) ([]types.Dependency, error) {
	if !o.scanner.Detect(projectPath) {
		return nil, fmt.Errorf("no package.json found in %s", projectPath)
	}

	missing, err := o.Missing(projectPath, types.ParseDependencies(specs))
	if err != nil {
		return nil, err
	}
	if len(missing) == 0 {
		o.logger.Log("All instrumentation dependencies are installed")
		return nil, nil
	}

	for _, dep := range missing {
		o.logger.Logf("Installing %s\n", dep)
	}
	if err := o.installer.Install(ctx, projectPath, missing, dryRun); err != nil {
		return nil, fmt.Errorf("install dependencies: %w", err)
	}
	return missing, nil
}
