package installer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getlawrence/otelinject/internal/codegen/dependency/types"
)

// NpmInstaller installs npm packages using `npm install` or edits package.json
type NpmInstaller struct {
	commander types.Commander
}

func NewNpmInstaller(commander types.Commander) Installer {
	return &NpmInstaller{commander: commander}
}

// Install installs dependencies into projectPath. Unversioned dependencies are
// pinned to the registry's latest version first. Without npm on the PATH the
// dependencies are only recorded in package.json.
func (i *NpmInstaller) Install(ctx context.Context, projectPath string, dependencies []types.Dependency, dryRun bool) error {
	if len(dependencies) == 0 {
		return nil
	}

	pkgPath := filepath.Join(projectPath, "package.json")
	if _, err := os.Stat(pkgPath); os.IsNotExist(err) {
		return fmt.Errorf("package.json not found in %s", projectPath)
	}

	resolved := i.resolveVersions(ctx, projectPath, dependencies)
	if dryRun {
		return nil
	}

	if _, err := i.commander.LookPath("npm"); err == nil {
		args := []string{"install", "--no-audit", "--no-fund"}
		for _, dep := range resolved {
			args = append(args, dep.String())
		}
		if out, err := i.commander.Run(ctx, "npm", args, projectPath); err != nil {
			return fmt.Errorf("npm install failed: %w\nOutput: %s", err, out)
		}
		return nil
	}

	return editPackageJSON(pkgPath, resolved)
}

func (i *NpmInstaller) resolveVersions(ctx context.Context, projectPath string, deps []types.Dependency) []types.Dependency {
	resolved := make([]types.Dependency, 0, len(deps))
	for _, dep := range deps {
		if dep.Version == "" {
			version, err := i.resolveLatestVersion(ctx, projectPath, dep.Name)
			if err != nil {
				version = "latest"
			}
			dep.Version = version
		}
		resolved = append(resolved, dep)
	}
	return resolved
}

func (i *NpmInstaller) resolveLatestVersion(ctx context.Context, projectPath, pkg string) (string, error) {
	if _, err := i.commander.LookPath("npm"); err != nil {
		return "", fmt.Errorf("could not resolve version for %s: %w", pkg, err)
	}
	out, err := i.commander.Run(ctx, "npm", []string{"view", pkg, "version", "--json"}, projectPath)
	if err != nil {
		return "", fmt.Errorf("could not resolve version for %s: %w", pkg, err)
	}
	var version string
	if err := json.Unmarshal([]byte(out), &version); err == nil && version != "" {
		return version, nil
	}
	if v := strings.TrimSpace(out); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("empty version for %s", pkg)
}

// editPackageJSON records dependencies in the manifest's dependencies section
func editPackageJSON(pkgPath string, dependencies []types.Dependency) error {
	content, err := os.ReadFile(pkgPath)
	if err != nil {
		return err
	}

	var pkg map[string]interface{}
	if err := json.Unmarshal(content, &pkg); err != nil {
		return fmt.Errorf("invalid package.json: %w", err)
	}

	deps, ok := pkg["dependencies"].(map[string]interface{})
	if !ok {
		deps = make(map[string]interface{})
		pkg["dependencies"] = deps
	}
	for _, dep := range dependencies {
		deps[dep.Name] = dep.Version
	}

	output, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(pkgPath, append(output, '\n'), 0o644)
}
