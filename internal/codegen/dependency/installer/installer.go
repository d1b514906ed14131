package installer

import (
	"context"

	"github.com/getlawrence/otelinject/internal/codegen/dependency/types"
)

// Installer installs requested dependencies into a project
type Installer interface {
	Install(ctx context.Context, projectPath string, dependencies []types.Dependency, dryRun bool) error
}
