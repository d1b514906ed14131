package commander

import (
	"context"
	"os"
	"os/exec"

	"github.com/getlawrence/otelinject/internal/codegen/dependency/types"
)

// Real runs npm, npx and friends on the host
type Real struct {
	env []string
}

// NewReal creates a commander using the process environment. extraEnv entries
// (KEY=value) are appended, e.g. to silence npm update notices.
func NewReal(extraEnv ...string) types.Commander {
	return &Real{env: append(os.Environ(), extraEnv...)}
}

func (r *Real) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run executes name in dir and returns its combined output
func (r *Real) Run(ctx context.Context, name string, args []string, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = r.env
	if dir != "" {
		cmd.Dir = dir
	}
	output, err := cmd.CombinedOutput()
	return string(output), err
}
