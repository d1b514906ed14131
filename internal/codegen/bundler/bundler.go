// Package bundler compiles the staged instrumentation sources into a single
// minified bundle with an external toolchain.
package bundler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getlawrence/otelinject/internal/codegen/adapter"
	"github.com/getlawrence/otelinject/internal/codegen/dependency/types"
)

// ErrCompilation is wrapped by every CompileError
var ErrCompilation = errors.New("bundle compilation failed")

// CompileError carries the compiler's diagnostic text
type CompileError struct {
	Bundler     string
	Diagnostics string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Bundler, ErrCompilation, strings.TrimSpace(e.Diagnostics))
}

func (e *CompileError) Unwrap() error { return ErrCompilation }

// Request describes one compilation
type Request struct {
	// ProjectRoot is the staging project holding src/, package.json and tsconfig.json
	ProjectRoot string
	// EntryPoint is the staged index file
	EntryPoint string
	// OutDir and FileName locate the output bundle
	OutDir   string
	FileName string
}

// OutputPath is where the bundle is written
func (r Request) OutputPath() string {
	return filepath.Join(r.OutDir, r.FileName)
}

// resolve checks r and makes its paths absolute; esbuild's working
// directory and webpack's output.path must be absolute.
func (r Request) resolve() (Request, error) {
	if r.ProjectRoot == "" || r.EntryPoint == "" || r.OutDir == "" || r.FileName == "" {
		return r, fmt.Errorf("incomplete bundle request: %+v", r)
	}
	for _, p := range []*string{&r.ProjectRoot, &r.EntryPoint, &r.OutDir} {
		abs, err := filepath.Abs(*p)
		if err != nil {
			return r, fmt.Errorf("resolve %s: %w", *p, err)
		}
		*p = abs
	}
	if _, err := os.Stat(r.EntryPoint); err != nil {
		return r, fmt.Errorf("entry point: %w", err)
	}
	return r, nil
}

// Bundler compiles a staged project into one file
type Bundler interface {
	Name() string
	// Dependencies lists npm packages the toolchain needs in the staging project
	Dependencies() []string
	// Bundle compiles req and returns the output path. Compiler failures are
	// returned as *CompileError.
	Bundle(ctx context.Context, req Request) (string, error)
}

// Select picks webpack for browser targets and esbuild for Node targets
func Select(kind adapter.Kind, commander types.Commander, errLog *ErrorLog) (Bundler, error) {
	switch kind {
	case adapter.KindWeb:
		return NewWebpack(commander, errLog), nil
	case adapter.KindNode:
		return NewEsbuild(errLog), nil
	default:
		return nil, fmt.Errorf("no bundler for adapter kind %q", kind)
	}
}

// fail records a compile error in the error log and returns it
func fail(errLog *ErrorLog, req Request, cerr *CompileError) error {
	errLog.Record(cerr.Bundler, req.FileName, cerr.Diagnostics)
	return cerr
}
