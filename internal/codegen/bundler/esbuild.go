package bundler

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Esbuild bundles Node instrumentation in-process with the esbuild Go API
type Esbuild struct {
	errLog *ErrorLog
}

func NewEsbuild(errLog *ErrorLog) *Esbuild {
	return &Esbuild{errLog: errLog}
}

func (e *Esbuild) Name() string { return "esbuild" }

// Dependencies is empty, esbuild runs in-process
func (e *Esbuild) Dependencies() []string { return nil }

func (e *Esbuild) Bundle(ctx context.Context, req Request) (string, error) {
	req, err := req.resolve()
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	options := api.BuildOptions{
		EntryPoints:       []string{req.EntryPoint},
		Bundle:            true,
		Outfile:           req.OutputPath(),
		Write:             true,
		Platform:          api.PlatformNode,
		Format:            api.FormatCommonJS,
		Target:            api.ES2020,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		AbsWorkingDir:     req.ProjectRoot,
		LogLevel:          api.LogLevelSilent,
		// optional native addons of ws
		External: []string{"bufferutil", "utf-8-validate"},
	}
	if tsconfig := filepath.Join(req.ProjectRoot, "tsconfig.json"); fileExists(tsconfig) {
		options.Tsconfig = tsconfig
	}

	result := api.Build(options)
	if len(result.Errors) > 0 {
		formatted := api.FormatMessages(result.Errors, api.FormatMessagesOptions{Kind: api.ErrorMessage})
		return "", fail(e.errLog, req, &CompileError{Bundler: e.Name(), Diagnostics: strings.Join(formatted, "\n")})
	}
	return req.OutputPath(), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
