package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/getlawrence/otelinject/internal/domain"
)

// tsconfig is the compiler configuration of the staging project
type tsconfig struct {
	CompilerOptions tsCompilerOptions `json:"compilerOptions"`
	Include         []string          `json:"include"`
}

type tsCompilerOptions struct {
	Module           string `json:"module"`
	ModuleResolution string `json:"moduleResolution"`
	Target           string `json:"target"`
	RootDir          string `json:"rootDir"`
	OutDir           string `json:"outDir"`
	Strict           bool   `json:"strict"`
	ESModuleInterop  bool   `json:"esModuleInterop"`
	SkipLibCheck     bool   `json:"skipLibCheck"`
}

func defaultTSConfig() tsconfig {
	return tsconfig{
		CompilerOptions: tsCompilerOptions{
			Module:           "NodeNext",
			ModuleResolution: "NodeNext",
			Target:           "ESNext",
			RootDir:          "./src",
			OutDir:           "./dist",
			Strict:           true,
			ESModuleInterop:  true,
			SkipLibCheck:     true,
		},
		Include: []string{"src/**/*.ts"},
	}
}

// export writes the staging tree of name: src/main, src/utils when a utility
// file exists, src/index.ts and tsconfig.json. Files come back with their
// paths assigned. A previous src tree is replaced.
func (g *Generator) export(ctx context.Context, name string, files []domain.Instrumentation) ([]domain.Instrumentation, error) {
	_, span := g.tracer.Start(ctx, "generator.export", trace.WithAttributes(attribute.Int("files", len(files))))
	defer span.End()

	srcDir := g.layout.SrcDir(name)
	if err := os.RemoveAll(srcDir); err != nil {
		return nil, fmt.Errorf("clean %s: %w", srcDir, err)
	}
	if err := os.MkdirAll(g.layout.MainDir(name), 0o755); err != nil {
		return nil, fmt.Errorf("create main dir: %w", err)
	}
	if hasUtility(files) {
		if err := os.MkdirAll(g.layout.UtilsDir(name), 0o755); err != nil {
			return nil, fmt.Errorf("create utils dir: %w", err)
		}
	}

	exported := make([]domain.Instrumentation, 0, len(files))
	for _, f := range files {
		f.ParentPath = g.layout.MainDir(name)
		if f.IsUtility() {
			f.ParentPath = g.layout.UtilsDir(name)
		}
		f.Path = filepath.Join(f.ParentPath, f.FileName)
		f.SrcPath = srcDir
		f.ProjectRootPath = g.layout.ProjectRoot(name)
		if err := os.WriteFile(f.Path, []byte(f.Content), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.FileName, err)
		}
		exported = append(exported, f)
	}

	if err := os.WriteFile(g.layout.IndexFile(name), []byte(renderIndex(srcDir, exported)), 0o644); err != nil {
		return nil, fmt.Errorf("write index: %w", err)
	}

	raw, err := json.MarshalIndent(defaultTSConfig(), "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(g.layout.TSConfigFile(name), append(raw, '\n'), 0o644); err != nil {
		return nil, fmt.Errorf("write tsconfig: %w", err)
	}
	return exported, nil
}

// renderIndex imports every non-utility file. Utility files are reached
// through the imports of the main files.
func renderIndex(srcDir string, files []domain.Instrumentation) string {
	var b strings.Builder
	for _, f := range files {
		if f.IsUtility() {
			continue
		}
		rel, err := filepath.Rel(srcDir, filepath.Join(f.ParentPath, f.ModuleName()))
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "import './%s';\n", filepath.ToSlash(rel))
	}
	return b.String()
}

func hasUtility(files []domain.Instrumentation) bool {
	for _, f := range files {
		if f.IsUtility() {
			return true
		}
	}
	return false
}
