package bundler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/getlawrence/otelinject/internal/codegen/dependency/types"
)

// WebpackConfigFile is written into the staging project root
const WebpackConfigFile = "webpack.config.js"

// Webpack bundles browser instrumentation by running webpack through npx
type Webpack struct {
	commander types.Commander
	errLog    *ErrorLog
}

func NewWebpack(commander types.Commander, errLog *ErrorLog) *Webpack {
	return &Webpack{commander: commander, errLog: errLog}
}

func (w *Webpack) Name() string { return "webpack" }

func (w *Webpack) Dependencies() []string {
	return []string{
		"webpack@^5.95.0",
		"webpack-cli@^5.1.4",
		"ts-loader@^9.5.1",
		"typescript@^5.6.3",
	}
}

func (w *Webpack) Bundle(ctx context.Context, req Request) (string, error) {
	req, err := req.resolve()
	if err != nil {
		return "", err
	}
	if _, err := w.commander.LookPath("npx"); err != nil {
		return "", fmt.Errorf("webpack needs npx on the PATH: %w", err)
	}

	entry, err := filepath.Rel(req.ProjectRoot, req.EntryPoint)
	if err != nil {
		return "", fmt.Errorf("entry point outside project: %w", err)
	}
	config := RenderWebpackConfig("./"+filepath.ToSlash(entry), req.OutDir, req.FileName)
	if err := os.WriteFile(filepath.Join(req.ProjectRoot, WebpackConfigFile), []byte(config), 0o644); err != nil {
		return "", fmt.Errorf("write webpack config: %w", err)
	}
	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("create bundle dir: %w", err)
	}

	out, err := w.commander.Run(ctx, "npx", []string{"--no-install", "webpack", "--config", WebpackConfigFile}, req.ProjectRoot)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		diagnostics := out
		if diagnostics == "" {
			diagnostics = err.Error()
		}
		return "", fail(w.errLog, req, &CompileError{Bundler: w.Name(), Diagnostics: diagnostics})
	}
	if _, err := os.Stat(req.OutputPath()); err != nil {
		return "", fail(w.errLog, req, &CompileError{Bundler: w.Name(), Diagnostics: "webpack finished without writing " + req.OutputPath() + "\n" + out})
	}
	return req.OutputPath(), nil
}

// RenderWebpackConfig produces a production config compiling TypeScript with ts-loader
func RenderWebpackConfig(entry, outDir, fileName string) string {
	return fmt.Sprintf(`module.exports = {
  mode: 'production',
  target: 'web',
  entry: %s,
  module: {
    rules: [
      {
        test: /\.ts$/,
        use: 'ts-loader',
        exclude: /node_modules/,
      },
    ],
  },
  resolve: {
    extensions: ['.ts', '.js'],
  },
  output: {
    path: %s,
    filename: %s,
  },
  optimization: {
    minimize: true,
  },
};
`, strconv.Quote(entry), strconv.Quote(outDir), strconv.Quote(fileName))
}
