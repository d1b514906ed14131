package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/getlawrence/otelinject/internal/domain"
	"github.com/getlawrence/otelinject/internal/logger"
	"github.com/getlawrence/otelinject/internal/ui"
)

var generateFlags runConfigFlags

var generateCmd = &cobra.Command{
	Use:   "generate [codebase-path]",
	Short: "Generate and compile the instrumentation bundle",
	Long: `Generate renders the OpenTelemetry tracing sources for the configured
application, installs their npm dependencies and compiles them into a single
timestamped bundle below <assets-dir>/bundles/<app>. Sources are staged in
<assets-dir>/instrumentations/<app>.

The application code is not modified; use deploy or inject for that.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateFlags.register(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := generateFlags.load(cmd, args)
	if err != nil {
		return err
	}

	var bundle *domain.InstrumentationBundle
	err = runAction(cmd, "Generating instrumentation for "+cfg.Application.Name, func(ctx context.Context, l logger.Logger) error {
		mgr, err := newManager(cfg, l)
		if err != nil {
			return err
		}
		bundle, err = mgr.Generate(ctx, cfg.Application, cfg.Metrics, cfg.Telemetry)
		return err
	})
	printOut(cmd, ui.RenderBundle(bundle))
	return err
}
