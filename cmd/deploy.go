package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/getlawrence/otelinject/internal/logger"
	"github.com/getlawrence/otelinject/internal/manager"
	"github.com/getlawrence/otelinject/internal/ui"
)

var (
	deployFlags  runConfigFlags
	deployDryRun bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy [codebase-path]",
	Short: "Generate the bundle and inject it into the application",
	Long: `Deploy runs generate and then injects the new bundle: frontends get a
<script> tag in their HTML page, Node backends get --require in their start
script. A failed injection phase is reported and makes the command fail.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDeploy,
}

func init() {
	rootCmd.AddCommand(deployCmd)
	deployFlags.register(deployCmd)
	deployCmd.Flags().BoolVar(&deployDryRun, "dry-run", false, "show the patched entry file without writing anything")
}

func runDeploy(cmd *cobra.Command, args []string) error {
	cfg, err := deployFlags.load(cmd, args)
	if err != nil {
		return err
	}

	var d *manager.Deployment
	err = runAction(cmd, "Deploying instrumentation to "+cfg.Application.Name, func(ctx context.Context, l logger.Logger) error {
		mgr, err := newManager(cfg, l)
		if err != nil {
			return err
		}
		d, err = mgr.Deploy(ctx, cfg.Application, cfg.Metrics, cfg.Telemetry, deployDryRun)
		return err
	})
	if d != nil {
		printOut(cmd, ui.RenderBundle(d.Bundle))
		if d.Injection != nil {
			printOut(cmd, "\n"+ui.RenderInjection(d.Injection))
		}
	}
	if err != nil {
		return err
	}
	if d.Injection != nil {
		return d.Injection.Err()
	}
	return nil
}
