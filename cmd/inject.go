package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/getlawrence/otelinject/internal/codegen/injector"
	"github.com/getlawrence/otelinject/internal/domain"
	"github.com/getlawrence/otelinject/internal/logger"
	"github.com/getlawrence/otelinject/internal/manager"
	"github.com/getlawrence/otelinject/internal/ui"
)

var (
	injectFlags  runConfigFlags
	injectBundle string
	injectDryRun bool
)

var injectCmd = &cobra.Command{
	Use:   "inject [codebase-path]",
	Short: "Inject an already compiled bundle into the application",
	Long: `Inject copies a compiled bundle into the application and wires it into the
startup path. Without --bundle the newest bundle of the application in the
assets directory is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInject,
}

func init() {
	rootCmd.AddCommand(injectCmd)
	injectFlags.register(injectCmd)
	injectCmd.Flags().StringVarP(&injectBundle, "bundle", "b", "", "bundle file to inject (default: newest generated bundle)")
	injectCmd.Flags().BoolVar(&injectDryRun, "dry-run", false, "show the patched entry file without writing anything")
}

func runInject(cmd *cobra.Command, args []string) error {
	cfg, err := injectFlags.load(cmd, args)
	if err != nil {
		return err
	}

	var res *injector.Result
	err = runAction(cmd, "Injecting bundle into "+cfg.Application.Name, func(ctx context.Context, l logger.Logger) error {
		mgr, err := newManager(cfg, l)
		if err != nil {
			return err
		}
		var bundle *domain.InstrumentationBundle
		if injectBundle != "" {
			bundle, err = manager.BundleFromFile(injectBundle)
		} else {
			bundle, err = mgr.LatestBundle(cfg.Application)
		}
		if err != nil {
			return err
		}
		res, err = mgr.Inject(ctx, cfg.Application, bundle, injectDryRun)
		return err
	})
	if err != nil {
		return err
	}
	printOut(cmd, ui.RenderInjection(res))
	return res.Err()
}
