package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getlawrence/otelinject/internal/codegen/generator"
	"github.com/getlawrence/otelinject/internal/codegen/workspace"
	"github.com/getlawrence/otelinject/internal/config"
	"github.com/getlawrence/otelinject/internal/logger"
	"github.com/getlawrence/otelinject/internal/manager"
	"github.com/getlawrence/otelinject/internal/ui"
)

// runAction runs action behind a spinner on a terminal and directly otherwise
func runAction(cmd *cobra.Command, title string, action ui.Action) error {
	app := appConfig(cmd)
	if app.Interactive {
		return ui.RunSpinner(cmd.Context(), title, action)
	}
	return action(cmd.Context(), app.Logger)
}

// newManager creates a manager for cfg logging to l
func newManager(cfg *config.Config, l logger.Logger) (*manager.Manager, error) {
	return manager.New(workspace.NewLayout(cfg.AssetsDir), l,
		manager.WithGeneratorOptions(generator.WithSkipInstall(cfg.SkipInstall)),
	)
}

// printOut writes rendered output to the command's stdout
func printOut(cmd *cobra.Command, s string) {
	fmt.Fprint(cmd.OutOrStdout(), s)
}

