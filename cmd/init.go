package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/getlawrence/otelinject/internal/config"
	"github.com/getlawrence/otelinject/internal/detector"
)

var (
	initOutput string
	initForce  bool
)

var initCmd = &cobra.Command{
	Use:   "init [codebase-path]",
	Short: "Write a starter configuration for a codebase",
	Long: `Init detects the application in the codebase and writes a run
configuration that traces it and exports to the console and a local OTLP
collector. Edit the file, then run check and deploy.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initOutput, "output", "o", "", "configuration file to write (default: --config or ./otelinject.yaml)")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing configuration file")
}

func runInit(cmd *cobra.Command, args []string) error {
	targetPath := "."
	if len(args) > 0 {
		targetPath = args[0]
	}
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	d, err := detector.Detect(cmd.Context(), absPath)
	if err != nil {
		return err
	}
	logger := appConfig(cmd).Logger
	if !d.Supported() {
		logger.Logf("Warning: %s (%s) is not supported yet; edit application.type and application.technology\n",
			d.Application.Name, d.Reason)
	}

	path := initOutput
	if path == "" {
		path = config.GetConfigPath(appConfig(cmd).ConfigPath)
	}
	if err := config.WriteSample(path, d.Application, initForce); err != nil {
		return err
	}
	logger.Logf("Wrote %s for %s %s application %s\n",
		path, valueOrUnknown(d.Application.Technology), valueOrUnknown(d.Application.Type), d.Application.Name)
	return nil
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
