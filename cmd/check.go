package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/getlawrence/otelinject/internal/preflight"
	"github.com/getlawrence/otelinject/internal/ui"
)

var (
	checkFlags   runConfigFlags
	checkTimeout time.Duration
	checkStrict  bool
)

var checkCmd = &cobra.Command{
	Use:   "check [codebase-path]",
	Short: "Validate the configuration and probe the export destinations",
	Long: `Check validates the run configuration and tries to reach every collector
destination: OTLP endpoints get an empty JSON POST, WebSocket endpoints a
handshake. Unreachable destinations are warnings unless --strict is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkFlags.register(checkCmd)
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 5*time.Second, "timeout of each probe")
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "fail when a destination is unreachable")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := checkFlags.load(cmd, args)
	if err != nil {
		return err
	}

	checker := preflight.NewChecker(checkTimeout, appConfig(cmd).Logger)
	results := checker.Check(cmd.Context(), cfg.Telemetry.ExportDestinations)
	printOut(cmd, ui.RenderChecks(results))

	if checkStrict && !preflight.AllReachable(results) {
		return errors.New("some export destinations are unreachable")
	}
	return nil
}
