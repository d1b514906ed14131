package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/getlawrence/otelinject/internal/detector"
	"github.com/getlawrence/otelinject/internal/ui"
)

var detectOutput string

var detectCmd = &cobra.Command{
	Use:   "detect [codebase-path]",
	Short: "Detect the platform and technology of a codebase",
	Long: `Detect inspects package.json and the source files of a codebase to find
out whether it is a React or Angular frontend or a Node backend, and which
Node auto-instrumentations are worth enabling.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
	detectCmd.Flags().StringVarP(&detectOutput, "output", "o", "text", "output format (text, json)")
}

func runDetect(cmd *cobra.Command, args []string) error {
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

	switch detectOutput {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case "text":
		printOut(cmd, ui.RenderDetection(d))
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text or json)", detectOutput)
	}
}
