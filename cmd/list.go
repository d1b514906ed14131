package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getlawrence/otelinject/internal/codegen/adapter"
	"github.com/getlawrence/otelinject/internal/manager"
	"github.com/getlawrence/otelinject/internal/templates"
	"github.com/getlawrence/otelinject/internal/ui"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List metrics, integrations, events and templates",
	Long: `List displays what otelinject knows about.

Available subcommands:
  metrics       List built-in metrics and the telemetry they need
  integrations  List Node auto-instrumentations
  events        List user interaction events for frontends
  templates     List the utility templates rendered into bundles`,
}

var listMetricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "List built-in metrics",
	Run: func(cmd *cobra.Command, args []string) {
		printOut(cmd, ui.RenderCatalog(manager.Catalog()))
	},
}

var listIntegrationsCmd = &cobra.Command{
	Use:   "integrations",
	Short: "List Node auto-instrumentations",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "🔧 Node Integrations:\n")
		fmt.Fprintf(out, "====================\n\n")
		for _, in := range adapter.NodeIntegrations() {
			fmt.Fprintf(out, "📦 %s\n", in.Key)
			fmt.Fprintf(out, "   %s\n", in.Module)
			if in.Package != "" {
				fmt.Fprintf(out, "   Enabled for: %s\n", in.Package)
			}
			fmt.Fprintln(out)
		}
	},
}

var listEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List user interaction events",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "🖱️  User Interaction Events:\n")
		fmt.Fprintf(out, "===========================\n\n")
		for _, ev := range adapter.UserInteractionEvents() {
			fmt.Fprintf(out, "  • %s\n", ev)
		}
	},
}

var listTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List utility templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := templates.NewTemplateEngine()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "📄 Templates:\n")
		fmt.Fprintf(out, "============\n\n")
		for _, name := range engine.GetAvailableTemplates() {
			fmt.Fprintf(out, "  • %s\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.AddCommand(listMetricsCmd)
	listCmd.AddCommand(listIntegrationsCmd)
	listCmd.AddCommand(listEventsCmd)
	listCmd.AddCommand(listTemplatesCmd)
}
