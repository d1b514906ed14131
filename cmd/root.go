package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/getlawrence/otelinject/internal/logger"
	"github.com/getlawrence/otelinject/internal/telemetry"
)

// Context key for configuration
const ConfigKey = "config"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "otelinject",
	Short: "Generate and inject OpenTelemetry tracing bundles",
	Long: `otelinject generates OpenTelemetry tracing instrumentation for web and
Node applications, compiles it into a single bundle and injects that bundle
into the application's startup path.

Frontends (React, Angular) load the bundle from a <script> tag in their HTML
page. Node backends preload it with --require in the package.json start script.`,
	Version:            Version,
	SilenceUsage:       true,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: teardownApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	config := NewAppConfig(nil)
	ctx := context.WithValue(context.Background(), ConfigKey, config)
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().String("trace-exporter", telemetry.ExporterNone, "trace otelinject itself (none, stdout, otlp)")
	rootCmd.PersistentFlags().String("trace-endpoint", "", "OTLP/HTTP traces URL for --trace-exporter otlp")
	rootCmd.PersistentFlags().StringP("config", "c", "", "run configuration file (default ./otelinject.yaml)")
}

// setupApp picks the logger and starts self-tracing for every command
func setupApp(cmd *cobra.Command, args []string) error {
	app := appConfig(cmd)
	flags := cmd.Flags()
	verbose, _ := flags.GetBool("verbose")
	format, _ := flags.GetString("log-format")
	exporter, _ := flags.GetString("trace-exporter")
	endpoint, _ := flags.GetString("trace-endpoint")
	app.ConfigPath, _ = flags.GetString("config")
	app.Verbose = verbose

	switch format {
	case "json":
		z, err := logger.NewZapLogger("json", verbose)
		if err != nil {
			return err
		}
		app.Logger = z
		app.sync = z.Sync
		app.Interactive = false
	case "text", "":
		app.Interactive = logger.IsInteractive()
		if app.Interactive {
			app.Logger = logger.NewUILogger()
		} else {
			app.Logger = &logger.StdoutLogger{Out: cmd.OutOrStdout()}
		}
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", format)
	}

	shutdown, err := telemetry.Setup(cmd.Context(), telemetry.Options{
		Exporter:       exporter,
		Endpoint:       endpoint,
		Writer:         os.Stderr,
		ServiceVersion: Version,
	})
	if err != nil {
		return err
	}
	app.shutdown = shutdown
	return nil
}

func teardownApp(cmd *cobra.Command, args []string) error {
	app := appConfig(cmd)
	if app.shutdown != nil {
		if err := app.shutdown(context.Background()); err != nil {
			app.Logger.Logf("Warning: flushing traces failed: %v\n", err)
		}
	}
	if app.sync != nil {
		_ = app.sync()
	}
	return nil
}
