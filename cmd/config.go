package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/getlawrence/otelinject/internal/config"
	"github.com/getlawrence/otelinject/internal/logger"
	"github.com/getlawrence/otelinject/internal/telemetry"
)

// AppConfig holds all the shared configuration and dependencies
type AppConfig struct {
	Logger      logger.Logger
	ConfigPath  string
	Verbose     bool
	Interactive bool

	shutdown telemetry.ShutdownFunc
	sync     func() error
}

// NewAppConfig creates a new configuration instance
func NewAppConfig(l logger.Logger) *AppConfig {
	if l == nil {
		l = &logger.StdoutLogger{}
	}
	return &AppConfig{Logger: l}
}

func appConfig(cmd *cobra.Command) *AppConfig {
	if cfg, ok := cmd.Context().Value(ConfigKey).(*AppConfig); ok && cfg != nil {
		return cfg
	}
	return NewAppConfig(nil)
}

// runConfigFlags are shared by the commands that read a run configuration
type runConfigFlags struct {
	assetsDir   string
	name        string
	appType     string
	technology  string
	skipInstall bool
}

func (f *runConfigFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.assetsDir, "assets-dir", "", "staging directory for sources, bundles and logs")
	cmd.Flags().StringVar(&f.name, "name", "", "application name")
	cmd.Flags().StringVar(&f.appType, "type", "", "application platform (frontend, backend)")
	cmd.Flags().StringVar(&f.technology, "technology", "", "application technology (react, angular, node)")
	cmd.Flags().BoolVar(&f.skipInstall, "skip-install", false, "do not validate or install npm dependencies")
}

// loadRunConfig loads the configuration file, applies the flags and the
// codebase argument, and validates the result
func (f *runConfigFlags) load(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load(appConfig(cmd).ConfigPath)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Application.CodebasePath = args[0]
	}
	abs, err := filepath.Abs(cfg.Application.CodebasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	cfg.Application.CodebasePath = abs

	if f.assetsDir != "" {
		cfg.AssetsDir = f.assetsDir
	}
	if f.name != "" {
		cfg.Application.Name = f.name
	}
	if f.appType != "" {
		cfg.Application.Type = f.appType
	}
	if f.technology != "" {
		cfg.Application.Technology = f.technology
	}
	if f.skipInstall {
		cfg.SkipInstall = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
