package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/getlawrence/otelinject/internal/codegen/adapter"
	"github.com/getlawrence/otelinject/internal/codegen/workspace"
	"github.com/getlawrence/otelinject/internal/domain"
)

const (
	// EnvPrefix starts every environment override. Nested keys are separated
	// by a double underscore: OTELINJECT_APPLICATION__CODEBASE_PATH.
	EnvPrefix = "OTELINJECT_"

	DefaultPackageManager = "npm"

	maxConfigFileSize = 1024 * 1024
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Config represents one otelinject run
type Config struct {
	// Root of the staging tree: instrumentations/, bundles/ and logs/
	AssetsDir string `json:"assets_dir" yaml:"assets_dir" koanf:"assets_dir"`

	// Generate without validating or installing npm dependencies
	SkipInstall bool `json:"skip_install" yaml:"skip_install" koanf:"skip_install"`

	PackageManager string `json:"package_manager" yaml:"package_manager" koanf:"package_manager" validate:"oneof=npm"`

	Application domain.ApplicationMetadata `json:"application" yaml:"application" koanf:"application"`

	// Metrics with no telemetry listed are resolved from the built-in catalog
	Metrics []domain.Metric `json:"metrics" yaml:"metrics" koanf:"metrics" validate:"dive"`

	Telemetry domain.TracingInstrumentationConfig `json:"telemetry" yaml:"telemetry" koanf:"telemetry"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		AssetsDir:      workspace.DefaultAssetsDir,
		PackageManager: DefaultPackageManager,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads configPath (YAML or JSON) and applies OTELINJECT_* environment
// overrides. An empty path falls back to the first config file found in the
// working directory; with none found only defaults and environment apply.
// The result is not validated.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		content, err := readConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

// envKey maps OTELINJECT_TELEMETRY__AUTOMATIC_TRACING_OPTIONS__FETCH to
// telemetry.automatic_tracing_options.fetch
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

func applyDefaults(cfg *Config) {
	if cfg.AssetsDir == "" {
		cfg.AssetsDir = workspace.DefaultAssetsDir
	}
	if cfg.PackageManager == "" {
		cfg.PackageManager = DefaultPackageManager
	}
	if cfg.Application.CodebasePath == "" {
		cfg.Application.CodebasePath = "."
	}
}

// Validate checks the struct tags and the cross-field rules: collector
// destinations need a protocol and a URL, integration keys and user
// interaction events must be known.
func (c *Config) Validate() error {
	var problems []string

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		for _, fe := range verrs {
			problems = append(problems, describe(fe))
		}
	}

	for i, dest := range c.Telemetry.ExportDestinations {
		if dest.IsConsole() {
			continue
		}
		if dest.Protocol == "" {
			problems = append(problems, fmt.Sprintf("telemetry.export_destinations[%d]: %s destination needs a protocol", i, dest.Type))
		}
		if dest.URL == "" {
			problems = append(problems, fmt.Sprintf("telemetry.export_destinations[%d]: %s destination needs a url", i, dest.Type))
		}
	}

	opts := c.Telemetry.AutomaticTracingOptions
	for _, key := range sortedKeys(opts.Integrations) {
		if _, ok := adapter.LookupIntegration(key); !ok {
			problems = append(problems, fmt.Sprintf("telemetry.automatic_tracing_options.integrations: unknown integration %q", key))
		}
	}
	for _, ev := range opts.UserInteractions.Events {
		if !adapter.IsUserInteractionEvent(ev) {
			problems = append(problems, fmt.Sprintf("telemetry.automatic_tracing_options.user_interactions.events: unknown event %q", ev))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n  %s", ErrInvalid, strings.Join(problems, "\n  "))
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	if fe.Param() != "" {
		return fmt.Sprintf("%s: failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Sprintf("%s: failed %s", field, fe.Tag())
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// findConfigFile looks for config files in the working directory
func findConfigFile() string {
	candidates := []string{
		"otelinject.yaml",
		"otelinject.yml",
		".otelinject.yaml",
		".otelinject.yml",
		"otelinject.json",
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// GetConfigPath returns the config file path to use
func GetConfigPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}
	if found := findConfigFile(); found != "" {
		return found
	}
	return filepath.Join(".", "otelinject.yaml")
}
