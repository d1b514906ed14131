// Package manager is the entry point of a run: it turns requested metrics
// into a tracing configuration, generates the bundle and deploys it.
package manager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/getlawrence/otelinject/internal/codegen/generator"
	"github.com/getlawrence/otelinject/internal/codegen/injector"
	"github.com/getlawrence/otelinject/internal/codegen/workspace"
	"github.com/getlawrence/otelinject/internal/domain"
	"github.com/getlawrence/otelinject/internal/logger"
)

const tracerName = "github.com/getlawrence/otelinject/internal/manager"

// ErrNoBundle is returned when there is no compiled bundle to inject
var ErrNoBundle = errors.New("no compiled bundle")

// Manager drives generation and injection for one staging layout
type Manager struct {
	layout       workspace.Layout
	logger       logger.Logger
	tracer       trace.Tracer
	generator    *generator.Generator
	genOpts      []generator.Option
	injectorOpts []injector.Option
}

// Option customizes a Manager
type Option func(*Manager)

// WithGeneratorOptions passes options to the generator
func WithGeneratorOptions(opts ...generator.Option) Option {
	return func(m *Manager) { m.genOpts = append(m.genOpts, opts...) }
}

// WithTracerProvider sends the spans of the manager, generator and injector to tp
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(m *Manager) {
		m.tracer = tp.Tracer(tracerName)
		m.genOpts = append(m.genOpts, generator.WithTracerProvider(tp))
		m.injectorOpts = append(m.injectorOpts, injector.WithTracerProvider(tp))
	}
}

// New creates a manager staging below layout
func New(layout workspace.Layout, l logger.Logger, opts ...Option) (*Manager, error) {
	if l == nil {
		l = logger.Nop{}
	}
	m := &Manager{
		layout: layout,
		logger: l,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(m)
	}
	gen, err := generator.NewGenerator(layout, l, m.genOpts...)
	if err != nil {
		return nil, err
	}
	m.generator = gen
	return m, nil
}

// BuildConfig resolves metrics against the catalog and returns base with its
// telemetry types set to everything the metrics and base require. Without any
// export destination spans go to the console.
func BuildConfig(metrics []domain.Metric, base domain.TracingInstrumentationConfig) ([]domain.Metric, domain.TracingInstrumentationConfig, error) {
	resolved, err := ResolveMetrics(metrics)
	if err != nil {
		return nil, base, err
	}
	cfg := base
	cfg.TelemetryTypes = domain.RequiredTelemetryTypes(resolved, base.TelemetryConfig)
	if len(cfg.ExportDestinations) == 0 {
		cfg.ExportDestinations = []domain.ExportDestination{{Type: domain.DestinationConsole}}
	}
	return resolved, cfg, nil
}

// Generate builds the configuration and produces the bundle of app
func (m *Manager) Generate(ctx context.Context, app domain.ApplicationMetadata, metrics []domain.Metric, base domain.TracingInstrumentationConfig) (*domain.InstrumentationBundle, error) {
	resolved, cfg, err := BuildConfig(metrics, base)
	if err != nil {
		return nil, err
	}
	return m.generator.Generate(ctx, app, resolved, cfg)
}

// Deployment is the outcome of Deploy
type Deployment struct {
	Bundle    *domain.InstrumentationBundle
	Injection *injector.Result
}

// Deploy generates the bundle of app and injects it into the application.
// When nothing was generated Injection stays nil. Injection phase failures
// are reported in Injection, not as an error.
func (m *Manager) Deploy(ctx context.Context, app domain.ApplicationMetadata, metrics []domain.Metric, base domain.TracingInstrumentationConfig, dryRun bool) (*Deployment, error) {
	ctx, span := m.tracer.Start(ctx, "manager.Deploy", trace.WithAttributes(
		attribute.String("app.name", app.Name),
		attribute.Bool("dry_run", dryRun),
	))
	defer span.End()

	bundle, err := m.Generate(ctx, app, metrics, base)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return &Deployment{Bundle: bundle}, err
	}
	d := &Deployment{Bundle: bundle}
	if len(bundle.Files) == 0 {
		m.logger.Logf("Warning: nothing was generated for %s; skipping injection\n", app.Name)
		return d, nil
	}

	res, err := m.Inject(ctx, app, bundle, dryRun)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return d, err
	}
	d.Injection = res
	return d, nil
}

// Inject deploys an already compiled bundle into app
func (m *Manager) Inject(ctx context.Context, app domain.ApplicationMetadata, bundle *domain.InstrumentationBundle, dryRun bool) (*injector.Result, error) {
	opts := append(append([]injector.Option(nil), m.injectorOpts...), injector.WithDryRun(dryRun))
	inj, err := injector.New(app, bundle, m.logger, opts...)
	if err != nil {
		return nil, err
	}
	return inj.Process(ctx), nil
}

// LatestBundle returns the newest compiled bundle of app in the staging
// layout, judged by the timestamp in its file name
func (m *Manager) LatestBundle(app domain.ApplicationMetadata) (*domain.InstrumentationBundle, error) {
	name := app.NormalizedName()
	dir := m.layout.BundleDir(name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w for %s in %s", ErrNoBundle, app.Name, dir)
		}
		return nil, err
	}

	var latest *domain.InstrumentationBundle
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		bundleApp, createdAt, err := domain.ParseBundleFileName(e.Name())
		if err != nil || bundleApp != name {
			continue
		}
		if latest == nil || createdAt.After(latest.CreatedAt) {
			latest = &domain.InstrumentationBundle{
				FileName:        e.Name(),
				Path:            filepath.Join(dir, e.Name()),
				ParentPath:      dir,
				ProjectRootPath: m.layout.ProjectRoot(name),
				CreatedAt:       createdAt,
			}
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("%w for %s in %s", ErrNoBundle, app.Name, dir)
	}
	return latest, nil
}

// BundleFromFile describes a bundle file compiled elsewhere
func BundleFromFile(path string) (*domain.InstrumentationBundle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoBundle, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNoBundle, path)
	}
	b := &domain.InstrumentationBundle{
		FileName:   filepath.Base(path),
		Path:       path,
		ParentPath: filepath.Dir(path),
		CreatedAt:  info.ModTime().UTC(),
	}
	if _, createdAt, err := domain.ParseBundleFileName(b.FileName); err == nil {
		b.CreatedAt = createdAt
	}
	return b, nil
}
