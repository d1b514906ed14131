package generator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/getlawrence/otelinject/internal/codegen/adapter"
	"github.com/getlawrence/otelinject/internal/codegen/bundler"
	"github.com/getlawrence/otelinject/internal/codegen/dependency/commander"
	"github.com/getlawrence/otelinject/internal/codegen/dependency/orchestrator"
	"github.com/getlawrence/otelinject/internal/codegen/dependency/types"
	"github.com/getlawrence/otelinject/internal/codegen/strategy"
	"github.com/getlawrence/otelinject/internal/codegen/workspace"
	"github.com/getlawrence/otelinject/internal/domain"
	"github.com/getlawrence/otelinject/internal/logger"
	"github.com/getlawrence/otelinject/internal/templates"
)

const tracerName = "github.com/getlawrence/otelinject/internal/codegen/generator"

// ErrUnsupportedTarget is returned when no tracing adapter matches the
// application's platform and technology. The bundle returned alongside it is
// empty and nothing was compiled.
var ErrUnsupportedTarget = errors.New("unsupported application platform/technology")

// BundlerFactory picks the bundler for an adapter kind
type BundlerFactory func(kind adapter.Kind, errLog *bundler.ErrorLog) (bundler.Bundler, error)

// Generator turns an application description and telemetry configuration
// into a compiled instrumentation bundle on disk
type Generator struct {
	layout      workspace.Layout
	engine      *templates.TemplateEngine
	commander   types.Commander
	logger      logger.Logger
	tracer      trace.Tracer
	now         func() time.Time
	skipInstall bool
	newBundler  BundlerFactory
}

// Option customizes a Generator
type Option func(*Generator)

// WithClock sets the clock stamping bundle file names
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithCommander sets the command runner used for npm and npx
func WithCommander(c types.Commander) Option {
	return func(g *Generator) { g.commander = c }
}

// WithTracerProvider sets where the generator's own spans go
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(g *Generator) { g.tracer = tp.Tracer(tracerName) }
}

// WithSkipInstall disables dependency validation and installation
func WithSkipInstall(skip bool) Option {
	return func(g *Generator) { g.skipInstall = skip }
}

// WithBundlerFactory replaces the webpack/esbuild selection
func WithBundlerFactory(f BundlerFactory) Option {
	return func(g *Generator) { g.newBundler = f }
}

// NewGenerator creates a generator staging its work below layout
func NewGenerator(layout workspace.Layout, l logger.Logger, opts ...Option) (*Generator, error) {
	engine, err := templates.NewTemplateEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize template engine: %w", err)
	}
	if l == nil {
		l = logger.Nop{}
	}
	g := &Generator{
		layout:    layout,
		engine:    engine,
		commander: commander.NewReal(),
		logger:    l,
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.newBundler == nil {
		g.newBundler = func(kind adapter.Kind, errLog *bundler.ErrorLog) (bundler.Bundler, error) {
			return bundler.Select(kind, g.commander, errLog)
		}
	}
	return g, nil
}

// Generate produces the instrumentation bundle for app. The returned bundle
// is never nil. Compilation failures are returned as *bundler.CompileError;
// dependency installation failures are only logged.
func (g *Generator) Generate(ctx context.Context, app domain.ApplicationMetadata, metrics []domain.Metric, cfg domain.TracingInstrumentationConfig) (*domain.InstrumentationBundle, error) {
	ctx, span := g.tracer.Start(ctx, "generator.Generate", trace.WithAttributes(
		attribute.String("app.name", app.Name),
		attribute.String("app.platform", app.Type),
		attribute.String("app.technology", app.Technology),
	))
	defer span.End()

	bundle, err := g.generate(ctx, app, metrics, cfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.Int("bundle.files", len(bundle.Files)))
	return bundle, err
}

func (g *Generator) generate(ctx context.Context, app domain.ApplicationMetadata, metrics []domain.Metric, cfg domain.TracingInstrumentationConfig) (*domain.InstrumentationBundle, error) {
	required := domain.RequiredTelemetryTypes(metrics, cfg.TelemetryConfig)
	if !domain.ContainsTelemetryType(required, domain.TelemetryTracing) {
		g.logger.Logf("Warning: tracing is not required for %s; nothing to generate\n", app.Name)
		return domain.NewInstrumentationBundle(app, g.now()), nil
	}

	tracingAdapter, ok := adapter.Select(app)
	if !ok {
		g.logger.Logf("Warning: no tracing adapter for %s/%s; the bundle of %s stays empty\n", app.Type, app.Technology, app.Name)
		return domain.NewInstrumentationBundle(app, g.now()),
			fmt.Errorf("%w: %s/%s", ErrUnsupportedTarget, app.Type, app.Technology)
	}

	var files []domain.Instrumentation
	var deps []string
	run := func(s strategy.Strategy) error {
		produced, err := s.Generate()
		if err != nil {
			return fmt.Errorf("%s strategy: %w", s.Kind(), err)
		}
		files = append(files, produced...)
		deps = append(deps, s.Dependencies()...)
		return nil
	}

	for _, s := range strategy.Auxiliary(g.engine, app, cfg) {
		if err := run(s); err != nil {
			return domain.NewInstrumentationBundle(app, g.now()), err
		}
	}

	bundle := domain.NewInstrumentationBundle(app, g.now())
	name := app.NormalizedName()
	bundle.ProjectRootPath = g.layout.ProjectRoot(name)
	bundle.ParentPath = g.layout.BundleDir(name)
	bundle.Path = filepath.Join(bundle.ParentPath, bundle.FileName)

	if err := run(strategy.NewTracingStrategy(app, cfg, tracingAdapter, bundle.FileName)); err != nil {
		return bundle, err
	}
	g.logger.Logf("Generated %d instrumentation files for %s\n", len(files), app.Name)

	errLog, err := bundler.OpenErrorLog(g.layout.BundlerErrorLog())
	if err != nil {
		g.logger.Logf("Warning: bundler errors will not be persisted: %v\n", err)
		errLog = nil
	}
	defer errLog.Close()

	b, err := g.newBundler(tracingAdapter.Kind(), errLog)
	if err != nil {
		return bundle, err
	}
	deps = append(deps, b.Dependencies()...)

	if err := g.installDependencies(ctx, name, deps); err != nil {
		g.logger.Logf("Warning: dependency installation failed: %v\n", err)
	}

	exported, err := g.export(ctx, name, files)
	if err != nil {
		return bundle, err
	}
	bundle.AddFiles(exported...)

	if err := g.compile(ctx, b, bundle, name); err != nil {
		return bundle, err
	}
	g.logger.Logf("Bundle written to %s\n", bundle.Path)
	return bundle, nil
}

// installDependencies makes sure the staging project can resolve every
// import of the generated files and the bundler toolchain
func (g *Generator) installDependencies(ctx context.Context, name string, deps []string) error {
	ctx, span := g.tracer.Start(ctx, "generator.installDependencies", trace.WithAttributes(attribute.Int("dependencies", len(deps))))
	defer span.End()

	projectRoot := g.layout.ProjectRoot(name)
	if err := orchestrator.EnsureManifest(projectRoot, name+"-instrumentation"); err != nil {
		span.RecordError(err)
		return err
	}
	if g.skipInstall {
		g.logger.Log("Skipping dependency installation")
		return nil
	}
	installed, err := orchestrator.New(g.commander, g.logger).Run(ctx, projectRoot, deps, false)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(attribute.Int("dependencies.installed", len(installed)))
	return nil
}

func (g *Generator) compile(ctx context.Context, b bundler.Bundler, bundle *domain.InstrumentationBundle, name string) error {
	ctx, span := g.tracer.Start(ctx, "generator.compile", trace.WithAttributes(
		attribute.String("bundler", b.Name()),
		attribute.String("bundle.file", bundle.FileName),
	))
	defer span.End()

	g.logger.Logf("Bundling %s with %s\n", bundle.FileName, b.Name())
	_, err := b.Bundle(ctx, bundler.Request{
		ProjectRoot: bundle.ProjectRootPath,
		EntryPoint:  g.layout.IndexFile(name),
		OutDir:      bundle.ParentPath,
		FileName:    bundle.FileName,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
