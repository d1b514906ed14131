package manager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/getlawrence/otelinject/internal/codegen/adapter"
	"github.com/getlawrence/otelinject/internal/codegen/bundler"
	"github.com/getlawrence/otelinject/internal/codegen/dependency/commander"
	"github.com/getlawrence/otelinject/internal/codegen/generator"
	"github.com/getlawrence/otelinject/internal/codegen/injector"
	"github.com/getlawrence/otelinject/internal/codegen/workspace"
	"github.com/getlawrence/otelinject/internal/domain"
	"github.com/getlawrence/otelinject/internal/logger"
)

var fixedNow = time.Date(2026, 10, 17, 9, 30, 12, 345_000_000, time.UTC)

type stubBundler struct{}

func (stubBundler) Name() string           { return "stub" }
func (stubBundler) Dependencies() []string { return nil }

func (stubBundler) Bundle(ctx context.Context, req bundler.Request) (string, error) {
	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return "", err
	}
	return req.OutputPath(), os.WriteFile(req.OutputPath(), []byte("(()=>{})();"), 0o644)
}

func newManager(t *testing.T) (*Manager, workspace.Layout, *logger.Memory, *tracetest.SpanRecorder) {
	t.Helper()
	layout := workspace.NewLayout(filepath.Join(t.TempDir(), "assets"))
	log := &logger.Memory{}
	spans := tracetest.NewSpanRecorder()
	m, err := New(layout, log,
		WithTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))),
		WithGeneratorOptions(
			generator.WithClock(func() time.Time { return fixedNow }),
			generator.WithCommander(commander.NewMock()),
			generator.WithSkipInstall(true),
			generator.WithBundlerFactory(func(adapter.Kind, *bundler.ErrorLog) (bundler.Bundler, error) {
				return stubBundler{}, nil
			}),
		),
	)
	require.NoError(t, err)
	return m, layout, log, spans
}

func TestResolveMetrics(t *testing.T) {
	resolved, err := ResolveMetrics([]domain.Metric{
		{Name: "cpu-usage"},
		{Name: "custom", RequiredTelemetry: []domain.TelemetryType{domain.TelemetryLogging}},
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.TelemetryType{domain.TelemetryTracing, domain.TelemetryMetrics}, resolved[0].RequiredTelemetry)
	assert.Equal(t, []domain.TelemetryType{domain.TelemetryLogging}, resolved[1].RequiredTelemetry)

	_, err = ResolveMetrics([]domain.Metric{{Name: "happiness"}})
	assert.ErrorContains(t, err, `unknown metric "happiness"`)
}

func TestCatalog(t *testing.T) {
	defs := Catalog()
	require.NotEmpty(t, defs)
	for i := 1; i < len(defs); i++ {
		assert.Less(t, defs[i-1].Name, defs[i].Name)
	}
	for _, name := range []string{"page-load-time", "error-rate", "request-latency", "cpu-usage", "log-volume"} {
		_, ok := LookupMetric(name)
		assert.True(t, ok, name)
	}
}

func TestBuildConfig(t *testing.T) {
	base := domain.TracingInstrumentationConfig{}
	base.TelemetryTypes = []domain.TelemetryType{domain.TelemetryMetrics}

	_, cfg, err := BuildConfig([]domain.Metric{{Name: "page-load-time"}, {Name: "log-volume"}}, base)
	require.NoError(t, err)
	assert.Equal(t, []domain.TelemetryType{domain.TelemetryTracing, domain.TelemetryLogging, domain.TelemetryMetrics}, cfg.TelemetryTypes)
	assert.Equal(t, []domain.ExportDestination{{Type: domain.DestinationConsole}}, cfg.ExportDestinations)
	assert.Equal(t, []domain.TelemetryType{domain.TelemetryMetrics}, base.TelemetryTypes, "base must not change")
}

func TestDeploy_React(t *testing.T) {
	m, layout, _, spans := newManager(t)
	codebase := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(codebase, "public"), 0o755))
	page := filepath.Join(codebase, "public", "index.html")
	require.NoError(t, os.WriteFile(page, []byte("<html>\n<body>\n</body>\n</html>\n"), 0o644))

	app := domain.ApplicationMetadata{Name: "Shop", Type: "frontend", Technology: "react", CodebasePath: codebase}
	base := domain.TracingInstrumentationConfig{}
	base.ExportDestinations = []domain.ExportDestination{
		{Type: domain.DestinationLocalCollector, Protocol: domain.ProtocolWebSockets, URL: "ws://localhost:8081"},
	}

	d, err := m.Deploy(context.Background(), app, []domain.Metric{{Name: "page-load-time"}}, base, false)
	require.NoError(t, err)
	require.NotNil(t, d.Injection)
	require.NoError(t, d.Injection.Err())
	assert.Equal(t, "shop_20261017T093012345Z.bundle.js", d.Bundle.FileName)
	assert.FileExists(t, filepath.Join(layout.BundleDir("shop"), d.Bundle.FileName))

	raw, err := os.ReadFile(page)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `<script src="instrumentation/shop_20261017T093012345Z.bundle.js"></script>`)

	var names []string
	for _, s := range spans.Ended() {
		names = append(names, s.Name())
	}
	assert.Contains(t, names, "manager.Deploy")
	assert.Contains(t, names, "generator.Generate")
	assert.Contains(t, names, "injector.Process")
}

func TestDeploy_NothingRequired(t *testing.T) {
	m, _, log, _ := newManager(t)
	app := domain.ApplicationMetadata{Name: "Shop", Type: "frontend", Technology: "react", CodebasePath: t.TempDir()}

	d, err := m.Deploy(context.Background(), app, []domain.Metric{{Name: "log-volume"}}, domain.TracingInstrumentationConfig{}, false)
	require.NoError(t, err)
	assert.Nil(t, d.Injection)
	assert.Empty(t, d.Bundle.Files)
	assert.True(t, log.Contains("skipping injection"))
}

func TestDeploy_Unsupported(t *testing.T) {
	m, _, _, _ := newManager(t)
	app := domain.ApplicationMetadata{Name: "Billing", Type: "backend", Technology: "python", CodebasePath: t.TempDir()}

	d, err := m.Deploy(context.Background(), app, []domain.Metric{{Name: "error-rate"}}, domain.TracingInstrumentationConfig{}, false)
	assert.True(t, errors.Is(err, generator.ErrUnsupportedTarget))
	require.NotNil(t, d.Bundle)
	assert.Empty(t, d.Bundle.Files)
}

func TestDeploy_UnknownMetric(t *testing.T) {
	m, _, _, _ := newManager(t)
	_, err := m.Deploy(context.Background(), domain.ApplicationMetadata{Name: "Shop"}, []domain.Metric{{Name: "nope"}}, domain.TracingInstrumentationConfig{}, false)
	assert.Error(t, err)
}

func TestLatestBundle(t *testing.T) {
	m, layout, _, _ := newManager(t)
	app := domain.ApplicationMetadata{Name: "Shop"}

	_, err := m.LatestBundle(app)
	assert.ErrorIs(t, err, ErrNoBundle)

	dir := layout.BundleDir("shop")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range []string{
		"shop_20261017T093012345Z.bundle.js",
		"shop_20261018T080000000Z.bundle.js",
		"shop-admin_20261019T080000000Z.bundle.js",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	b, err := m.LatestBundle(app)
	require.NoError(t, err)
	assert.Equal(t, "shop_20261018T080000000Z.bundle.js", b.FileName)
	assert.Equal(t, time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC), b.CreatedAt)
}

func TestInject_DryRunExistingBundle(t *testing.T) {
	m, _, _, _ := newManager(t)
	codebase := t.TempDir()
	manifest := `{"name": "orders", "scripts": {"start": "node index.js"}}`
	require.NoError(t, os.WriteFile(filepath.Join(codebase, "package.json"), []byte(manifest), 0o644))

	bundlePath := filepath.Join(t.TempDir(), "orders_20261017T093012345Z.bundle.js")
	require.NoError(t, os.WriteFile(bundlePath, []byte("x"), 0o644))
	bundle, err := BundleFromFile(bundlePath)
	require.NoError(t, err)
	assert.Equal(t, fixedNow, bundle.CreatedAt)

	app := domain.ApplicationMetadata{Name: "Orders", Type: "backend", Technology: "node", CodebasePath: codebase}
	res, err := m.Inject(context.Background(), app, bundle, true)
	require.NoError(t, err)
	require.NoError(t, res.Err())
	assert.True(t, strings.Contains(string(res.Patched), "node --require ./instrumentation/orders_20261017T093012345Z.bundle.js index.js"))

	raw, err := os.ReadFile(filepath.Join(codebase, "package.json"))
	require.NoError(t, err)
	assert.Equal(t, manifest, string(raw))

	_, err = m.Inject(context.Background(), domain.ApplicationMetadata{Type: "backend", Technology: "go"}, bundle, false)
	assert.ErrorIs(t, err, injector.ErrUnsupportedTarget)

	_, err = BundleFromFile(filepath.Join(t.TempDir(), "missing.js"))
	assert.ErrorIs(t, err, ErrNoBundle)
}
