// Package injector deploys a compiled bundle into a target application and
// wires it into the application's startup path.
package injector

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

	"github.com/getlawrence/otelinject/internal/domain"
	"github.com/getlawrence/otelinject/internal/logger"
)

const tracerName = "github.com/getlawrence/otelinject/internal/codegen/injector"

// ErrUnsupportedTarget is returned by New when no framework variant matches
var ErrUnsupportedTarget = errors.New("no injector for application platform/technology")

// State is a step of the injection state machine
type State string

const (
	StateCreated       State = "created"
	StatePreInjecting  State = "pre-injecting"
	StateInjecting     State = "injecting"
	StatePostInjecting State = "post-injecting"
	StateDone          State = "done"
)

// Result reports what one Process call did. Phase failures never stop the
// machine; they are collected here and logged.
type Result struct {
	Target string
	// BundlePath is the copy of the bundle inside the target application
	BundlePath string
	// EntryPath is the HTML page or package.json that was patched
	EntryPath string
	Modified  bool
	DryRun    bool
	// Patched holds the entry file content after injection, set in dry runs
	Patched []byte
	Errors  map[State]error
}

// Err joins the phase errors in phase order
func (r *Result) Err() error {
	var errs []error
	for _, s := range []State{StatePreInjecting, StateInjecting, StatePostInjecting} {
		if err := r.Errors[s]; err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s, err))
		}
	}
	return errors.Join(errs...)
}

// Injector copies one bundle into one application
type Injector struct {
	app    domain.ApplicationMetadata
	bundle *domain.InstrumentationBundle
	target Target
	logger logger.Logger
	tracer trace.Tracer
	dryRun bool
	state  State
}

// Option customizes an Injector
type Option func(*Injector)

// WithDryRun computes the patch without writing anything
func WithDryRun(dryRun bool) Option {
	return func(i *Injector) { i.dryRun = dryRun }
}

// WithTracerProvider sets where the injector's own spans go
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(i *Injector) { i.tracer = tp.Tracer(tracerName) }
}

// New creates an injector for bundle and app. It fails with
// ErrUnsupportedTarget when the application's platform and technology match
// no framework variant.
func New(app domain.ApplicationMetadata, bundle *domain.InstrumentationBundle, l logger.Logger, opts ...Option) (*Injector, error) {
	if l == nil {
		l = logger.Nop{}
	}
	i := &Injector{
		app:    app,
		bundle: bundle,
		logger: l,
		tracer: otel.Tracer(tracerName),
		state:  StateCreated,
	}
	for _, opt := range opts {
		opt(i)
	}
	target, ok := SelectTarget(app)
	if !ok {
		l.Logf("Warning: no injector for %s/%s\n", app.Type, app.Technology)
		return nil, fmt.Errorf("%w: %s/%s", ErrUnsupportedTarget, app.Type, app.Technology)
	}
	i.target = target
	if bundle == nil {
		return nil, errors.New("no bundle to inject")
	}
	return i, nil
}

// State returns the current state
func (i *Injector) State() State { return i.state }

// Process walks created -> pre-injecting -> injecting -> post-injecting -> done.
// Each phase runs even when an earlier one failed.
func (i *Injector) Process(ctx context.Context) *Result {
	ctx, span := i.tracer.Start(ctx, "injector.Process", trace.WithAttributes(
		attribute.String("target", i.target.Name()),
		attribute.String("bundle.file", i.bundle.FileName),
		attribute.Bool("dry_run", i.dryRun),
	))
	defer span.End()

	res := &Result{
		Target:     i.target.Name(),
		BundlePath: filepath.Join(i.app.CodebasePath, i.target.AssetsDir(), i.bundle.FileName),
		EntryPath:  filepath.Join(i.app.CodebasePath, i.target.EntryFile()),
		DryRun:     i.dryRun,
		Errors:     make(map[State]error),
	}

	phases := []struct {
		state State
		run   func(*Result) error
	}{
		{StatePreInjecting, i.preInject},
		{StateInjecting, i.inject},
		{StatePostInjecting, i.postInject},
	}
	for _, phase := range phases {
		i.state = phase.state
		_, phaseSpan := i.tracer.Start(ctx, "injector."+string(phase.state))
		if err := phase.run(res); err != nil {
			res.Errors[phase.state] = err
			i.logger.Logf("Error: %s %s: %v\n", i.target.Name(), phase.state, err)
			phaseSpan.RecordError(err)
			phaseSpan.SetStatus(codes.Error, err.Error())
		}
		phaseSpan.End()
	}
	i.state = StateDone

	if err := res.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.Bool("modified", res.Modified))
	return res
}

// preInject copies the compiled bundle into the application's asset directory
func (i *Injector) preInject(res *Result) error {
	if _, err := os.Stat(i.bundle.Path); err != nil {
		return fmt.Errorf("compiled bundle: %w", err)
	}
	if i.dryRun {
		i.logger.Logf("Would copy %s to %s\n", i.bundle.Path, res.BundlePath)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(res.BundlePath), 0o755); err != nil {
		return fmt.Errorf("create asset dir: %w", err)
	}
	if err := copyFile(i.bundle.Path, res.BundlePath); err != nil {
		return fmt.Errorf("copy bundle: %w", err)
	}
	i.logger.Logf("Copied %s to %s\n", i.bundle.FileName, res.BundlePath)
	return nil
}

// inject patches the entry file so the application loads the bundle
func (i *Injector) inject(res *Result) error {
	content, err := os.ReadFile(res.EntryPath)
	if err != nil {
		return fmt.Errorf("read entry file: %w", err)
	}
	patched, err := i.target.Patch(content, res.EntryPath, res.BundlePath)
	if err != nil {
		return fmt.Errorf("patch %s: %w", filepath.Base(res.EntryPath), err)
	}
	if i.dryRun {
		res.Patched = patched
		i.logger.Logf("Would modify file: %s\n", res.EntryPath)
		return nil
	}
	info, err := os.Stat(res.EntryPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(res.EntryPath, patched, info.Mode().Perm()); err != nil {
		return fmt.Errorf("write entry file: %w", err)
	}
	res.Modified = true
	i.logger.Logf("Successfully modified: %s\n", res.EntryPath)
	return nil
}

// postInject reports the outcome; no framework needs further changes today
func (i *Injector) postInject(res *Result) error {
	if res.Modified {
		i.logger.Logf("%s loads %s on startup\n", i.app.Name, i.bundle.FileName)
	}
	return nil
}
