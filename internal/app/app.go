// Package app implements the application layer for wasmship.
package app

import (
	"context"
	"errors"
	"io"
	"os"

	"go.trai.ch/wasmship/internal/core/domain"
	"go.trai.ch/wasmship/internal/core/ports"
	"go.trai.ch/wasmship/internal/engine/pipeline"
	"go.trai.ch/wasmship/internal/engine/provision"
	"go.trai.ch/zerr"
)

// Services groups the configuration-independent adapters the App runs on.
type Services struct {
	ConfigLoader ports.ConfigLoader
	Resolver     ports.PathResolver
	Manifests    ports.ManifestLoader
	Revisions    ports.RevisionIndexLoader
	Runner       ports.ProcessRunner
	Fetcher      ports.Fetcher
	Compressor   ports.Compressor
	Hasher       ports.Hasher
	Watcher      ports.SourceWatcher
	Logger       ports.Logger
	Tracer       ports.Tracer
}

// Factories builds the adapters whose construction depends on the loaded configuration.
type Factories struct {
	WasmTool  func(cfg *domain.Config) ports.WasmTool
	Staleness func(cfg *domain.Config) ports.StalenessChecker
	Store     func(layout *domain.Layout) ports.BuildInfoStore
}

// App represents the main application logic.
type App struct {
	Services
	factories Factories

	interactive bool
	stdout      io.Writer
	stderr      io.Writer
}

// New creates a new App instance.
func New(services Services, factories Factories) *App {
	return &App{
		Services:  services,
		factories: factories,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}
}

// WithOutput redirects the output of external processes.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithInteractive runs external processes under a pseudo-terminal.
func (a *App) WithInteractive(interactive bool) *App {
	a.interactive = interactive
	return a
}

type jsonSwitch interface {
	SetJSON(enable bool)
}

// SetJSONLogs switches the logger to JSON output when it supports it.
func (a *App) SetJSONLogs(enable bool) {
	if s, ok := a.Logger.(jsonSwitch); ok {
		s.SetJSON(enable)
	}
}

// load reads the configuration and resolves the project layout for one invocation.
func (a *App) load() (*domain.Config, *domain.Layout, error) {
	cfg, err := a.ConfigLoader.Load()
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to load configuration")
	}
	layout, err := a.Resolver.Resolve(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, layout, nil
}

func (a *App) newPipeline(cfg *domain.Config, layout *domain.Layout) *pipeline.Pipeline {
	p := pipeline.New(
		cfg,
		layout,
		a.Runner,
		a.factories.WasmTool(cfg),
		a.Compressor,
		a.Hasher,
		a.factories.Store(layout),
		a.Logger,
		a.Tracer,
	)
	p.Stdout = a.stdout
	p.Stderr = a.stderr
	p.TTY = a.interactive
	return p
}

func (a *App) newProvisioner(cfg *domain.Config, layout *domain.Layout) *provision.Provisioner {
	return provision.New(cfg, layout, a.Fetcher, a.Manifests, a.Revisions, a.Logger, a.Tracer)
}

// Build runs the build pipeline once.
func (a *App) Build(ctx context.Context) (*domain.BuildReport, error) {
	cfg, layout, err := a.load()
	if err != nil {
		return nil, err
	}
	return a.newPipeline(cfg, layout).Build(ctx)
}

// Watch builds once and then rebuilds whenever the sources become newer than
// the published artifact, until ctx is done. Build failures are logged and
// do not stop the watch.
func (a *App) Watch(ctx context.Context) error {
	cfg, layout, err := a.load()
	if err != nil {
		return err
	}

	p := a.newPipeline(cfg, layout)
	staleness := a.factories.Staleness(cfg)

	a.buildAndLog(ctx, p)
	a.Logger.Info("watching for changes", "path", layout.SourceDir)

	err = a.Watcher.Watch(ctx, layout.SourceDir, func(ctx context.Context, paths []string) {
		stale, err := staleness.NeedsRebuild(layout.SourceDir, layout.PublishedArtifact())
		if err != nil {
			a.Logger.Error(err)
			return
		}
		if !stale {
			return
		}
		a.Logger.Info("change detected", "files", len(paths))
		a.buildAndLog(ctx, p)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *App) buildAndLog(ctx context.Context, p *pipeline.Pipeline) {
	report, err := p.Build(ctx)
	if err != nil {
		a.Logger.Error(err)
		return
	}
	a.Logger.Info("build complete",
		"output", report.Published,
		"size", report.Size,
		"reproducible", report.Reproducible,
	)
}
