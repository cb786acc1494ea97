// Package pipeline turns the compiled canister module into the published artifact.
package pipeline

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/wasmship/internal/core/domain"
	"go.trai.ch/wasmship/internal/core/ports"
	"go.trai.ch/zerr"
)

// epoch is the modification time given to a published artifact whose rebuild failed.
var epoch = time.Unix(0, 0)

// Pipeline runs compile, validate, inject, optimize, compress and publish in order.
// Any stage failure aborts the remaining stages and leaves intermediate files in place.
type Pipeline struct {
	cfg        *domain.Config
	layout     *domain.Layout
	runner     ports.ProcessRunner
	tool       ports.WasmTool
	compressor ports.Compressor
	hasher     ports.Hasher
	store      ports.BuildInfoStore
	logger     ports.Logger
	tracer     ports.Tracer

	// Stdout and Stderr receive compiler output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
	// TTY runs the compiler under a pseudo-terminal.
	TTY bool

	now func() time.Time
}

// New creates a Pipeline for one resolved layout.
func New(
	cfg *domain.Config,
	layout *domain.Layout,
	runner ports.ProcessRunner,
	tool ports.WasmTool,
	compressor ports.Compressor,
	hasher ports.Hasher,
	store ports.BuildInfoStore,
	logger ports.Logger,
	tracer ports.Tracer,
) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		layout:     layout,
		runner:     runner,
		tool:       tool,
		compressor: compressor,
		hasher:     hasher,
		store:      store,
		logger:     logger,
		tracer:     tracer,
		now:        time.Now,
	}
}

// Build runs the pipeline and reports the published artifact.
// Each stage runs in its own span under a "build" span.
//
// On failure an existing published artifact is marked stale by resetting its
// modification time, so the next rebuild check does not trust it.
func (p *Pipeline) Build(ctx context.Context) (report *domain.BuildReport, err error) {
	ctx, span := p.tracer.Start(ctx, "build")
	span.SetAttribute("artifact", p.layout.ArtifactName)
	defer func() {
		if err != nil {
			span.RecordError(err)
			p.invalidate()
		}
		span.End()
	}()

	if err := p.stage(ctx, "compile", p.compile); err != nil {
		return nil, err
	}
	if err := p.stage(ctx, "validate", func(context.Context, ports.Span) error { return p.validate() }); err != nil {
		return nil, err
	}

	raw := p.layout.RawArtifact()
	augmented := p.layout.AugmentedArtifact()
	published := p.layout.PublishedArtifact()

	err = p.stage(ctx, "inject", func(ctx context.Context, _ ports.Span) error {
		p.logger.Info("injecting interface metadata", "section", p.cfg.Project.MetadataName)
		return p.tool.InjectMetadata(ctx, raw, augmented, p.layout.InterfaceFile)
	})
	if err != nil {
		return nil, err
	}

	var augmentedSize int64
	err = p.stage(ctx, "optimize", func(ctx context.Context, span ports.Span) error {
		p.logger.Info("optimizing module", "level", p.cfg.Project.OptimizeLevel)
		if err := p.tool.Optimize(ctx, augmented, augmented); err != nil {
			return err
		}
		info, err := os.Stat(augmented)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "optimized module is not readable"), "path", augmented)
		}
		augmentedSize = info.Size()
		span.SetAttribute("size", augmentedSize)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var size int64
	err = p.stage(ctx, "compress", func(_ context.Context, span ports.Span) error {
		p.logger.Info("compressing module")
		var err error
		if size, err = p.compressor.Compress(augmented, published); err != nil {
			return err
		}
		span.SetAttribute("size", size)
		if err := os.Remove(augmented); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.Wrap(err, "failed to remove augmented artifact"), "path", augmented)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, "record", func(context.Context, ports.Span) error {
		var err error
		report, err = p.record(published, size, augmentedSize)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// stage runs fn inside a child span named build.<name>.
func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context, ports.Span) error) error {
	ctx, span := p.tracer.Start(ctx, "build."+name)
	defer span.End()
	span.SetAttribute("stage", name)

	if err := fn(ctx, span); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (p *Pipeline) compile(ctx context.Context, span ports.Span) error {
	root := p.layout.Root
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return zerr.With(domain.Tag(domain.ErrProjectRootNotFound), "path", root)
	}
	if !p.hasDescriptor() {
		err := zerr.With(domain.Tag(domain.ErrProjectDescriptorNotFound), "path", root)
		return zerr.With(err, "expected", p.cfg.Project.DescriptorFiles)
	}

	p.logger.Info("compiling canister", "binary", p.cfg.Project.Binary, "target", p.cfg.Project.Target)
	res, err := p.runner.Run(ctx, domain.Command{
		Name:   p.cfg.Tools.Cargo,
		Args:   p.compileArgs(),
		Dir:    root,
		Stdout: p.Stdout,
		Stderr: p.Stderr,
		TTY:    p.TTY,
	})
	if res != nil {
		span.SetAttribute("exit_code", res.ExitCode)
	}
	return err
}

func (p *Pipeline) compileArgs() []string {
	project := p.cfg.Project
	args := []string{"build", "--target", project.Target}
	if project.Profile == "release" {
		args = append(args, "--release")
	} else {
		args = append(args, "--profile", project.Profile)
	}
	return append(args, "--bin", project.Binary)
}

func (p *Pipeline) hasDescriptor() bool {
	for _, name := range p.cfg.Project.DescriptorFiles {
		if _, err := os.Stat(filepath.Join(p.layout.Root, name)); err == nil {
			return true
		}
	}
	return false
}

// validate distinguishes a missing output directory, interface file and raw artifact.
func (p *Pipeline) validate() error {
	if info, err := os.Stat(p.layout.OutputDir); err != nil || !info.IsDir() {
		return zerr.With(domain.Tag(domain.ErrOutputDirNotFound), "path", p.layout.OutputDir)
	}
	if _, err := os.Stat(p.layout.InterfaceFile); err != nil {
		return zerr.With(domain.Tag(domain.ErrInterfaceFileNotFound), "path", p.layout.InterfaceFile)
	}
	if _, err := os.Stat(p.layout.RawArtifact()); err != nil {
		return zerr.With(domain.Tag(domain.ErrRawArtifactNotFound), "path", p.layout.RawArtifact())
	}
	return nil
}

// record hashes the published artifact and replaces the build record.
// Record failures are reported but never fail a build that already published.
func (p *Pipeline) record(published string, size, augmentedSize int64) (*domain.BuildReport, error) {
	report := &domain.BuildReport{
		Published:     published,
		Size:          size,
		AugmentedSize: augmentedSize,
	}

	hash, err := p.hasher.HashFile(published)
	if err != nil {
		p.logger.Warn("failed to hash published artifact", "error", err.Error())
		return report, nil
	}
	report.Hash = hash

	previous, err := p.store.Get()
	if err != nil {
		p.logger.Warn("failed to read build record", "error", err.Error())
	}
	if previous != nil {
		report.Previous = previous
		report.Reproducible = previous.Hash == hash
	}

	info := domain.BuildInfo{
		Artifact:      p.layout.ArtifactName,
		Path:          published,
		Size:          size,
		AugmentedSize: augmentedSize,
		Hash:          hash,
		BuiltAt:       p.now().UTC(),
	}
	if err := p.store.Put(info); err != nil {
		p.logger.Warn("failed to write build record", "error", err.Error())
	}
	return report, nil
}

func (p *Pipeline) invalidate() {
	published := p.layout.PublishedArtifact()
	if _, err := os.Stat(published); err != nil {
		return
	}
	if err := os.Chtimes(published, epoch, epoch); err != nil {
		p.logger.Warn("failed to mark published artifact stale", "path", published, "error", err.Error())
	}
}
