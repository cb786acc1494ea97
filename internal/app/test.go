package app

import (
	"context"

	"go.trai.ch/wasmship/internal/core/domain"
	"go.trai.ch/wasmship/internal/engine/testenv"
)

// Test runs the test suite, rebuilding and provisioning first unless only
// unit tests are requested.
//
// The returned result records the phase reached. A test process that exits
// non-zero yields a *domain.TestFailedError carrying its exit code.
func (a *App) Test(ctx context.Context, opts domain.TestOptions) (*domain.TestResult, error) {
	result := &domain.TestResult{Phase: domain.PhaseIdle}

	if err := opts.Validate(); err != nil {
		return fail(result, err)
	}

	cfg, layout, err := a.load()
	if err != nil {
		return fail(result, err)
	}

	if !opts.UnitOnly {
		if err := a.ensureBuilt(ctx, cfg, layout, opts, result); err != nil {
			return fail(result, domain.WrapKind(domain.ErrBuildFailed, err))
		}

		result.Phase = domain.PhaseProvisioning
		cached, err := a.newProvisioner(cfg, layout).EnsureAll(ctx, cfg.Artifacts.Dependencies)
		if err != nil {
			return fail(result, domain.WrapKind(domain.ErrProvisionFailed, err))
		}
		result.Bindings = testenv.New(cfg, layout).Compose(cached)
	}

	result.Phase = domain.PhaseExecuting
	cmd := domain.Command{
		Name:   cfg.Tools.Cargo,
		Args:   testArgs(cfg, opts),
		Dir:    layout.Root,
		Env:    result.Bindings,
		Stdout: a.stdout,
		Stderr: a.stderr,
		TTY:    a.interactive,
	}
	a.Logger.Info("running tests", "command", cmd.String())

	res, err := a.Runner.Run(ctx, cmd)
	if err != nil {
		if res != nil && res.ExitCode > 0 {
			result.ExitCode = res.ExitCode
			return fail(result, &domain.TestFailedError{ExitCode: res.ExitCode})
		}
		return fail(result, err)
	}

	result.Phase = domain.PhasePassed
	a.Logger.Info("all tests passed")
	return result, nil
}

// fail moves result to the failed phase, remembering where it stopped.
func fail(result *domain.TestResult, err error) (*domain.TestResult, error) {
	result.FailedIn = result.Phase
	result.Phase = domain.PhaseFailed
	if result.ExitCode == 0 {
		result.ExitCode = 1
	}
	return result, err
}

// ensureBuilt runs the rebuild check and, when needed, the build pipeline.
func (a *App) ensureBuilt(
	ctx context.Context,
	cfg *domain.Config,
	layout *domain.Layout,
	opts domain.TestOptions,
	result *domain.TestResult,
) error {
	result.Phase = domain.PhaseRebuildCheck

	rebuild := opts.ForceRebuild
	if !rebuild {
		stale, err := a.factories.Staleness(cfg).NeedsRebuild(layout.SourceDir, layout.PublishedArtifact())
		if err != nil {
			return err
		}
		rebuild = stale
	}

	if !rebuild {
		a.Logger.Info("artifact is up to date, skipping rebuild", "path", layout.PublishedArtifact())
		return nil
	}

	result.Phase = domain.PhaseBuilding
	a.Logger.Info("rebuilding artifact")
	if _, err := a.newPipeline(cfg, layout).Build(ctx); err != nil {
		return err
	}
	result.Rebuilt = true
	return nil
}

// testArgs builds the cargo test invocation.
func testArgs(cfg *domain.Config, opts domain.TestOptions) []string {
	args := []string{"test"}
	if opts.Verbose {
		args = append(args, "--verbose")
	}
	switch {
	case opts.UnitOnly:
		args = append(args, "--bin", cfg.Project.Binary)
	case opts.IntegrationOnly:
		args = append(args, "--test", cfg.Test.IntegrationTest)
	}
	if opts.TestName != "" {
		args = append(args, opts.TestName)
	}
	if opts.NoCapture {
		args = append(args, "--", "--nocapture")
	}
	return args
}
