package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/wasmship/internal/adapters/telemetry"
	"go.trai.ch/wasmship/internal/adapters/wasm"
	"go.trai.ch/wasmship/internal/core/domain"
	"go.trai.ch/wasmship/internal/core/ports/mocks"
	"go.trai.ch/wasmship/internal/engine/pipeline"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	cfg    *domain.Config
	layout *domain.Layout
	runner *mocks.MockProcessRunner
	tool   *mocks.MockWasmTool
	hasher *mocks.MockHasher
	store  *mocks.MockBuildInfoStore
	logger *mocks.MockLogger
	spans  *tracetest.SpanRecorder
	p      *pipeline.Pipeline
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte("[workspace]\n"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "kongswap_adaptor"), 0o750))
	did := filepath.Join(root, "kongswap_adaptor", "kongswap-adaptor.did")
	require.NoError(t, os.WriteFile(did, []byte("service : {}"), 0o600))

	cfg := domain.DefaultConfig()
	layout := &domain.Layout{
		Root:          root,
		SourceDir:     filepath.Join(root, "kongswap_adaptor"),
		OutputDir:     filepath.Join(root, "target", "wasm32-unknown-unknown", "release"),
		InterfaceFile: did,
		StateDir:      filepath.Join(root, ".wasmship"),
		ArtifactName:  cfg.Project.Binary,
	}

	ctrl := gomock.NewController(t)
	f := &fixture{
		cfg:    &cfg,
		layout: layout,
		runner: mocks.NewMockProcessRunner(ctrl),
		tool:   mocks.NewMockWasmTool(ctrl),
		hasher: mocks.NewMockHasher(ctrl),
		store:  mocks.NewMockBuildInfoStore(ctrl),
		logger: mocks.NewMockLogger(ctrl),
		spans:  tracetest.NewSpanRecorder(),
	}
	f.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(f.spans))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	tracer := telemetry.NewOTelTracer(tp)
	f.p = pipeline.New(f.cfg, f.layout, f.runner, f.tool, wasm.NewCompressor(), f.hasher, f.store, f.logger, tracer)
	f.p.SetNow(func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) })
	return f
}

// compiles makes the fake compiler emit the raw module.
func (f *fixture) compiles(t *testing.T) {
	t.Helper()
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd domain.Command) (*domain.ProcessResult, error) {
			assert.Equal(t, "cargo", cmd.Name)
			assert.Equal(t, []string{
				"build", "--target", "wasm32-unknown-unknown", "--release", "--bin", "kongswap-adaptor-canister",
			}, cmd.Args)
			assert.Equal(t, f.layout.Root, cmd.Dir)

			require.NoError(t, os.MkdirAll(f.layout.OutputDir, 0o750))
			module := append([]byte("\x00asm\x01\x00\x00\x00"), bytes.Repeat([]byte("code"), 256)...)
			require.NoError(t, os.WriteFile(f.layout.RawArtifact(), module, 0o600))
			return &domain.ProcessResult{}, nil
		})
}

// postProcesses makes the fake post-processor copy raw to augmented.
func (f *fixture) postProcesses(t *testing.T) {
	t.Helper()
	f.tool.EXPECT().InjectMetadata(gomock.Any(), f.layout.RawArtifact(), f.layout.AugmentedArtifact(), f.layout.InterfaceFile).
		DoAndReturn(func(_ context.Context, in, out, _ string) error {
			data, err := os.ReadFile(in)
			require.NoError(t, err)
			return os.WriteFile(out, append(data, []byte("candid:service")...), 0o600)
		})
	f.tool.EXPECT().Optimize(gomock.Any(), f.layout.AugmentedArtifact(), f.layout.AugmentedArtifact()).Return(nil)
}

func TestBuild_Success(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.compiles(t)
	f.postProcesses(t)
	f.hasher.EXPECT().HashFile(f.layout.PublishedArtifact()).Return("00000000deadbeef", nil)
	f.store.EXPECT().Get().Return(nil, nil)
	f.store.EXPECT().Put(gomock.Any()).DoAndReturn(func(info domain.BuildInfo) error {
		assert.Equal(t, "kongswap-adaptor-canister", info.Artifact)
		assert.Equal(t, "00000000deadbeef", info.Hash)
		assert.Equal(t, f.layout.PublishedArtifact(), info.Path)
		return nil
	})

	report, err := f.p.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, f.layout.PublishedArtifact(), report.Published)
	assert.FileExists(t, report.Published)
	assert.NoFileExists(t, f.layout.AugmentedArtifact())
	assert.LessOrEqual(t, report.Size, report.AugmentedSize)
	assert.False(t, report.Reproducible)
	assert.Nil(t, report.Previous)
}

func TestBuild_ReportsReproducibleBuild(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.compiles(t)
	f.postProcesses(t)
	f.hasher.EXPECT().HashFile(gomock.Any()).Return("00000000deadbeef", nil)
	f.store.EXPECT().Get().Return(&domain.BuildInfo{Hash: "00000000deadbeef"}, nil)
	f.store.EXPECT().Put(gomock.Any()).Return(nil)

	report, err := f.p.Build(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Reproducible)
	require.NotNil(t, report.Previous)
}

func TestBuild_RecordFailureDoesNotFailBuild(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.compiles(t)
	f.postProcesses(t)
	f.hasher.EXPECT().HashFile(gomock.Any()).Return("abc", nil)
	f.store.EXPECT().Get().Return(nil, errors.New("corrupt"))
	f.store.EXPECT().Put(gomock.Any()).Return(errors.New("read-only"))
	f.logger.EXPECT().Warn(gomock.Any(), gomock.Any()).Times(2)

	report, err := f.p.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", report.Hash)
}

func TestBuild_ProjectRootMissing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.layout.Root = filepath.Join(f.layout.Root, "missing")

	_, err := f.p.Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPathNotFound)
	assert.ErrorIs(t, err, domain.ErrProjectRootNotFound)
}

func TestBuild_ProjectDescriptorMissing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, os.Remove(filepath.Join(f.layout.Root, "Cargo.toml")))

	_, err := f.p.Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProjectDescriptorNotFound)
}

func TestBuild_CompileFailureInvalidatesPublishedArtifact(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, os.MkdirAll(f.layout.OutputDir, 0o750))
	require.NoError(t, os.WriteFile(f.layout.PublishedArtifact(), []byte("old"), 0o600))

	compileErr := errors.New("cargo exited with 101")
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(&domain.ProcessResult{ExitCode: 101}, compileErr)

	_, err := f.p.Build(context.Background())
	require.ErrorIs(t, err, compileErr)

	info, statErr := os.Stat(f.layout.PublishedArtifact())
	require.NoError(t, statErr)
	assert.True(t, info.ModTime().Equal(time.Unix(0, 0)))

	data, readErr := os.ReadFile(f.layout.PublishedArtifact())
	require.NoError(t, readErr)
	assert.Equal(t, []byte("old"), data, "stale artifact bytes are kept for inspection")
}

func TestBuild_MissingOutputsAreDistinguished(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		prepare func(t *testing.T, l *domain.Layout)
		want    error
	}{
		{
			name:    "output directory",
			prepare: func(*testing.T, *domain.Layout) {},
			want:    domain.ErrOutputDirNotFound,
		},
		{
			name: "interface file",
			prepare: func(t *testing.T, l *domain.Layout) {
				require.NoError(t, os.MkdirAll(l.OutputDir, 0o750))
				require.NoError(t, os.Remove(l.InterfaceFile))
			},
			want: domain.ErrInterfaceFileNotFound,
		},
		{
			name: "raw artifact",
			prepare: func(t *testing.T, l *domain.Layout) {
				require.NoError(t, os.MkdirAll(l.OutputDir, 0o750))
			},
			want: domain.ErrRawArtifactNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
				func(context.Context, domain.Command) (*domain.ProcessResult, error) {
					tt.prepare(t, f.layout)
					return &domain.ProcessResult{}, nil
				})

			_, err := f.p.Build(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrPathNotFound)
			assert.ErrorIs(t, err, tt.want)
			for _, other := range tests {
				if other.want != tt.want {
					assert.NotErrorIs(t, err, other.want)
				}
			}
		})
	}
}

func TestBuild_PostProcessFailureKeepsIntermediates(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.compiles(t)
	f.tool.EXPECT().InjectMetadata(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, out, _ string) error {
			return os.WriteFile(out, []byte("partial"), 0o600)
		})
	optimizeErr := errors.New("ic-wasm crashed")
	f.tool.EXPECT().Optimize(gomock.Any(), gomock.Any(), gomock.Any()).Return(optimizeErr)

	_, err := f.p.Build(context.Background())
	require.ErrorIs(t, err, optimizeErr)
	assert.FileExists(t, f.layout.AugmentedArtifact())
	assert.NoFileExists(t, f.layout.PublishedArtifact())
}

func TestBuild_CustomProfile(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.cfg.Project.Profile = "canister"
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd domain.Command) (*domain.ProcessResult, error) {
			assert.Equal(t, []string{
				"build", "--target", "wasm32-unknown-unknown", "--profile", "canister", "--bin", "kongswap-adaptor-canister",
			}, cmd.Args)
			return nil, errors.New("stop")
		})

	_, err := f.p.Build(context.Background())
	require.Error(t, err)
}

// ended returns the names of finished spans in the order they ended.
func (f *fixture) ended() []string {
	var names []string
	for _, s := range f.spans.Ended() {
		names = append(names, s.Name())
	}
	return names
}

func (f *fixture) span(t *testing.T, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	for _, s := range f.spans.Ended() {
		if s.Name() == name {
			return s
		}
	}
	t.Fatalf("no span named %q among %v", name, f.ended())
	return nil
}

func attr(s sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range s.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestBuild_TracesEachStage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.compiles(t)
	f.postProcesses(t)
	f.hasher.EXPECT().HashFile(gomock.Any()).Return("abc", nil)
	f.store.EXPECT().Get().Return(nil, nil)
	f.store.EXPECT().Put(gomock.Any()).Return(nil)

	report, err := f.p.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"build.compile", "build.validate", "build.inject", "build.optimize",
		"build.compress", "build.record", "build",
	}, f.ended())

	root := f.span(t, "build")
	for _, s := range f.spans.Ended()[:6] {
		assert.Equal(t, root.SpanContext().SpanID(), s.Parent().SpanID(), s.Name())
		assert.Equal(t, codes.Unset, s.Status().Code, s.Name())
	}

	stage, ok := attr(f.span(t, "build.inject"), "stage")
	require.True(t, ok)
	assert.Equal(t, "inject", stage.AsString())

	exitCode, ok := attr(f.span(t, "build.compile"), "exit_code")
	require.True(t, ok)
	assert.Equal(t, int64(0), exitCode.AsInt64())

	size, ok := attr(f.span(t, "build.compress"), "size")
	require.True(t, ok)
	assert.Equal(t, report.Size, size.AsInt64())

	artifact, ok := attr(root, "artifact")
	require.True(t, ok)
	assert.Equal(t, "kongswap-adaptor-canister", artifact.AsString())
}

func TestBuild_TracesFailedStage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		Return(&domain.ProcessResult{ExitCode: 101}, errors.New("cargo exited with 101"))

	_, err := f.p.Build(context.Background())
	require.Error(t, err)

	assert.Equal(t, []string{"build.compile", "build"}, f.ended())

	compile := f.span(t, "build.compile")
	assert.Equal(t, codes.Error, compile.Status().Code)
	assert.Equal(t, "cargo exited with 101", compile.Status().Description)
	exitCode, ok := attr(compile, "exit_code")
	require.True(t, ok)
	assert.Equal(t, int64(101), exitCode.AsInt64())

	assert.Equal(t, codes.Error, f.span(t, "build").Status().Code)
}
