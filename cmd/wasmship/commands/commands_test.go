package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.trai.ch/wasmship/cmd/wasmship/commands"
	"go.trai.ch/wasmship/internal/adapters/telemetry"
	"go.trai.ch/wasmship/internal/app"
	"go.trai.ch/wasmship/internal/core/domain"
	"go.trai.ch/wasmship/internal/core/ports"
	"go.trai.ch/wasmship/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type harness struct {
	cli    *commands.CLI
	cfg    *domain.Config
	layout *domain.Layout
	loader *mocks.MockConfigLoader
	paths  *mocks.MockPathResolver
	runner *mocks.MockProcessRunner
	store  *mocks.MockBuildInfoStore
	stdout *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	ctrl := gomock.NewController(t)
	root := t.TempDir()
	cfg := domain.DefaultConfig()
	h := &harness{
		cfg: &cfg,
		layout: &domain.Layout{
			Root:         root,
			OutputDir:    filepath.Join(root, "target"),
			CacheDir:     filepath.Join(root, "ic-artifacts"),
			StateDir:     filepath.Join(root, ".wasmship"),
			ArtifactName: cfg.Project.Binary,
		},
		loader: mocks.NewMockConfigLoader(ctrl),
		paths:  mocks.NewMockPathResolver(ctrl),
		runner: mocks.NewMockProcessRunner(ctrl),
		store:  mocks.NewMockBuildInfoStore(ctrl),
		stdout: &bytes.Buffer{},
	}

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()

	a := app.New(app.Services{
		ConfigLoader: h.loader,
		Resolver:     h.paths,
		Runner:       h.runner,
		Logger:       log,
		Tracer:       telemetry.NewOTelTracer(noop.NewTracerProvider()),
	}, app.Factories{
		Store: func(*domain.Layout) ports.BuildInfoStore { return h.store },
	}).WithOutput(&bytes.Buffer{}, &bytes.Buffer{})

	h.cli = commands.New(a)
	h.cli.SetOutput(h.stdout, &bytes.Buffer{})
	return h
}

func (h *harness) loads() {
	h.loader.EXPECT().Load().Return(h.cfg, nil)
	h.paths.EXPECT().Resolve(h.cfg).Return(h.layout, nil)
}

func TestTestCmd_MapsFlags(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.loads()
	h.runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd domain.Command) (*domain.ProcessResult, error) {
			assert.Equal(t, []string{
				"test", "--verbose", "--bin", "kongswap-adaptor-canister", "math", "--", "--nocapture",
			}, cmd.Args)
			return &domain.ProcessResult{}, nil
		})

	h.cli.SetArgs([]string{"test", "--unit-only", "-v", "--test-name", "math", "--nocapture"})
	require.NoError(t, h.cli.Execute(context.Background()))
}

func TestTestCmd_ScopesAreMutuallyExclusive(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.cli.SetArgs([]string{"test", "--unit-only", "--integration-only"})

	err := h.cli.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unit-only")
}

func TestTestCmd_FailingTests(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.loads()
	h.runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		Return(&domain.ProcessResult{ExitCode: 4}, assert.AnError)

	h.cli.SetArgs([]string{"test", "--unit-only"})
	err := h.cli.Execute(context.Background())

	var failed *domain.TestFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, 4, failed.ExitCode)
}

func TestCleanCmd_Cache(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.loads()
	require.NoError(t, os.MkdirAll(h.layout.CacheDir, 0o750))

	h.cli.SetArgs([]string{"clean", "--cache"})
	require.NoError(t, h.cli.Execute(context.Background()))
	assert.NoDirExists(t, h.layout.CacheDir)
}

func TestCleanCmd_Default(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.loads()
	h.store.EXPECT().Delete().Return(nil)

	h.cli.SetArgs([]string{"clean"})
	require.NoError(t, h.cli.Execute(context.Background()))
}

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.cli.SetArgs([]string{"version"})
	require.NoError(t, h.cli.Execute(context.Background()))
	assert.Contains(t, h.stdout.String(), "wasmship version dev")
}

func TestBuildCmd_RejectsArgs(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.cli.SetArgs([]string{"build", "extra"})
	require.Error(t, h.cli.Execute(context.Background()))
}

func TestPrintReport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		report domain.BuildReport
		want   []string
	}{
		{
			name:   "first build",
			report: domain.BuildReport{Published: "out.wasm.gz", Size: 1234567, Hash: "abc"},
			want:   []string{"Build complete! Output: out.wasm.gz", "File size: 1,234,567 bytes"},
		},
		{
			name:   "small module",
			report: domain.BuildReport{Published: "out.wasm.gz", Size: 999},
			want:   []string{"File size: 999 bytes"},
		},
		{
			name: "reproducible",
			report: domain.BuildReport{
				Published: "out.wasm.gz", Size: 1000, Hash: "abc",
				Previous: &domain.BuildInfo{Hash: "abc"}, Reproducible: true,
			},
			want: []string{"File size: 1,000 bytes", "Reproducible: identical to previous build (abc)"},
		},
		{
			name: "changed",
			report: domain.BuildReport{
				Published: "out.wasm.gz", Size: 1000, Hash: "def",
				Previous: &domain.BuildInfo{Hash: "abc"},
			},
			want: []string{"Changed since previous build: abc", "def"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			commands.PrintReport(&buf, &tt.report)
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}
