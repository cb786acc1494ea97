package layout_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/wasmship/internal/adapters/layout"
	"go.trai.ch/wasmship/internal/core/domain"
)

func TestResolver_Resolve_CI(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "checkout")
	require.NoError(t, os.Mkdir(root, domain.DirPerm))

	cfg := domain.DefaultConfig()
	cfg.CI = true
	cfg.WorkDir = root
	cfg.Home = "/home/unused"

	l, err := layout.NewResolver().Resolve(&cfg)
	require.NoError(t, err)

	assert.Equal(t, root, l.Root)
	assert.Equal(t, filepath.Join(root, "kongswap_adaptor"), l.SourceDir)
	assert.Equal(t, filepath.Join(root, "target", "wasm32-unknown-unknown", "release"), l.OutputDir)
	assert.Equal(t, filepath.Join(root, "kongswap_adaptor", "kongswap-adaptor.did"), l.InterfaceFile)
	assert.Equal(t, filepath.Join(root, "ic-artifacts"), l.CacheDir)
	assert.Equal(t, filepath.Join(base, "ic"), l.ReferenceRepo)
	assert.Equal(t, filepath.Join(base, "ic", "mainnet-canister-revisions.json"), l.RevisionIndex)
	assert.Equal(t, filepath.Join(root, "artifacts.yaml"), l.Manifest)
	assert.Equal(t, filepath.Join(root, ".wasmship"), l.StateDir)
	assert.Equal(t, "kongswap-adaptor-canister", l.ArtifactName)
	assert.Equal(t,
		filepath.Join(root, "target", "wasm32-unknown-unknown", "release", "kongswap-adaptor-canister.wasm.gz"),
		l.PublishedArtifact())
}

func TestResolver_Resolve_LocalUsesHome(t *testing.T) {
	home := t.TempDir()
	root := filepath.Join(home, domain.DefaultProjectDirName)
	require.NoError(t, os.Mkdir(root, domain.DirPerm))

	cfg := domain.DefaultConfig()
	cfg.Home = home
	cfg.WorkDir = "/elsewhere"

	l, err := layout.NewResolver().Resolve(&cfg)
	require.NoError(t, err)
	assert.Equal(t, root, l.Root)
	assert.Equal(t, filepath.Join(home, "ic"), l.ReferenceRepo)
}

func TestResolver_Resolve_AbsoluteOverrides(t *testing.T) {
	root := t.TempDir()
	cache := t.TempDir()
	ref := t.TempDir()

	cfg := domain.DefaultConfig()
	cfg.CI = true
	cfg.WorkDir = root
	cfg.Artifacts.CacheDir = cache
	cfg.Artifacts.ReferenceRepo = ref

	l, err := layout.NewResolver().Resolve(&cfg)
	require.NoError(t, err)
	assert.Equal(t, cache, l.CacheDir)
	assert.Equal(t, ref, l.ReferenceRepo)
}

func TestResolver_Resolve_MissingRoot(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Home = t.TempDir()

	_, err := layout.NewResolver().Resolve(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPathNotFound)
	assert.ErrorIs(t, err, domain.ErrProjectRootNotFound)
}

func TestResolver_Resolve_RootIsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, domain.FilePerm))

	cfg := domain.DefaultConfig()
	cfg.CI = true
	cfg.WorkDir = file

	_, err := layout.NewResolver().Resolve(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPathNotFound)
}
