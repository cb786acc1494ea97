package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/wasmship/internal/adapters/fs"
	"go.trai.ch/wasmship/internal/core/domain"
)

func TestHasher_HashFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.wasm.gz")
	b := filepath.Join(dir, "b.wasm.gz")
	c := filepath.Join(dir, "c.wasm.gz")
	require.NoError(t, os.WriteFile(a, []byte("module bytes"), domain.FilePerm))
	require.NoError(t, os.WriteFile(b, []byte("module bytes"), domain.FilePerm))
	require.NoError(t, os.WriteFile(c, []byte("other bytes"), domain.FilePerm))

	h := fs.NewHasher()
	ha, err := h.HashFile(a)
	require.NoError(t, err)
	hb, err := h.HashFile(b)
	require.NoError(t, err)
	hc, err := h.HashFile(c)
	require.NoError(t, err)

	assert.Len(t, ha, 16)
	assert.Equal(t, ha, hb)
	assert.NotEqual(t, ha, hc)
}

func TestHasher_HashFile_Missing(t *testing.T) {
	_, err := fs.NewHasher().HashFile(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file")
}
