package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/wasmship/internal/adapters/config"
	"go.trai.ch/wasmship/internal/core/domain"
)

func TestRevisionLoader_Load(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, "mainnet-canister-revisions.json", `{
  // pinned by the release process
  "sns_ledger": {"rev": "abc123", "sha256": "deadbeef"},
  "ledger": {"rev": "def456"},
}`)

	index, err := config.NewRevisionLoader().Load(filepath.Join(dir, "mainnet-canister-revisions.json"))
	require.NoError(t, err)

	assert.Equal(t, domain.RevisionEntry{Rev: "abc123", SHA256: "deadbeef"}, index["sns_ledger"])
	assert.Equal(t, domain.RevisionEntry{Rev: "def456"}, index["ledger"])
}

func TestRevisionLoader_Load_Missing(t *testing.T) {
	_, err := config.NewRevisionLoader().Load(filepath.Join(t.TempDir(), "none.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfig)
	assert.ErrorIs(t, err, domain.ErrRevisionIndexMissing)
}

func TestRevisionLoader_Load_Malformed(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, "index.json", `["not", "an", "object"]`)

	_, err := config.NewRevisionLoader().Load(filepath.Join(dir, "index.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigParseFailed)
}

func TestRevisionLoader_Load_Null(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, "index.json", `null`)

	index, err := config.NewRevisionLoader().Load(filepath.Join(dir, "index.json"))
	require.NoError(t, err)
	assert.Empty(t, index)
}
