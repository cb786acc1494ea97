package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/wasmship/internal/adapters/config"
	"go.trai.ch/wasmship/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestManifestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, "artifacts.yaml", `
dependencies:
  kong_backend:
    version: v0.0.32
    url_template: https://github.com/KongSwap/kong/releases/download/{version}/kong_backend.wasm
`)

	m, err := config.NewManifestLoader().Load(filepath.Join(dir, "artifacts.yaml"))
	require.NoError(t, err)

	require.Contains(t, m.Dependencies, "kong_backend")
	url, err := m.Resolve("kong_backend")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/KongSwap/kong/releases/download/v0.0.32/kong_backend.wasm", url)
}

func TestManifestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantErr  error
		wantMeta map[string]any
	}{
		{
			name:     "missing dependencies section",
			content:  "other:\n  key: value\n",
			wantErr:  domain.ErrManifestSectionMissing,
			wantMeta: map[string]any{"section": "dependencies"},
		},
		{
			name:     "empty document",
			content:  "",
			wantErr:  domain.ErrManifestSectionMissing,
			wantMeta: map[string]any{"section": "dependencies"},
		},
		{
			name:     "missing version",
			content:  "dependencies:\n  kong_backend:\n    url_template: https://x/{version}/k.wasm\n",
			wantErr:  domain.ErrManifestKeyMissing,
			wantMeta: map[string]any{"dependency": "kong_backend", "key": "version"},
		},
		{
			name:     "missing url template",
			content:  "dependencies:\n  kong_backend:\n    version: v1\n",
			wantErr:  domain.ErrManifestKeyMissing,
			wantMeta: map[string]any{"dependency": "kong_backend", "key": "url_template"},
		},
		{
			name:     "null entry",
			content:  "dependencies:\n  kong_backend:\n",
			wantErr:  domain.ErrManifestKeyMissing,
			wantMeta: map[string]any{"dependency": "kong_backend", "key": "version"},
		},
		{
			name:     "template without placeholder",
			content:  "dependencies:\n  kong_backend:\n    version: v1\n    url_template: https://x/k.wasm\n",
			wantErr:  domain.ErrInvalidConfig,
			wantMeta: map[string]any{"dependency": "kong_backend"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			createFile(t, dir, "artifacts.yaml", tt.content)

			_, err := config.NewManifestLoader().Load(filepath.Join(dir, "artifacts.yaml"))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfig)
			assert.ErrorIs(t, err, tt.wantErr)

			zErr, ok := err.(*zerr.Error)
			require.True(t, ok, "expected *zerr.Error")
			meta := zErr.Metadata()
			for k, v := range tt.wantMeta {
				assert.Equal(t, v, meta[k], "metadata %q", k)
			}
		})
	}
}

func TestManifestLoader_Load_MissingFile(t *testing.T) {
	_, err := config.NewManifestLoader().Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigReadFailed)
}
