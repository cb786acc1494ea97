package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wasmship/internal/core/ports"
)

const (
	// LoaderNodeID is the unique identifier for the config loader Graft node.
	LoaderNodeID graft.ID = "adapter.config_loader"
	// ManifestLoaderNodeID is the unique identifier for the manifest loader Graft node.
	ManifestLoaderNodeID graft.ID = "adapter.manifest_loader"
	// RevisionLoaderNodeID is the unique identifier for the revision index loader Graft node.
	RevisionLoaderNodeID graft.ID = "adapter.revision_loader"
)

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        LoaderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ConfigLoader, error) {
			return NewLoader(), nil
		},
	})

	graft.Register(graft.Node[ports.ManifestLoader]{
		ID:        ManifestLoaderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ManifestLoader, error) {
			return NewManifestLoader(), nil
		},
	})

	graft.Register(graft.Node[ports.RevisionIndexLoader]{
		ID:        RevisionLoaderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.RevisionIndexLoader, error) {
			return NewRevisionLoader(), nil
		},
	})
}
