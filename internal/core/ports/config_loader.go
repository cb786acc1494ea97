package ports

import "go.trai.ch/wasmship/internal/core/domain"

// ConfigLoader defines the interface for assembling the invocation configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load detects the environment, picks the project root and applies the
	// optional project file found there.
	Load() (*domain.Config, error)
}

// ManifestLoader reads the project's dependency manifest.
type ManifestLoader interface {
	Load(path string) (*domain.Manifest, error)
}

// RevisionIndexLoader reads the reference repository's revision index.
type RevisionIndexLoader interface {
	Load(path string) (domain.RevisionIndex, error)
}
