package ports

import "go.trai.ch/wasmship/internal/core/domain"

// PathResolver defines the interface for turning configuration into concrete paths.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type PathResolver interface {
	// Resolve computes the layout and verifies that the project root exists.
	// It never creates directories.
	Resolve(cfg *domain.Config) (*domain.Layout, error)
}

// StalenessChecker decides whether a build output is out of date.
type StalenessChecker interface {
	// NeedsRebuild reports whether target is missing or older than any
	// relevant source file under sourceDir.
	NeedsRebuild(sourceDir, target string) (bool, error)
}
