// Package layout turns the invocation configuration into absolute paths.
package layout

import (
	"os"
	"path/filepath"

	"go.trai.ch/wasmship/internal/core/domain"
	"go.trai.ch/zerr"
)

// Resolver implements ports.PathResolver.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve computes every path of the invocation from cfg.
func (r *Resolver) Resolve(cfg *domain.Config) (*domain.Layout, error) {
	root, err := filepath.Abs(cfg.ProjectRoot())
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve project root")
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, zerr.With(domain.Tag(domain.ErrProjectRootNotFound), "path", root)
	}

	refRepo := cfg.Artifacts.ReferenceRepo
	if !filepath.IsAbs(refRepo) {
		refRepo = filepath.Join(filepath.Dir(root), refRepo)
	}

	return &domain.Layout{
		Root:          root,
		SourceDir:     underRoot(root, cfg.Project.Crate),
		OutputDir:     filepath.Join(root, "target", cfg.Project.Target, cfg.Project.Profile),
		InterfaceFile: underRoot(root, cfg.Project.InterfaceFile),
		CacheDir:      underRoot(root, cfg.Artifacts.CacheDir),
		ReferenceRepo: refRepo,
		RevisionIndex: filepath.Join(refRepo, cfg.Artifacts.RevisionIndex),
		Manifest:      underRoot(root, cfg.Artifacts.Manifest),
		StateDir:      filepath.Join(root, domain.StateDirName),
		ArtifactName:  cfg.Project.Binary,
	}, nil
}

func underRoot(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}
