// Package testenv composes the environment bindings handed to the test process.
package testenv

import "go.trai.ch/wasmship/internal/core/domain"

// Builder maps the published artifact and cached dependencies to test environment variables.
type Builder struct {
	cfg    *domain.Config
	layout *domain.Layout
}

// New creates a Builder.
func New(cfg *domain.Config, layout *domain.Layout) *Builder {
	return &Builder{cfg: cfg, layout: layout}
}

// Compose returns fresh bindings for one test run. cached maps dependency
// names to their cache paths; dependencies absent from it are left unbound.
func (b *Builder) Compose(cached map[string]string) domain.Bindings {
	bindings := make(domain.Bindings, len(b.cfg.Artifacts.Dependencies)+1)
	bindings[b.cfg.Test.ArtifactEnv] = b.layout.PublishedArtifact()

	for _, d := range b.cfg.Artifacts.Dependencies {
		if path, ok := cached[d.Name]; ok {
			bindings[d.EnvVar] = path
		}
	}
	return bindings
}
