// Package provision resolves and caches the external artifacts the test environment needs.
package provision

import (
	"context"
	"errors"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/wasmship/internal/core/domain"
	"go.trai.ch/wasmship/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Provisioner ensures dependency artifacts are present in the cache.
//
// A file at a dependency's cache path is proof of a completed download:
// it is returned as-is and never re-validated.
type Provisioner struct {
	cfg       *domain.Config
	layout    *domain.Layout
	fetcher   ports.Fetcher
	manifests ports.ManifestLoader
	revisions ports.RevisionIndexLoader
	logger    ports.Logger
	tracer    ports.Tracer

	manifestOnce sync.Once
	manifest     *domain.Manifest
	manifestErr  error

	indexOnce sync.Once
	index     domain.RevisionIndex
	indexErr  error
}

// New creates a Provisioner for one resolved layout.
func New(
	cfg *domain.Config,
	layout *domain.Layout,
	fetcher ports.Fetcher,
	manifests ports.ManifestLoader,
	revisions ports.RevisionIndexLoader,
	logger ports.Logger,
	tracer ports.Tracer,
) *Provisioner {
	return &Provisioner{
		cfg:       cfg,
		layout:    layout,
		fetcher:   fetcher,
		manifests: manifests,
		revisions: revisions,
		logger:    logger,
		tracer:    tracer,
	}
}

// Ensure returns the cache path of d, downloading it first if it is absent.
func (p *Provisioner) Ensure(ctx context.Context, d domain.DependencyDescriptor) (string, error) {
	dest := p.layout.CachePath(d)

	if _, err := os.Stat(dest); err == nil {
		p.logger.Info("dependency already cached", "dependency", d.Name, "path", dest)
		return dest, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", zerr.With(zerr.Wrap(err, "failed to stat cached dependency"), "path", dest)
	}

	if err := os.MkdirAll(p.layout.CacheDir, domain.DirPerm); err != nil {
		return "", zerr.With(domain.WrapKind(domain.ErrCacheCreateFailed, err), "path", p.layout.CacheDir)
	}

	url, err := p.resolveURL(d)
	if err != nil {
		return "", err
	}

	p.logger.Info("downloading dependency", "dependency", d.Name, "url", url)
	if err := p.download(ctx, d, url, dest); err != nil {
		return "", zerr.With(domain.Tag(err), "dependency", d.Name)
	}
	return dest, nil
}

func (p *Provisioner) download(ctx context.Context, d domain.DependencyDescriptor, url, dest string) error {
	ctx, span := p.tracer.Start(ctx, "download")
	defer span.End()
	span.SetAttribute("dependency", d.Name)
	span.SetAttribute("strategy", string(d.Strategy))
	span.SetAttribute("url", url)

	if err := p.fetcher.Fetch(ctx, url, dest); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// EnsureAll ensures every descriptor and returns cache paths keyed by dependency name.
// Downloads run one at a time unless the configured concurrency allows more.
// The first failure cancels the remaining downloads.
func (p *Provisioner) EnsureAll(ctx context.Context, deps []domain.DependencyDescriptor) (map[string]string, error) {
	paths := make(map[string]string, len(deps))

	if p.cfg.Artifacts.Concurrency <= 1 {
		for _, d := range deps {
			path, err := p.Ensure(ctx, d)
			if err != nil {
				return nil, err
			}
			paths[d.Name] = path
		}
		return paths, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Artifacts.Concurrency)
	for _, d := range deps {
		g.Go(func() error {
			path, err := p.Ensure(gctx, d)
			if err != nil {
				return err
			}
			mu.Lock()
			paths[d.Name] = path
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (p *Provisioner) resolveURL(d domain.DependencyDescriptor) (string, error) {
	switch d.Strategy {
	case domain.StrategyPinnedRevision:
		return p.resolvePinned(d)
	case domain.StrategyManifestVersioned:
		return p.resolveManifest(d)
	default:
		err := zerr.With(domain.Tag(domain.ErrUnknownStrategy), "dependency", d.Name)
		return "", zerr.With(err, "strategy", string(d.Strategy))
	}
}

// resolvePinned builds <cdn>/<rev>/canisters/<file> from the revision index.
func (p *Provisioner) resolvePinned(d domain.DependencyDescriptor) (string, error) {
	index, err := p.loadIndex()
	if err != nil {
		return "", err
	}

	entry, ok := index[d.Key]
	if !ok {
		err := zerr.With(domain.Tag(domain.ErrRevisionKeyMissing), "key", d.Key)
		err = zerr.With(err, "dependency", d.Name)
		return "", zerr.With(err, "available", slices.Sorted(maps.Keys(index)))
	}
	if entry.Rev == "" {
		err := zerr.With(domain.Tag(domain.ErrRevisionFieldMissing), "key", d.Key)
		return "", zerr.With(err, "dependency", d.Name)
	}

	sha := entry.SHA256
	if sha == "" {
		sha = "N/A"
	}
	p.logger.Info("pinned dependency", "dependency", d.Name, "rev", entry.Rev, "sha256", sha)

	return strings.TrimSuffix(p.cfg.Artifacts.CDNBase, "/") + "/" + entry.Rev + "/canisters/" + d.RemoteFile, nil
}

func (p *Provisioner) resolveManifest(d domain.DependencyDescriptor) (string, error) {
	p.manifestOnce.Do(func() {
		p.manifest, p.manifestErr = p.manifests.Load(p.layout.Manifest)
	})
	if p.manifestErr != nil {
		return "", p.manifestErr
	}
	return p.manifest.Resolve(d.Name)
}

func (p *Provisioner) loadIndex() (domain.RevisionIndex, error) {
	p.indexOnce.Do(func() {
		repo := p.layout.ReferenceRepo
		if info, err := os.Stat(repo); err != nil || !info.IsDir() {
			p.indexErr = zerr.With(domain.Tag(domain.ErrReferenceRepoNotFound), "path", repo)
			return
		}
		p.index, p.indexErr = p.revisions.Load(p.layout.RevisionIndex)
	})
	return p.index, p.indexErr
}
