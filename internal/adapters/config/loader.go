// Package config assembles the invocation configuration and reads the
// dependency manifest and revision index.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"go.trai.ch/wasmship/internal/adapters/detector"
	"go.trai.ch/wasmship/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader.
type Loader struct {
	getenv func(string) string
	getwd  func() (string, error)
	home   func() string
}

// NewLoader creates a Loader that reads the real process environment.
func NewLoader() *Loader {
	return &Loader{
		getenv: os.Getenv,
		getwd:  os.Getwd,
		home:   func() string { return xdg.Home },
	}
}

// Load builds the configuration for this invocation.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.DefaultConfig()
	cfg.CI = detector.IsCI(l.getenv)
	cfg.Home = l.home()

	wd, err := l.getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to determine working directory")
	}
	cfg.WorkDir = wd

	path := filepath.Join(cfg.ProjectRoot(), domain.ProjectFileName)
	var pf Projectfile
	found, err := readAndUnmarshalYAML(path, &pf)
	if err != nil {
		return nil, err
	}
	if found {
		applyProjectfile(&cfg, &pf)
	}

	if err := validate(&cfg); err != nil {
		return nil, zerr.With(err, "config_file", path)
	}
	return &cfg, nil
}

func applyProjectfile(cfg *domain.Config, pf *Projectfile) {
	p := &cfg.Project
	setString(&p.Crate, pf.Project.Crate)
	setString(&p.Binary, pf.Project.Binary)
	setString(&p.InterfaceFile, pf.Project.InterfaceFile)
	setString(&p.Target, pf.Project.Target)
	setString(&p.Profile, pf.Project.Profile)
	setString(&p.MetadataName, pf.Project.MetadataName)
	setString(&p.OptimizeLevel, pf.Project.OptimizeLevel)
	if len(pf.Project.SourceExtensions) > 0 {
		p.SourceExtensions = pf.Project.SourceExtensions
	}
	if len(pf.Project.DescriptorFiles) > 0 {
		p.DescriptorFiles = pf.Project.DescriptorFiles
	}

	a := &cfg.Artifacts
	setString(&a.CacheDir, pf.Artifacts.CacheDir)
	setString(&a.ReferenceRepo, pf.Artifacts.ReferenceRepo)
	setString(&a.RevisionIndex, pf.Artifacts.RevisionIndex)
	setString(&a.CDNBase, pf.Artifacts.CDNBase)
	setString(&a.Manifest, pf.Artifacts.Manifest)
	if pf.Artifacts.Concurrency != 0 {
		a.Concurrency = pf.Artifacts.Concurrency
	}
	if len(pf.Artifacts.Dependencies) > 0 {
		a.Dependencies = pf.Artifacts.Dependencies
	}

	setString(&cfg.Test.ArtifactEnv, pf.Test.ArtifactEnv)
	setString(&cfg.Test.IntegrationTest, pf.Test.IntegrationTest)
	setString(&cfg.Tools.Cargo, pf.Tools.Cargo)
	setString(&cfg.Tools.ICWasm, pf.Tools.ICWasm)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func validate(cfg *domain.Config) error {
	if cfg.Artifacts.Concurrency < 1 {
		return zerr.With(domain.Tag(domain.ErrInvalidConfig), "concurrency", cfg.Artifacts.Concurrency)
	}

	names := make(map[string]bool, len(cfg.Artifacts.Dependencies))
	envs := map[string]bool{cfg.Test.ArtifactEnv: true}
	for _, d := range cfg.Artifacts.Dependencies {
		if d.Name == "" || d.CacheFile == "" || d.EnvVar == "" {
			err := zerr.With(domain.Tag(domain.ErrInvalidConfig), "dependency", d.Name)
			return zerr.With(err, "reason", "name, cache_file and env are required")
		}
		if names[d.Name] {
			err := zerr.With(domain.Tag(domain.ErrInvalidConfig), "dependency", d.Name)
			return zerr.With(err, "reason", "duplicate dependency name")
		}
		if envs[d.EnvVar] {
			err := zerr.With(domain.Tag(domain.ErrInvalidConfig), "dependency", d.Name)
			return zerr.With(err, "reason", "duplicate environment variable "+d.EnvVar)
		}
		names[d.Name] = true
		envs[d.EnvVar] = true

		switch d.Strategy {
		case domain.StrategyPinnedRevision:
			if d.Key == "" || d.RemoteFile == "" {
				err := zerr.With(domain.Tag(domain.ErrInvalidConfig), "dependency", d.Name)
				return zerr.With(err, "reason", "pinned-revision dependencies need key and remote_file")
			}
		case domain.StrategyManifestVersioned:
		default:
			err := zerr.With(domain.Tag(domain.ErrUnknownStrategy), "dependency", d.Name)
			return zerr.With(err, "strategy", string(d.Strategy))
		}
	}
	return nil
}

// readAndUnmarshalYAML decodes path into v. A missing file is reported as not found
// without an error.
func readAndUnmarshalYAML(path string, v any) (bool, error) {
	//nolint:gosec // path comes from the resolved layout
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, zerr.With(domain.WrapKind(domain.ErrConfigReadFailed, err), "path", path)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return false, zerr.With(domain.WrapKind(domain.ErrConfigParseFailed, err), "path", path)
	}
	return true, nil
}
