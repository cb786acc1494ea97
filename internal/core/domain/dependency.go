package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// ResolutionStrategy selects how a dependency's download URL is derived.
type ResolutionStrategy string

const (
	// StrategyPinnedRevision resolves through the reference repository's revision index.
	StrategyPinnedRevision ResolutionStrategy = "pinned-revision"
	// StrategyManifestVersioned resolves through the project's dependency manifest.
	StrategyManifestVersioned ResolutionStrategy = "manifest-versioned"
)

// VersionPlaceholder is substituted with the dependency version in manifest URL templates.
const VersionPlaceholder = "{version}"

// DependencyDescriptor names one external artifact and how to obtain it.
type DependencyDescriptor struct {
	// Name is the logical dependency name. For manifest-versioned dependencies
	// it is also the manifest entry name.
	Name     string             `yaml:"name"`
	Strategy ResolutionStrategy `yaml:"strategy"`
	// Key is the revision index key (pinned-revision only).
	Key string `yaml:"key"`
	// RemoteFile is the per-dependency CDN file name (pinned-revision only).
	RemoteFile string `yaml:"remote_file"`
	// CacheFile is the file name under the cache directory.
	CacheFile string `yaml:"cache_file"`
	// EnvVar is the test environment variable receiving the cached path.
	EnvVar string `yaml:"env"`
}

// Manifest is the project's declarative dependency manifest.
type Manifest struct {
	Path         string
	Dependencies map[string]ManifestEntry
}

// Resolve returns the download URL of the named dependency.
func (m *Manifest) Resolve(name string) (string, error) {
	entry, ok := m.Dependencies[name]
	if !ok {
		err := zerr.With(Tag(ErrManifestDependencyMissing), "dependency", name)
		return "", zerr.With(err, "manifest", m.Path)
	}
	return entry.URL(), nil
}

// ManifestEntry is one manifest-versioned dependency.
type ManifestEntry struct {
	Version     string
	URLTemplate string
}

// URL substitutes the version into the template.
func (e ManifestEntry) URL() string {
	return strings.ReplaceAll(e.URLTemplate, VersionPlaceholder, e.Version)
}

// RevisionIndex maps a dependency key to its pinned revision.
type RevisionIndex map[string]RevisionEntry

// RevisionEntry is one revision index record.
type RevisionEntry struct {
	Rev    string `json:"rev"`
	SHA256 string `json:"sha256"`
}
