package config

import (
	"os"
	"slices"
	"strings"

	"go.trai.ch/wasmship/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// ManifestLoader implements ports.ManifestLoader for the YAML dependency manifest.
type ManifestLoader struct{}

// NewManifestLoader creates a ManifestLoader.
func NewManifestLoader() *ManifestLoader {
	return &ManifestLoader{}
}

// Load reads and validates the manifest. Every failure names the absent section,
// dependency or key.
func (m *ManifestLoader) Load(path string) (*domain.Manifest, error) {
	//nolint:gosec // path comes from the resolved layout
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(domain.WrapKind(domain.ErrConfigReadFailed, err), "path", path)
	}

	var doc manifestFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.With(domain.WrapKind(domain.ErrConfigParseFailed, err), "path", path)
	}

	if doc.Dependencies == nil {
		err := zerr.With(domain.Tag(domain.ErrManifestSectionMissing), "section", "dependencies")
		return nil, zerr.With(err, "path", path)
	}

	manifest := &domain.Manifest{
		Path:         path,
		Dependencies: make(map[string]domain.ManifestEntry, len(*doc.Dependencies)),
	}

	// Sorted so the first reported problem is stable.
	names := make([]string, 0, len(*doc.Dependencies))
	for name := range *doc.Dependencies {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		entry := (*doc.Dependencies)[name]
		if err := checkKey(entry, name, "version", path); err != nil {
			return nil, err
		}
		if err := checkKey(entry, name, "url_template", path); err != nil {
			return nil, err
		}
		if !strings.Contains(*entry.URLTemplate, domain.VersionPlaceholder) {
			err := zerr.With(domain.Tag(domain.ErrInvalidConfig), "dependency", name)
			err = zerr.With(err, "reason", "url_template has no "+domain.VersionPlaceholder+" placeholder")
			return nil, zerr.With(err, "path", path)
		}

		manifest.Dependencies[name] = domain.ManifestEntry{
			Version:     *entry.Version,
			URLTemplate: *entry.URLTemplate,
		}
	}

	return manifest, nil
}

func checkKey(entry *manifestEntryDTO, name, key, path string) error {
	var value *string
	if entry != nil {
		switch key {
		case "version":
			value = entry.Version
		case "url_template":
			value = entry.URLTemplate
		}
	}
	if value != nil && *value != "" {
		return nil
	}
	err := zerr.With(domain.Tag(domain.ErrManifestKeyMissing), "dependency", name)
	err = zerr.With(err, "key", key)
	return zerr.With(err, "path", path)
}
