package config

import "go.trai.ch/wasmship/internal/core/domain"

// Projectfile represents the structure of the optional wasmship.yaml file.
// Every field is optional; zero values keep the defaults.
type Projectfile struct {
	Project   ProjectDTO   `yaml:"project"`
	Artifacts ArtifactsDTO `yaml:"artifacts"`
	Test      TestDTO      `yaml:"test"`
	Tools     ToolsDTO     `yaml:"tools"`
}

// ProjectDTO overrides domain.ProjectConfig.
type ProjectDTO struct {
	Crate            string   `yaml:"crate"`
	Binary           string   `yaml:"binary"`
	InterfaceFile    string   `yaml:"interface_file"`
	Target           string   `yaml:"target"`
	Profile          string   `yaml:"profile"`
	MetadataName     string   `yaml:"metadata_name"`
	OptimizeLevel    string   `yaml:"optimize_level"`
	SourceExtensions []string `yaml:"source_extensions"`
	DescriptorFiles  []string `yaml:"descriptor_files"`
}

// ArtifactsDTO overrides domain.ArtifactsConfig.
type ArtifactsDTO struct {
	CacheDir      string `yaml:"cache_dir"`
	ReferenceRepo string `yaml:"reference_repo"`
	RevisionIndex string `yaml:"revision_index"`
	CDNBase       string `yaml:"cdn_base"`
	Manifest      string `yaml:"manifest"`
	Concurrency   int    `yaml:"concurrency"`
	// Dependencies replaces the default dependency list when present.
	Dependencies []domain.DependencyDescriptor `yaml:"dependencies"`
}

// TestDTO overrides domain.TestConfig.
type TestDTO struct {
	ArtifactEnv     string `yaml:"artifact_env"`
	IntegrationTest string `yaml:"integration_test"`
}

// ToolsDTO overrides domain.ToolsConfig.
type ToolsDTO struct {
	Cargo  string `yaml:"cargo"`
	ICWasm string `yaml:"ic_wasm"`
}

// manifestFile represents the dependency manifest document.
// Pointers distinguish an absent section from an empty one.
type manifestFile struct {
	Dependencies *map[string]*manifestEntryDTO `yaml:"dependencies"`
}

type manifestEntryDTO struct {
	Version     *string `yaml:"version"`
	URLTemplate *string `yaml:"url_template"`
}
