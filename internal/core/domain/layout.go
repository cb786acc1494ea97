package domain

import "path/filepath"

const (
	// DefaultProjectDirName is the project directory under the home directory in local mode.
	DefaultProjectDirName = "sns-kongswap-adaptor"

	// ProjectFileName is the optional project configuration file at the project root.
	ProjectFileName = "wasmship.yaml"

	// StateDirName is the internal state directory at the project root.
	StateDirName = ".wasmship"

	// BuildRecordFile is the build record file inside the state directory.
	BuildRecordFile = "build.json"

	// AugmentedPrefix prefixes the intermediate augmented artifact.
	AugmentedPrefix = "augmented-"

	// WasmExt is the raw module extension.
	WasmExt = ".wasm"

	// GzipExt is appended to the published artifact.
	GzipExt = ".gz"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// Layout is the immutable set of absolute paths for one invocation.
type Layout struct {
	// Root is the project root.
	Root string
	// SourceDir is the canister source tree watched for staleness.
	SourceDir string
	// OutputDir is the compiled-output directory.
	OutputDir string
	// InterfaceFile is the interface-description file.
	InterfaceFile string
	// CacheDir is the dependency-artifact cache directory.
	CacheDir string
	// ReferenceRepo is the reference repository checkout holding the revision index.
	ReferenceRepo string
	// RevisionIndex is the revision index file inside ReferenceRepo.
	RevisionIndex string
	// Manifest is the dependency manifest file.
	Manifest string
	// StateDir holds the build record.
	StateDir string
	// ArtifactName is the logical name of the build artifact.
	ArtifactName string
}

// RawArtifact is the module as emitted by the compiler.
func (l *Layout) RawArtifact() string {
	return filepath.Join(l.OutputDir, l.ArtifactName+WasmExt)
}

// AugmentedArtifact is the intermediate module with metadata injected and size optimized.
func (l *Layout) AugmentedArtifact() string {
	return filepath.Join(l.OutputDir, AugmentedPrefix+l.ArtifactName+WasmExt)
}

// PublishedArtifact is the final compressed module.
func (l *Layout) PublishedArtifact() string {
	return filepath.Join(l.OutputDir, l.ArtifactName+WasmExt+GzipExt)
}

// CachePath returns the deterministic cache destination for a dependency.
func (l *Layout) CachePath(d DependencyDescriptor) string {
	return filepath.Join(l.CacheDir, d.CacheFile)
}

// BuildRecordPath returns the build record location.
func (l *Layout) BuildRecordPath() string {
	return filepath.Join(l.StateDir, BuildRecordFile)
}
