package domain

import (
	"errors"
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrPathNotFound is the root kind for every required path that is absent.
	ErrPathNotFound = zerr.New("required path not found")

	// ErrProjectRootNotFound is returned when the project root does not exist.
	ErrProjectRootNotFound = zerr.Wrap(ErrPathNotFound, "project root does not exist")

	// ErrProjectDescriptorNotFound is returned when the project root has no recognizable project descriptor.
	ErrProjectDescriptorNotFound = zerr.Wrap(ErrPathNotFound, "project descriptor does not exist")

	// ErrOutputDirNotFound is returned when the compiled-output directory is missing after compilation.
	ErrOutputDirNotFound = zerr.Wrap(ErrPathNotFound, "compiled output directory does not exist")

	// ErrInterfaceFileNotFound is returned when the interface-description file is missing.
	ErrInterfaceFileNotFound = zerr.Wrap(ErrPathNotFound, "interface description file does not exist")

	// ErrRawArtifactNotFound is returned when the raw compiled module is missing after compilation.
	ErrRawArtifactNotFound = zerr.Wrap(ErrPathNotFound, "raw artifact does not exist")

	// ErrReferenceRepoNotFound is returned when the reference repository checkout is missing.
	ErrReferenceRepoNotFound = zerr.Wrap(ErrPathNotFound, "reference repository does not exist")

	// ErrExternalProcessFailed is returned when an external executable exits non-zero or cannot start.
	ErrExternalProcessFailed = zerr.New("external process failed")

	// ErrConfig is the root kind for configuration errors.
	ErrConfig = zerr.New("configuration error")

	// ErrConfigReadFailed is returned when a configuration file cannot be read.
	ErrConfigReadFailed = zerr.Wrap(ErrConfig, "failed to read config file")

	// ErrConfigParseFailed is returned when a configuration file cannot be parsed.
	ErrConfigParseFailed = zerr.Wrap(ErrConfig, "failed to parse config file")

	// ErrInvalidConfig is returned when a configuration value is invalid.
	ErrInvalidConfig = zerr.Wrap(ErrConfig, "invalid configuration")

	// ErrManifestSectionMissing is returned when the manifest has no dependencies section.
	ErrManifestSectionMissing = zerr.Wrap(ErrConfig, "manifest section missing")

	// ErrManifestDependencyMissing is returned when a named dependency is absent from the manifest.
	ErrManifestDependencyMissing = zerr.Wrap(ErrConfig, "dependency missing from manifest")

	// ErrManifestKeyMissing is returned when a manifest dependency entry lacks a required key.
	ErrManifestKeyMissing = zerr.Wrap(ErrConfig, "manifest dependency key missing")

	// ErrRevisionIndexMissing is returned when the revision index file does not exist.
	ErrRevisionIndexMissing = zerr.Wrap(ErrConfig, "revision index not found")

	// ErrRevisionKeyMissing is returned when a dependency key is absent from the revision index.
	ErrRevisionKeyMissing = zerr.Wrap(ErrConfig, "dependency key not found in revision index")

	// ErrRevisionFieldMissing is returned when a revision index entry has no rev field.
	ErrRevisionFieldMissing = zerr.Wrap(ErrConfig, "no rev field in revision index entry")

	// ErrConflictingTestScope is returned when unit-only and integration-only are both requested.
	ErrConflictingTestScope = zerr.Wrap(ErrConfig, "unit-only and integration-only are mutually exclusive")

	// ErrUnknownStrategy is returned when a dependency descriptor has an unknown resolution strategy.
	ErrUnknownStrategy = zerr.Wrap(ErrConfig, "unknown resolution strategy")

	// ErrDownloadFailed is returned when fetching a dependency artifact fails.
	ErrDownloadFailed = zerr.New("download failed")

	// ErrCompressionFailed is returned when writing the compressed artifact fails.
	ErrCompressionFailed = zerr.New("compression failed")

	// ErrPublishFailed is returned when the published artifact cannot be moved into place.
	ErrPublishFailed = zerr.New("failed to publish artifact")

	// ErrBuildFailed wraps any pipeline failure surfaced to the test runner.
	ErrBuildFailed = zerr.New("build failed")

	// ErrProvisionFailed wraps any provisioning failure surfaced to the test runner.
	ErrProvisionFailed = zerr.New("provisioning failed")

	// ErrCacheCreateFailed is returned when the dependency cache directory cannot be created.
	ErrCacheCreateFailed = zerr.New("failed to create dependency cache directory")

	// ErrLockFailed is returned when the per-download lock cannot be acquired.
	ErrLockFailed = zerr.New("failed to acquire cache lock")

	// ErrStoreReadFailed is returned when the build record cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build record")

	// ErrStoreWriteFailed is returned when the build record cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build record")
)

// TestFailedError reports a test process that ran to completion with a non-zero exit code.
type TestFailedError struct {
	ExitCode int
}

func (e *TestFailedError) Error() string {
	return fmt.Sprintf("tests failed with exit code %d", e.ExitCode)
}

// Tag returns a fresh wrapper around err for zerr.With to decorate.
// Decorating a sentinel directly copies it, and the copy no longer matches
// the sentinel under errors.Is; the tagged error does.
func Tag(err error) error {
	return zerr.Wrap(err, "")
}

// WrapKind returns an error of the given kind caused by cause.
// errors.Is matches kind (and its parents) as well as anything in cause's chain.
func WrapKind(kind, cause error) error {
	if cause == nil {
		return nil
	}
	return &kindError{kind: kind, cause: cause}
}

type kindError struct {
	kind  error
	cause error
}

func (e *kindError) Error() string {
	return e.Message() + ": " + e.cause.Error()
}

// Message reports the kind's own message so chain renderers print one line per level.
func (e *kindError) Message() string {
	var z *zerr.Error
	if errors.As(e.kind, &z) && z.Message() != "" {
		return z.Message()
	}
	return e.kind.Error()
}

func (e *kindError) Unwrap() error {
	return e.cause
}

func (e *kindError) Is(target error) bool {
	return errors.Is(e.kind, target)
}
