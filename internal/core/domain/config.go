package domain

import "path/filepath"

// Config is the fully resolved configuration for one invocation.
// It is built once at process start and shared by reference; nothing mutates it afterwards.
type Config struct {
	// CI selects the working-directory layout instead of the home-directory layout.
	CI bool
	// Home is the user's home directory.
	Home string
	// WorkDir is the process working directory.
	WorkDir string

	Project   ProjectConfig
	Artifacts ArtifactsConfig
	Test      TestConfig
	Tools     ToolsConfig
}

// ProjectRoot returns the working directory in CI and the fixed project
// directory under the home directory otherwise.
func (c *Config) ProjectRoot() string {
	if c.CI {
		return c.WorkDir
	}
	return filepath.Join(c.Home, c.Project.DirName)
}

// ProjectConfig describes the compiled project and its outputs.
type ProjectConfig struct {
	// DirName is the project directory name under Home in local mode.
	DirName string
	// Crate is the directory holding the canister sources, relative to the project root.
	Crate string
	// Binary is the single binary target to compile.
	Binary string
	// InterfaceFile is the interface-description file, relative to the project root.
	InterfaceFile string
	// Target is the compilation target triple.
	Target string
	// Profile is the build profile.
	Profile string
	// MetadataName is the custom section name the interface description is written to.
	MetadataName string
	// MetadataVisibility is the visibility of that section.
	MetadataVisibility string
	// OptimizeLevel is the size optimization level passed to the post-processor.
	OptimizeLevel string
	// SourceExtensions selects files considered by the staleness check.
	SourceExtensions []string
	// DescriptorFiles are project descriptor file names considered by the staleness check.
	DescriptorFiles []string
}

// ArtifactsConfig describes where and how external dependency artifacts are provisioned.
type ArtifactsConfig struct {
	// CacheDir is the dependency cache directory, relative to the project root.
	CacheDir string
	// ReferenceRepo is the reference repository checkout. A relative value is
	// resolved as a sibling of the project root.
	ReferenceRepo string
	// RevisionIndex is the revision index file inside the reference repository.
	RevisionIndex string
	// CDNBase is the base URL for pinned-revision downloads.
	CDNBase string
	// Manifest is the dependency manifest file, relative to the project root.
	Manifest string
	// Concurrency bounds parallel downloads. Values below 2 keep downloads sequential.
	Concurrency int
	// Dependencies lists every dependency the test environment needs.
	Dependencies []DependencyDescriptor
}

// TestConfig describes the test invocation.
type TestConfig struct {
	// ArtifactEnv names the variable that receives the published artifact path.
	ArtifactEnv string
	// IntegrationTest is the end-to-end test target name.
	IntegrationTest string
}

// ToolsConfig names the external executables.
type ToolsConfig struct {
	Cargo  string
	ICWasm string
}

// DefaultConfig returns the configuration used when no project file overrides it.
func DefaultConfig() Config {
	return Config{
		Project: ProjectConfig{
			DirName:            DefaultProjectDirName,
			Crate:              "kongswap_adaptor",
			Binary:             "kongswap-adaptor-canister",
			InterfaceFile:      "kongswap_adaptor/kongswap-adaptor.did",
			Target:             "wasm32-unknown-unknown",
			Profile:            "release",
			MetadataName:       "candid:service",
			MetadataVisibility: "public",
			OptimizeLevel:      "Os",
			SourceExtensions:   []string{".rs"},
			DescriptorFiles:    []string{"Cargo.toml"},
		},
		Artifacts: ArtifactsConfig{
			CacheDir:      "ic-artifacts",
			ReferenceRepo: "ic",
			RevisionIndex: "mainnet-canister-revisions.json",
			CDNBase:       "https://download.dfinity.systems/ic",
			Manifest:      "artifacts.yaml",
			Concurrency:   1,
			Dependencies: []DependencyDescriptor{
				{
					Name:       "sns_ledger",
					Strategy:   StrategyPinnedRevision,
					Key:        "sns_ledger",
					RemoteFile: "ic-icrc1-ledger.wasm.gz",
					CacheFile:  "mainnet-sns-ledger.wasm.gz",
					EnvVar:     "IC_ICRC1_LEDGER_WASM_PATH",
				},
				{
					Name:       "ledger",
					Strategy:   StrategyPinnedRevision,
					Key:        "ledger",
					RemoteFile: "ledger-canister.wasm.gz",
					CacheFile:  "mainnet-icp-ledger.wasm.gz",
					EnvVar:     "MAINNET_ICP_LEDGER_CANISTER_WASM_PATH",
				},
				{
					Name:      "kong_backend",
					Strategy:  StrategyManifestVersioned,
					CacheFile: "kong-backend.wasm",
					EnvVar:    "KONG_BACKEND_CANISTER_WASM_PATH",
				},
			},
		},
		Test: TestConfig{
			ArtifactEnv:     "KONGSWAP_ADAPTOR_CANISTER_WASM_PATH",
			IntegrationTest: "e2e",
		},
		Tools: ToolsConfig{
			Cargo:  "cargo",
			ICWasm: "ic-wasm",
		},
	}
}
