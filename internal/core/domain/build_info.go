package domain

import "time"

// BuildInfo records the last successfully published artifact.
type BuildInfo struct {
	Artifact      string    `json:"artifact,omitzero"`
	Path          string    `json:"path,omitzero"`
	Size          int64     `json:"size,omitzero"`
	AugmentedSize int64     `json:"augmented_size,omitzero"`
	Hash          string    `json:"hash,omitzero"`
	BuiltAt       time.Time `json:"built_at,omitzero"`
}

// BuildReport is the result of one pipeline run.
type BuildReport struct {
	// Published is the absolute path of the compressed artifact.
	Published string
	// Size is the compressed artifact size in bytes.
	Size int64
	// AugmentedSize is the size of the optimized module before compression.
	AugmentedSize int64
	// Hash is the content hash of the compressed artifact.
	Hash string
	// Reproducible reports whether Hash matches the previous record.
	// It is false when there was no previous record.
	Reproducible bool
	// Previous is the record replaced by this run, if any.
	Previous *BuildInfo
}
