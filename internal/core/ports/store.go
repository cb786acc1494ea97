package ports

import "go.trai.ch/wasmship/internal/core/domain"

// BuildInfoStore defines the interface for storing and retrieving the build record.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildInfoStore interface {
	// Get retrieves the last build record.
	// Returns nil, nil if not found.
	Get() (*domain.BuildInfo, error)

	// Put stores the build record.
	Put(info domain.BuildInfo) error

	// Delete removes the build record. A missing record is not an error.
	Delete() error
}
