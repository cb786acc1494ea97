// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/wasmship/internal/core/domain"
)

// ProcessRunner defines the interface for running external executables.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type ProcessRunner interface {
	// Run starts the command and waits for it to exit.
	//
	// A process that exits non-zero yields both a result carrying the exit code
	// and an error. A process that cannot be started yields a nil result.
	Run(ctx context.Context, cmd domain.Command) (*domain.ProcessResult, error)
}
