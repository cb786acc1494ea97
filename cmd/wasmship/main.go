// Package main is the entry point for the wasmship build and test tool.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/wasmship/cmd/wasmship/commands"
	"go.trai.ch/wasmship/internal/app"
	"go.trai.ch/wasmship/internal/core/domain"
	_ "go.trai.ch/wasmship/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	cli := commands.New(components.App)
	if err := cli.Execute(ctx); err != nil {
		return exitCode(err, components)
	}
	return 0
}

// exitCode maps a command error to the process exit status. Failing tests
// already reported themselves and pass their exit code through.
func exitCode(err error, components *app.Components) int {
	var failed *domain.TestFailedError
	if errors.As(err, &failed) {
		components.Logger.Warn("tests failed", "exit_code", failed.ExitCode)
		return failed.ExitCode
	}
	components.Logger.Error(err)
	return 1
}
