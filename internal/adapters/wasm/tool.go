// Package wasm post-processes compiled WebAssembly modules.
package wasm

import (
	"context"
	"io"

	"go.trai.ch/wasmship/internal/core/domain"
	"go.trai.ch/wasmship/internal/core/ports"
)

var _ ports.WasmTool = (*Tool)(nil)

// Tool implements ports.WasmTool by invoking ic-wasm.
type Tool struct {
	runner        ports.ProcessRunner
	binary        string
	metadataName  string
	visibility    string
	optimizeLevel string

	// Stdout and Stderr receive the tool output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// NewTool creates a Tool configured from the project settings.
func NewTool(runner ports.ProcessRunner, binary string, project domain.ProjectConfig) *Tool {
	return &Tool{
		runner:        runner,
		binary:        binary,
		metadataName:  project.MetadataName,
		visibility:    project.MetadataVisibility,
		optimizeLevel: project.OptimizeLevel,
	}
}

// InjectMetadata writes interfaceFile into in as a custom section and saves the result to out.
func (t *Tool) InjectMetadata(ctx context.Context, in, out, interfaceFile string) error {
	return t.run(ctx,
		"-o", out, in,
		"metadata", "-v", t.visibility, t.metadataName, "-f", interfaceFile,
	)
}

// Optimize shrinks in and writes the result to out, keeping the name section
// so deployed stack traces stay symbolized.
func (t *Tool) Optimize(ctx context.Context, in, out string) error {
	return t.run(ctx,
		"-o", out, in,
		"optimize", "--keep-name-section", t.optimizeLevel,
	)
}

func (t *Tool) run(ctx context.Context, args ...string) error {
	_, err := t.runner.Run(ctx, domain.Command{
		Name:   t.binary,
		Args:   args,
		Stdout: t.Stdout,
		Stderr: t.Stderr,
	})
	return err
}
