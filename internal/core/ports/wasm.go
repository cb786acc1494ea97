package ports

import "context"

// WasmTool defines the interface for post-processing compiled modules.
//
//go:generate go run go.uber.org/mock/mockgen -source=wasm.go -destination=mocks/mock_wasmtool.go -package=mocks
type WasmTool interface {
	// InjectMetadata writes the interface description into a public custom section.
	InjectMetadata(ctx context.Context, in, out, interfaceFile string) error
	// Optimize shrinks the module in place at out, keeping the name section.
	Optimize(ctx context.Context, in, out string) error
}

// Compressor writes a compressed copy of a file.
type Compressor interface {
	// Compress writes src to dst and returns the compressed size in bytes.
	// dst is replaced atomically.
	Compress(src, dst string) (int64, error)
}
