package wasm

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wasmship/internal/core/ports"
)

// CompressorNodeID is the unique identifier for the compressor Graft node.
const CompressorNodeID graft.ID = "adapter.wasm.compressor"

func init() {
	graft.Register(graft.Node[ports.Compressor]{
		ID:        CompressorNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Compressor, error) {
			return NewCompressor(), nil
		},
	})
}
