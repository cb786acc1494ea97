// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/wasmship/internal/adapters/config"
	_ "go.trai.ch/wasmship/internal/adapters/detector"
	_ "go.trai.ch/wasmship/internal/adapters/fetch"
	_ "go.trai.ch/wasmship/internal/adapters/fs"
	_ "go.trai.ch/wasmship/internal/adapters/layout"
	_ "go.trai.ch/wasmship/internal/adapters/logger"
	_ "go.trai.ch/wasmship/internal/adapters/shell"
	_ "go.trai.ch/wasmship/internal/adapters/telemetry"
	_ "go.trai.ch/wasmship/internal/adapters/wasm"
	_ "go.trai.ch/wasmship/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/wasmship/internal/app"
)
