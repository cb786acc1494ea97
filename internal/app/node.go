package app

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/wasmship/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/wasmship/internal/adapters/detector"  //nolint:depguard // Wired in app layer
	"go.trai.ch/wasmship/internal/adapters/fetch"     //nolint:depguard // Wired in app layer
	"go.trai.ch/wasmship/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/wasmship/internal/adapters/layout"    //nolint:depguard // Wired in app layer
	"go.trai.ch/wasmship/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/wasmship/internal/adapters/shell"     //nolint:depguard // Wired in app layer
	"go.trai.ch/wasmship/internal/adapters/store"     //nolint:depguard // Wired in app layer
	"go.trai.ch/wasmship/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/wasmship/internal/adapters/wasm"      //nolint:depguard // Wired in app layer
	"go.trai.ch/wasmship/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/wasmship/internal/core/domain"
	"go.trai.ch/wasmship/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components the CLI needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.LoaderNodeID,
			config.ManifestLoaderNodeID,
			config.RevisionLoaderNodeID,
			layout.NodeID,
			shell.NodeID,
			fetch.NodeID,
			wasm.CompressorNodeID,
			fs.HasherNodeID,
			fs.WalkerNodeID,
			watcher.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			detector.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{AppNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

//nolint:cyclop // one lookup per dependency
func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	manifests, err := graft.Dep[ports.ManifestLoader](ctx)
	if err != nil {
		return nil, err
	}
	revisions, err := graft.Dep[ports.RevisionIndexLoader](ctx)
	if err != nil {
		return nil, err
	}
	resolver, err := graft.Dep[ports.PathResolver](ctx)
	if err != nil {
		return nil, err
	}
	runner, err := graft.Dep[ports.ProcessRunner](ctx)
	if err != nil {
		return nil, err
	}
	fetcher, err := graft.Dep[ports.Fetcher](ctx)
	if err != nil {
		return nil, err
	}
	compressor, err := graft.Dep[ports.Compressor](ctx)
	if err != nil {
		return nil, err
	}
	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}
	walker, err := graft.Dep[*fs.Walker](ctx)
	if err != nil {
		return nil, err
	}
	srcWatcher, err := graft.Dep[ports.SourceWatcher](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	env, err := graft.Dep[detector.Environment](ctx)
	if err != nil {
		return nil, err
	}

	services := Services{
		ConfigLoader: loader,
		Resolver:     resolver,
		Manifests:    manifests,
		Revisions:    revisions,
		Runner:       runner,
		Fetcher:      fetcher,
		Compressor:   compressor,
		Hasher:       hasher,
		Watcher:      srcWatcher,
		Logger:       log,
		Tracer:       tracer,
	}

	factories := Factories{
		WasmTool: func(cfg *domain.Config) ports.WasmTool {
			tool := wasm.NewTool(runner, cfg.Tools.ICWasm, cfg.Project)
			tool.Stdout = os.Stderr
			tool.Stderr = os.Stderr
			return tool
		},
		Staleness: func(cfg *domain.Config) ports.StalenessChecker {
			return fs.NewStalenessChecker(walker, cfg.Project.SourceExtensions, cfg.Project.DescriptorFiles)
		},
		Store: func(l *domain.Layout) ports.BuildInfoStore {
			return store.NewStore(l.BuildRecordPath())
		},
	}

	return New(services, factories).WithInteractive(env.Interactive && !env.CI), nil
}
