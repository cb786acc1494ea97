package app

import (
	"context"
	"os"

	"go.trai.ch/zerr"
)

// CleanOptions selects what Clean removes.
type CleanOptions struct {
	// Cache removes the dependency cache directory instead of the build record.
	Cache bool
	// All removes both.
	All bool
}

// Clean removes the build record and, when requested, the dependency cache.
// Removing the cache is the only way to force dependencies to be fetched again.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	_, layout, err := a.load()
	if err != nil {
		return err
	}

	if !opts.Cache || opts.All {
		if err := a.factories.Store(layout).Delete(); err != nil {
			return err
		}
		a.Logger.Info("removed build record", "path", layout.BuildRecordPath())
	}

	if opts.Cache || opts.All {
		if err := os.RemoveAll(layout.CacheDir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to remove dependency cache"), "path", layout.CacheDir)
		}
		a.Logger.Info("removed dependency cache", "path", layout.CacheDir)
	}
	return nil
}
