package ports

import "context"

// SourceWatcher observes a source tree for changes.
//
//go:generate go run go.uber.org/mock/mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type SourceWatcher interface {
	// Watch blocks until ctx is done. Changes under root are coalesced and
	// delivered to onChange one batch at a time; a batch arriving while
	// onChange runs is held until it returns.
	Watch(ctx context.Context, root string, onChange func(ctx context.Context, paths []string)) error
}
