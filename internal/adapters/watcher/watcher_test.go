package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/wasmship/internal/adapters/watcher"
	"go.trai.ch/wasmship/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestWatcher_DeliversChanges(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(src, 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "target"), 0o750))

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()

	w := watcher.NewWatcherWithWindow(log, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var seen []string
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, root, func(_ context.Context, paths []string) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, paths...)
		})
	}()

	target := filepath.Join(src, "lib.rs")
	require.Eventually(t, func() bool {
		_ = os.WriteFile(target, []byte("fn main() {}"), 0o600)
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0
	}, 5*time.Second, 50*time.Millisecond)

	mu.Lock()
	assert.Contains(t, seen, target)
	for _, p := range seen {
		assert.NotContains(t, p, string(filepath.Separator)+"target"+string(filepath.Separator))
	}
	mu.Unlock()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}

func TestWatcher_MissingRootFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	w := watcher.NewWatcher(log)
	root := filepath.Join(t.TempDir(), "missing")

	err := w.Watch(context.Background(), root, func(context.Context, []string) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch sources")
}
