// Package fetch downloads dependency artifacts into the local cache.
package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/opencontainers/go-digest"
	"go.trai.ch/wasmship/internal/core/domain"
	"go.trai.ch/wasmship/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sys/unix"
)

const httpClientTimeout = 5 * time.Minute

var _ ports.Fetcher = (*Fetcher)(nil)

// Fetcher implements ports.Fetcher over HTTP.
//
// Downloads land in a temporary file next to the destination and are renamed
// into place once complete, so an interrupted transfer never leaves a partial
// artifact at dest. Concurrent fetches of the same destination, including from
// other processes, are serialized with an advisory lock.
type Fetcher struct {
	httpClient *http.Client
	logger     ports.Logger
}

// NewFetcher creates a Fetcher with a default HTTP client.
func NewFetcher(logger ports.Logger) *Fetcher {
	return NewFetcherWithClient(logger, &http.Client{Timeout: httpClientTimeout})
}

// NewFetcherWithClient creates a Fetcher with a custom HTTP client.
func NewFetcherWithClient(logger ports.Logger, client *http.Client) *Fetcher {
	return &Fetcher{httpClient: client, logger: logger}
}

// Fetch downloads url to dest.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) error {
	dest = filepath.Clean(dest)
	dir := filepath.Dir(dest)

	unlock, err := lockPath(filepath.Join(dir, "."+filepath.Base(dest)+".lock"))
	if err != nil {
		return zerr.With(err, "path", dest)
	}
	defer unlock()

	// Another process may have completed the same download while we waited.
	if _, err := os.Stat(dest); err == nil {
		return nil
	}

	sum, err := f.download(ctx, url, dest)
	if err != nil {
		return zerr.With(err, "url", url)
	}

	f.logger.Info("downloaded artifact", "path", dest, "digest", sum.String())
	return nil
}

func (f *Fetcher) download(ctx context.Context, url, dest string) (digest.Digest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", domain.WrapKind(domain.ErrDownloadFailed, err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", domain.WrapKind(domain.ErrDownloadFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", zerr.With(domain.Tag(domain.ErrDownloadFailed), "status", resp.StatusCode)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.part")
	if err != nil {
		return "", domain.WrapKind(domain.ErrDownloadFailed, err)
	}
	tmpName := tmpFile.Name()
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	digester := digest.Canonical.Digester()
	n, err := io.Copy(io.MultiWriter(tmpFile, digester.Hash()), resp.Body)
	if err != nil {
		_ = tmpFile.Close()
		return "", domain.WrapKind(domain.ErrDownloadFailed, err)
	}
	if resp.ContentLength >= 0 && n != resp.ContentLength {
		_ = tmpFile.Close()
		err := zerr.With(domain.Tag(domain.ErrDownloadFailed), "reason", "truncated transfer")
		err = zerr.With(err, "expected_bytes", resp.ContentLength)
		return "", zerr.With(err, "received_bytes", n)
	}

	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return "", domain.WrapKind(domain.ErrDownloadFailed, err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", domain.WrapKind(domain.ErrDownloadFailed, err)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return "", domain.WrapKind(domain.ErrDownloadFailed, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return "", domain.WrapKind(domain.ErrDownloadFailed, err)
	}

	return digester.Digest(), nil
}

// lockPath takes an exclusive advisory lock on path, creating it if needed.
// The lock file is left in place; removing it would let a waiter lock an
// unlinked inode while a newcomer locks a fresh one.
func lockPath(path string) (func(), error) {
	//nolint:gosec // lock file lives in the resolved cache directory
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, domain.FilePerm)
	if err != nil {
		return nil, domain.WrapKind(domain.ErrLockFailed, err)
	}

	for {
		err = unix.Flock(int(f.Fd()), unix.LOCK_EX)
		if !errors.Is(err, unix.EINTR) {
			break
		}
	}
	if err != nil {
		_ = f.Close()
		return nil, domain.WrapKind(domain.ErrLockFailed, err)
	}

	return func() {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
		_ = f.Close()
	}, nil
}
