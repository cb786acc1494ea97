// Package store persists the build record of the last published artifact.
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/wasmship/internal/core/domain"
	"go.trai.ch/wasmship/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildInfoStore = (*Store)(nil)

// Store implements ports.BuildInfoStore using a flat JSON file.
type Store struct {
	path string
	mu   sync.RWMutex
}

// NewStore creates a new BuildInfoStore backed by the file at the given path.
// The file is only touched on first use.
func NewStore(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

// Get retrieves the build record. Returns nil, nil if none was written yet.
func (s *Store) Get() (*domain.BuildInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	//nolint:gosec // Path is cleaned and provided by the resolved layout
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(domain.WrapKind(domain.ErrStoreReadFailed, err), "path", s.path)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var info domain.BuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, zerr.With(domain.WrapKind(domain.ErrStoreReadFailed, err), "path", s.path)
	}
	return &info, nil
}

// Put replaces the build record.
func (s *Store) Put(info domain.BuildInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return domain.WrapKind(domain.ErrStoreWriteFailed, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(domain.WrapKind(domain.ErrStoreWriteFailed, err), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return zerr.With(domain.WrapKind(domain.ErrStoreWriteFailed, err), "path", s.path)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return zerr.With(domain.WrapKind(domain.ErrStoreWriteFailed, err), "path", s.path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(domain.WrapKind(domain.ErrStoreWriteFailed, err), "path", s.path)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.With(domain.WrapKind(domain.ErrStoreWriteFailed, err), "path", s.path)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return zerr.With(domain.WrapKind(domain.ErrStoreWriteFailed, err), "path", s.path)
	}
	return nil
}

// Delete removes the build record.
func (s *Store) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(domain.WrapKind(domain.ErrStoreWriteFailed, err), "path", s.path)
	}
	return nil
}
