package cache

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pferrot/grevos/pkg/domain/interfaces"
)

type fileStore struct {
	dir string
}

// NewFileStore stores one file per key under dir. The directory is created if missing.
func NewFileStore(dir string) (interfaces.CacheStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create cache directory", goerr.V("dir", dir))
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) path(key string) string {
	return filepath.Join(s.dir, key)
}

// Get reads the cache file of key
func (s *fileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to read cache file", goerr.V("path", s.path(key)))
	}
	return data, true, nil
}

// Put replaces the cache file of key. The payload is written to a temporary
// file first so a crash never leaves a truncated entry behind.
func (s *fileStore) Put(ctx context.Context, key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary cache file", goerr.V("dir", s.dir))
	}
	defer func() {
		_ = os.Remove(tmp.Name()) // No-op once renamed
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return goerr.Wrap(err, "failed to write cache file", goerr.V("path", tmp.Name()))
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close cache file", goerr.V("path", tmp.Name()))
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return goerr.Wrap(err, "failed to move cache file in place", goerr.V("path", s.path(key)))
	}
	return nil
}

// Close is a no-op for the file store
func (s *fileStore) Close() error {
	return nil
}
