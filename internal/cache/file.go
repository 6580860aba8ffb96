package cache

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"go.trai.ch/zerr"
)

// FileStore implements Store with one file per key on a billy filesystem.
type FileStore struct {
	fs billy.Filesystem
	mu sync.RWMutex
}

// NewFileStore creates a FileStore rooted at dir on the OS filesystem.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create cache directory"), "dir", dir)
	}
	return NewFileStoreFS(osfs.New(dir)), nil
}

// NewFileStoreFS creates a FileStore on an existing filesystem.
func NewFileStoreFS(fsys billy.Filesystem) *FileStore {
	return &FileStore{fs: fsys}
}

func fileName(key string) string {
	// Keys are fixed identifiers; strip anything that could escape the root.
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '_'
	}, key)
	return clean + ".json"
}

// Get reads the file for key.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := util.ReadFile(s.fs, fileName(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, zerr.With(zerr.Wrap(err, "failed to read cache file"), "key", key)
	}
	return data, true, nil
}

// Set writes value to a temp file and renames it over the key's file, so a
// reader never observes a half-written entry.
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := util.TempFile(s.fs, ".", "."+fileName(key)+"-")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create temp file"), "key", key)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, "failed to write cache file"), "key", key)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, "failed to close cache file"), "key", key)
	}
	if err := s.fs.Rename(tmpName, fileName(key)); err != nil {
		_ = s.fs.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, "failed to replace cache file"), "key", key)
	}
	return nil
}

// Delete removes the file for key.
func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.Remove(fileName(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to delete cache file"), "key", key)
	}
	return nil
}

// Root returns the directory backing the store.
func (s *FileStore) Root() string {
	return path.Clean(s.fs.Root())
}
