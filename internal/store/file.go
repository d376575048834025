package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

const (
	fileStoreDirPerm  = 0o750
	fileStoreFilePerm = 0o600
)

// FileStore keeps one file per key under dir. It works on any billy
// filesystem, so tests run it on memfs.
type FileStore struct {
	fs  billy.Filesystem
	dir string
}

// NewFileStore creates dir on fs if needed.
func NewFileStore(fs billy.Filesystem, dir string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := fs.MkdirAll(dir, fileStoreDirPerm); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &FileStore{fs: fs, dir: dir}, nil
}

// NewLocalFileStore stores files under dir on the local disk.
func NewLocalFileStore(dir string) (*FileStore, error) {
	return NewFileStore(osfs.New(dir), ".")
}

func (f *FileStore) path(key string) string {
	return f.fs.Join(f.dir, url.PathEscape(key)+".json")
}

func (f *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := util.ReadFile(f.fs, f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

func (f *FileStore) Set(_ context.Context, key string, value []byte) error {
	if err := util.WriteFile(f.fs, f.path(key), value, fileStoreFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (f *FileStore) Delete(_ context.Context, key string) error {
	err := f.fs.Remove(f.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Ping checks that the storage directory is still reachable.
func (f *FileStore) Ping(_ context.Context) error {
	if _, err := f.fs.Stat(f.dir); err != nil {
		return fmt.Errorf("stat storage directory: %w", err)
	}
	return nil
}
