package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// AferoStore implements Store on top of an afero filesystem, so the same
// code writes to disk in the CLI and to memory in tests.
type AferoStore struct {
	fs afero.Fs
}

// NewAferoStore creates a new AferoStore.
func NewAferoStore(fs afero.Fs) *AferoStore {
	return &AferoStore{fs: fs}
}

// NewDiskStore creates an AferoStore rooted at dir on the OS filesystem.
// Paths passed to the store cannot escape dir.
func NewDiskStore(dir string) *AferoStore {
	return NewAferoStore(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// Save writes the content of the reader to the given path, creating parent
// directories as needed.
func (s *AferoStore) Save(ctx context.Context, path string, reader io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, err
	}
	f, err := s.fs.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(f, reader)
}

// Open opens a file for reading.
func (s *AferoStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.fs.OpenFile(path, os.O_RDONLY, 0)
}

// List returns the sorted paths of the regular files directly inside dir.
// A missing directory is reported as empty.
func (s *AferoStore) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	infos, err := afero.ReadDir(s.fs, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.Mode().IsRegular() {
			paths = append(paths, filepath.Join(dir, info.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Delete removes a file.
func (s *AferoStore) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.fs.Remove(path)
}
