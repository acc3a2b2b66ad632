package blobstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalStore is a Store over a directory tree. Blob names map to relative
// file paths; writes go to a temp file and are renamed into place on Close,
// so readers never see partial blobs.
type LocalStore struct {
	root string
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore creates a store rooted at the given directory, creating it
// if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blobstore: create root %s: %w", root, err)
	}

	return &LocalStore{root: root}, nil
}

func (s *LocalStore) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// Open opens a blob for reading.
func (s *LocalStore) Open(_ context.Context, name string) (Blob, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &localBlob{f: f, size: info.Size()}, nil
}

// Create starts a streaming write into a temp file next to the target.
func (s *LocalStore) Create(_ context.Context, name string) (WritableBlob, error) {
	target := s.path(name)

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".blob-*")
	if err != nil {
		return nil, err
	}

	return &localWritableBlob{f: tmp, target: target}, nil
}

// Put writes a blob in one call, atomically.
func (s *LocalStore) Put(ctx context.Context, name string, data []byte) error {
	w, err := s.Create(ctx, name)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return err
	}

	return w.Close()
}

// Delete removes a blob.
func (s *LocalStore) Delete(_ context.Context, name string) error {
	err := os.Remove(s.path(name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

// List walks the tree and returns the sorted names with the given prefix.
func (s *LocalStore) List(_ context.Context, prefix string) ([]string, error) {
	var names []string

	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		if strings.HasPrefix(d.Name(), ".blob-") {
			// In-flight temp file.
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}

		name := filepath.ToSlash(rel)
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(names)

	return names, nil
}

type localBlob struct {
	f    *os.File
	size int64
}

func (b *localBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	return b.f.ReadAt(p, off)
}

func (b *localBlob) ReadRange(_ context.Context, off, length int64) (io.ReadCloser, error) {
	if off < 0 || off >= b.size {
		return io.NopCloser(strings.NewReader("")), nil
	}

	if end := off + length; end > b.size {
		length = b.size - off
	}

	return io.NopCloser(io.NewSectionReader(b.f, off, length)), nil
}

func (b *localBlob) Size() int64 {
	return b.size
}

func (b *localBlob) Close() error {
	return b.f.Close()
}

type localWritableBlob struct {
	f      *os.File
	target string
}

func (w *localWritableBlob) Write(p []byte) (int, error) {
	return w.f.Write(p)
}

func (w *localWritableBlob) Sync() error {
	return w.f.Sync()
}

func (w *localWritableBlob) Close() error {
	if err := w.f.Sync(); err != nil {
		_ = w.f.Close()
		_ = os.Remove(w.f.Name())

		return err
	}

	if err := w.f.Close(); err != nil {
		_ = os.Remove(w.f.Name())
		return err
	}

	return os.Rename(w.f.Name(), w.target)
}
