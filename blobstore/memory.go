package blobstore

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store, used in tests and as the cache layer
// backing. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory blob store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[string][]byte),
	}
}

// Open opens a blob for reading.
func (m *MemoryStore) Open(_ context.Context, name string) (Blob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[name]
	if !ok {
		return nil, ErrNotFound
	}

	// Copy so later writes to the store never leak into an open handle.
	copied := make([]byte, len(data))
	copy(copied, data)

	return &memoryBlob{data: copied}, nil
}

// Create starts a buffered write; the blob appears on Close.
func (m *MemoryStore) Create(_ context.Context, name string) (WritableBlob, error) {
	return &memoryWritableBlob{store: m, name: name}, nil
}

// Put writes a blob in one call.
func (m *MemoryStore) Put(_ context.Context, name string, data []byte) error {
	copied := make([]byte, len(data))
	copy(copied, data)

	m.mu.Lock()
	m.blobs[name] = copied
	m.mu.Unlock()

	return nil
}

// Delete removes a blob.
func (m *MemoryStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	delete(m.blobs, name)
	m.mu.Unlock()

	return nil
}

// List returns the sorted blob names with the given prefix.
func (m *MemoryStore) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var names []string
	for name := range m.blobs {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names, nil
}

type memoryBlob struct {
	data []byte
}

func (b *memoryBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(b.data)) {
		return 0, io.EOF
	}

	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

func (b *memoryBlob) ReadRange(_ context.Context, off, length int64) (io.ReadCloser, error) {
	if off < 0 || off >= int64(len(b.data)) {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}

	end := off + length
	if end > int64(len(b.data)) {
		end = int64(len(b.data))
	}

	return io.NopCloser(bytes.NewReader(b.data[off:end])), nil
}

func (b *memoryBlob) Size() int64 {
	return int64(len(b.data))
}

func (b *memoryBlob) Close() error {
	return nil
}

type memoryWritableBlob struct {
	store *MemoryStore
	name  string
	buf   bytes.Buffer
}

func (w *memoryWritableBlob) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *memoryWritableBlob) Sync() error {
	return nil
}

func (w *memoryWritableBlob) Close() error {
	data := make([]byte, w.buf.Len())
	copy(data, w.buf.Bytes())

	w.store.mu.Lock()
	w.store.blobs[w.name] = data
	w.store.mu.Unlock()

	return nil
}
