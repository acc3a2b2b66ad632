package mmap

import (
	"os"
	"sync/atomic"
)

// Mapping represents a read-write, shared memory mapping of a file region.
// It owns the underlying byte slice and is responsible for unmapping it.
type Mapping struct {
	data   []byte
	size   int
	closed atomic.Bool
}

// MapFile maps size bytes of the file starting at offset into memory.
// The mapping is shared and writable: stores through Bytes() hit the file.
// The offset must be a multiple of the system page size.
func MapFile(f *os.File, offset int64, size int) (*Mapping, error) {
	if size < 0 {
		return nil, ErrInvalidSize
	}
	if offset < 0 {
		return nil, ErrInvalidOffset
	}
	if size == 0 {
		return &Mapping{data: nil, size: 0}, nil
	}

	data, err := osMap(f, offset, size)
	if err != nil {
		return nil, err
	}

	return &Mapping{data: data, size: size}, nil
}

// Close unmaps the memory. It is idempotent. Dirty pages are written back
// by the OS eventually; call Sync first if durability matters.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil // Already closed
	}
	if m.data != nil {
		return osUnmap(m.data)
	}
	return nil
}

// Bytes returns the underlying byte slice.
// Warning: The slice is valid only until Close() is called.
// Accessing the slice after Close() results in undefined behavior (likely a crash).
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return m.size
}

// Sync forces dirty pages of the mapping to stable storage and blocks until
// the write-back completes.
func (m *Mapping) Sync() error {
	if m.closed.Load() {
		return ErrClosed
	}
	if m.data == nil {
		return nil
	}
	return osSync(m.data)
}

// Advise provides hints to the kernel about how the memory will be accessed.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if m.data == nil {
		return nil
	}
	return osAdvise(m.data, pattern)
}
