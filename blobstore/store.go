// Package blobstore abstracts where serialized hypercubes live: local
// files, process memory, or S3-compatible object storage.
//
// A Store holds named immutable blobs. Snapshots of hypercubes are written
// through Create and read back through Open; the wire format is the one
// cubeio produces, so a snapshot taken against one store can be restored
// from any other.
package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations return an error satisfying errors.Is(err, ErrNotFound).
var ErrNotFound = os.ErrNotExist

// Store is a named collection of immutable blobs.
type Store interface {
	// Open opens an existing blob for reading.
	Open(ctx context.Context, name string) (Blob, error)

	// Create starts a streaming write of a new blob. The blob becomes
	// visible atomically when the returned handle is closed.
	Create(ctx context.Context, name string) (WritableBlob, error)

	// Put writes a small blob in one call.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all blobs with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a stored blob.
type Blob interface {
	// ReadAt reads len(p) bytes starting at off, returning io.EOF on a
	// short read at the end of the blob.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)

	// ReadRange streams length bytes starting at off, clipped to the blob
	// end.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)

	// Size returns the blob size in bytes.
	Size() int64

	// Close releases the handle.
	Close() error
}

// WritableBlob is a streaming write handle returned by Store.Create.
type WritableBlob interface {
	io.Writer

	// Sync forces buffered bytes to durable storage where the backend
	// distinguishes that from Close.
	Sync() error

	// Close finishes the write and publishes the blob.
	Close() error
}
