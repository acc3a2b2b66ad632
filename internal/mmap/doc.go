// Package mmap provides read-write memory-mapped file access.
//
// # Overview
//
// Memory mapping allows direct access to file contents without copying data
// through kernel buffers. The cube engine maps hypercube element storage
// straight out of a backing file, so a mapped cube larger than RAM is still
// directly addressable and its on-disk layout stays byte-compatible with
// external array libraries mapping the same file.
//
// # Usage
//
//	m, err := mmap.MapFile(f, offset, size)
//	if err != nil { ... }
//	defer m.Close()
//
//	// Zero-copy access to file contents
//	data := m.Bytes()
//
//	// Force dirty pages to stable storage
//	if err := m.Sync(); err != nil { ... }
//
//	// Provide kernel hints for access patterns
//	m.Advise(mmap.AccessRandom)
//
// # Platform Support
//
// The package provides a unified API across platforms:
//
//   - Unix (Linux, macOS, BSD): mmap(2)/msync(2) with madvise(2) hints
//   - Windows: CreateFileMapping/MapViewOfFile (madvise is a no-op)
//
// # Thread Safety
//
// A Mapping is safe for concurrent read access. Close() is idempotent and
// protected by atomic operations, but callers must ensure no goroutines
// touch Bytes() after Close() returns.
package mmap
