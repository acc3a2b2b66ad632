// Package cubeio serializes hypercubes to a flat binary format.
//
// The format is a small header (magic, version, dtype, dimensions) followed
// by the cube's elements in row-major order and native byte order, the same
// layout the mapped backend uses on disk. Any backend or view can be
// written; reading always materializes a dense cube.
package cubeio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"unsafe"

	"github.com/hupe1980/cubego/cube"
)

const (
	magic   uint32 = 0x43554245 // "CUBE"
	version uint8  = 1

	// maxRank bounds the header's dimension count against corrupt input.
	maxRank = 255

	chunk = 4096
)

var (
	// ErrBadMagic is returned when the input does not start with the cube
	// magic number.
	ErrBadMagic = errors.New("cubeio: bad magic")

	// ErrVersion is returned for an unsupported format version.
	ErrVersion = errors.New("cubeio: unsupported version")

	// ErrDTypeMismatch is returned when the stored element type does not
	// match the requested one.
	ErrDTypeMismatch = errors.New("cubeio: dtype mismatch")

	// ErrCorrupt is returned for a structurally invalid header.
	ErrCorrupt = errors.New("cubeio: corrupt header")
)

// Write serializes c to w.
func Write[T cube.Element](w io.Writer, c cube.Hypercube[T]) error {
	if c == nil {
		return cube.ErrNilCube
	}

	dims := c.Dimensions()

	if err := binary.Write(w, binary.LittleEndian, magic); err != nil {
		return fmt.Errorf("cubeio: write header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, version); err != nil {
		return fmt.Errorf("cubeio: write header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint8(cube.DTypeOf[T]())); err != nil {
		return fmt.Errorf("cubeio: write header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint8(len(dims))); err != nil {
		return fmt.Errorf("cubeio: write header: %w", err)
	}

	for _, d := range dims {
		name := []byte(d.Name())

		if err := binary.Write(w, binary.LittleEndian, uint16(len(name))); err != nil {
			return fmt.Errorf("cubeio: write dimension: %w", err)
		}

		if _, err := w.Write(name); err != nil {
			return fmt.Errorf("cubeio: write dimension: %w", err)
		}

		if err := binary.Write(w, binary.LittleEndian, d.Length()); err != nil {
			return fmt.Errorf("cubeio: write dimension: %w", err)
		}
	}

	var (
		size = c.Size()
		buf  = make([]T, minInt64(size, chunk))
	)

	for pos := int64(0); pos < size; pos += int64(len(buf)) {
		run := int(minInt64(size-pos, int64(len(buf))))

		if err := c.Flatten(pos, buf, 0, run); err != nil {
			return err
		}

		if _, err := w.Write(elemBytes(buf[:run])); err != nil {
			return fmt.Errorf("cubeio: write elements: %w", err)
		}
	}

	return nil
}

// Read deserializes a cube written by Write into a fresh dense cube. The
// element type must match the stored dtype exactly; use cube.Cast on the
// result to retype.
func Read[T cube.Element](r io.Reader) (*cube.Dense[T], error) {
	var (
		m    uint32
		v    uint8
		dt   uint8
		rank uint8
	)

	if err := binary.Read(r, binary.LittleEndian, &m); err != nil {
		return nil, fmt.Errorf("cubeio: read header: %w", err)
	}

	if m != magic {
		return nil, ErrBadMagic
	}

	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return nil, fmt.Errorf("cubeio: read header: %w", err)
	}

	if v != version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, v)
	}

	if err := binary.Read(r, binary.LittleEndian, &dt); err != nil {
		return nil, fmt.Errorf("cubeio: read header: %w", err)
	}

	if cube.DType(dt) != cube.DTypeOf[T]() {
		return nil, fmt.Errorf("%w: stored %s, want %s",
			ErrDTypeMismatch, cube.DType(dt), cube.DTypeOf[T]())
	}

	if err := binary.Read(r, binary.LittleEndian, &rank); err != nil {
		return nil, fmt.Errorf("cubeio: read header: %w", err)
	}

	if rank == 0 || int(rank) > maxRank {
		return nil, fmt.Errorf("%w: rank %d", ErrCorrupt, rank)
	}

	dims := make([]cube.Dimension, rank)
	for i := range dims {
		var nameLen uint16
		if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
			return nil, fmt.Errorf("cubeio: read dimension: %w", err)
		}

		name := make([]byte, nameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, fmt.Errorf("cubeio: read dimension: %w", err)
		}

		var length int64
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return nil, fmt.Errorf("cubeio: read dimension: %w", err)
		}

		if length < 0 {
			return nil, fmt.Errorf("%w: negative axis length %d", ErrCorrupt, length)
		}

		dims[i] = cube.NewDimension(string(name), length)
	}

	out, err := cube.NewDense[T](dims)
	if err != nil {
		return nil, err
	}

	var (
		size = out.Size()
		buf  = make([]T, minInt64(size, chunk))
	)

	for pos := int64(0); pos < size; pos += int64(len(buf)) {
		run := int(minInt64(size-pos, int64(len(buf))))

		if _, err := io.ReadFull(r, elemBytes(buf[:run])); err != nil {
			return nil, fmt.Errorf("cubeio: read elements: %w", err)
		}

		if err := out.Unflatten(buf, 0, pos, run); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Save writes c to a file.
func Save[T cube.Element](path string, c cube.Hypercube[T]) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cubeio: create %s: %w", path, err)
	}

	w := bufio.NewWriter(f)

	if err := Write(w, c); err != nil {
		_ = f.Close()
		return err
	}

	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("cubeio: flush %s: %w", path, err)
	}

	return f.Close()
}

// Load reads a cube from a file written by Save.
func Load[T cube.Element](path string) (*cube.Dense[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cubeio: open %s: %w", path, err)
	}
	defer f.Close()

	return Read[T](bufio.NewReader(f))
}

// elemBytes reinterprets an element slice as raw bytes without copying.
func elemBytes[T cube.Element](s []T) []byte {
	if len(s) == 0 {
		return nil
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*cube.ElemSize[T]())
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}

	return b
}

// WriteRange streams length raw elements of c starting at srcPos, with no
// header. The counterpart of ReadRange for partial transfers, e.g. one
// mapped segment at a time.
func WriteRange[T cube.Element](w io.Writer, c cube.Hypercube[T], srcPos, length int64) error {
	if c == nil {
		return cube.ErrNilCube
	}

	if srcPos < 0 || length < 0 || srcPos+length > c.Size() {
		return fmt.Errorf("%w: range [%d, %d) outside [0, %d)",
			cube.ErrIndexOutOfBounds, srcPos, srcPos+length, c.Size())
	}

	buf := make([]T, minInt64(length, chunk))

	for pos := int64(0); pos < length; pos += int64(len(buf)) {
		run := int(minInt64(length-pos, int64(len(buf))))

		if err := c.Flatten(srcPos+pos, buf, 0, run); err != nil {
			return err
		}

		if _, err := w.Write(elemBytes(buf[:run])); err != nil {
			return fmt.Errorf("cubeio: write elements: %w", err)
		}
	}

	return nil
}

// ReadRange reads length raw elements from r into c starting at dstPos.
func ReadRange[T cube.Element](r io.Reader, c cube.Hypercube[T], dstPos, length int64) error {
	if c == nil {
		return cube.ErrNilCube
	}

	if dstPos < 0 || length < 0 || dstPos+length > c.Size() {
		return fmt.Errorf("%w: range [%d, %d) outside [0, %d)",
			cube.ErrIndexOutOfBounds, dstPos, dstPos+length, c.Size())
	}

	buf := make([]T, minInt64(length, chunk))

	for pos := int64(0); pos < length; pos += int64(len(buf)) {
		run := int(minInt64(length-pos, int64(len(buf))))

		if _, err := io.ReadFull(r, elemBytes(buf[:run])); err != nil {
			return fmt.Errorf("cubeio: read elements: %w", err)
		}

		if err := c.Unflatten(buf, 0, dstPos+pos, run); err != nil {
			return err
		}
	}

	return nil
}
