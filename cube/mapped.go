package cube

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/cubego/internal/mmap"
)

// Storage segmentation of the mapped backend. Elements live in mappings of
// at most 1<<segmentShift elements so that a single mapping never exceeds
// what a 32-bit length can index, whatever the element width.
const (
	segmentShift = 30
	segmentLen   = int64(1) << segmentShift
	segmentMask  = segmentLen - 1
)

type mappedConfig struct {
	fileOffset int64
	advice     mmap.AccessPattern
	logger     *slog.Logger
}

// MappedOption configures a mapped hypercube.
type MappedOption func(*mappedConfig)

// WithFileOffset maps the cube's elements starting at the given byte offset
// into the file. The offset must be page aligned.
func WithFileOffset(offset int64) MappedOption {
	return func(c *mappedConfig) {
		c.fileOffset = offset
	}
}

// WithAccessPattern advises the kernel about the expected access pattern of
// the mapped region.
func WithAccessPattern(p mmap.AccessPattern) MappedOption {
	return func(c *mappedConfig) {
		c.advice = p
	}
}

// WithLogger sets the structured logger for mapping and flush events. The
// default discards them.
func WithLogger(l *slog.Logger) MappedOption {
	return func(c *mappedConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Mapped is the file-backed backend: elements live in one or more shared
// memory mappings over a file, in native byte order. It behaves exactly like
// a dense cube of the same shape but its contents survive the process, after
// a Flush or Close.
type Mapped[T Element] struct {
	base[T]

	f        *os.File
	mappings []*mmap.Mapping
	segs     [][]T
	logger   *slog.Logger
	closed   atomic.Bool
}

var _ Hypercube[int64] = (*Mapped[int64])(nil)

// CreateMapped creates (or truncates) the file at path, sizes it to hold the
// cube, and maps it. Fresh file bytes are zero, so a freshly created integer
// or bool cube reads as zero and a float cube reads as 0.0, not NaN.
func CreateMapped[T Element](path string, dims []Dimension, opts ...MappedOption) (*Mapped[T], error) {
	cfg := applyMappedOptions(opts)

	m := &Mapped[T]{}
	if err := m.init(m, mappedFlags(), dims); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cube: create mapped file: %w", err)
	}

	if err := f.Truncate(cfg.fileOffset + m.size*int64(ElemSize[T]())); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("cube: size mapped file: %w", err)
	}

	if err := m.mapSegments(f, cfg); err != nil {
		_ = f.Close()
		return nil, err
	}

	return m, nil
}

// OpenMapped maps an existing file created by CreateMapped (or any file
// holding at least size raw elements at the configured offset).
func OpenMapped[T Element](path string, dims []Dimension, opts ...MappedOption) (*Mapped[T], error) {
	cfg := applyMappedOptions(opts)

	m := &Mapped[T]{}
	if err := m.init(m, mappedFlags(), dims); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("cube: open mapped file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("cube: stat mapped file: %w", err)
	}

	if need := cfg.fileOffset + m.size*int64(ElemSize[T]()); info.Size() < need {
		_ = f.Close()
		return nil, fmt.Errorf("%w: file %s holds %d bytes, cube needs %d",
			ErrInvalidArgument, path, info.Size(), need)
	}

	if err := m.mapSegments(f, cfg); err != nil {
		_ = f.Close()
		return nil, err
	}

	return m, nil
}

func applyMappedOptions(opts []MappedOption) mappedConfig {
	cfg := mappedConfig{
		advice: mmap.AccessDefault,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func mappedFlags() Flags {
	return Flags{
		Aligned:     true,
		Behaved:     true,
		CContiguous: true,
		OwnData:     true,
		Writeable:   true,
	}
}

func (m *Mapped[T]) mapSegments(f *os.File, cfg mappedConfig) error {
	if cfg.fileOffset < 0 || cfg.fileOffset%int64(os.Getpagesize()) != 0 {
		return fmt.Errorf("%w: file offset %d is not page aligned", ErrInvalidArgument, cfg.fileOffset)
	}

	elemSize := int64(ElemSize[T]())

	m.f = f
	m.logger = cfg.logger

	for pos := int64(0); pos < m.size; pos += segmentLen {
		elems := segmentLen
		if m.size-pos < elems {
			elems = m.size - pos
		}

		mapping, err := mmap.MapFile(f, cfg.fileOffset+pos*elemSize, int(elems*elemSize))
		if err != nil {
			m.unmap()
			return fmt.Errorf("cube: map segment at element %d: %w", pos, err)
		}

		if err := mapping.Advise(cfg.advice); err != nil {
			_ = mapping.Close()
			m.unmap()

			return fmt.Errorf("cube: advise segment at element %d: %w", pos, err)
		}

		buf := mapping.Bytes()

		m.mappings = append(m.mappings, mapping)
		m.segs = append(m.segs, unsafe.Slice((*T)(unsafe.Pointer(&buf[0])), elems))
	}

	m.logger.Debug("mapped cube file",
		"path", f.Name(),
		"segments", len(m.mappings),
		"elements", m.size,
	)

	return nil
}

func (m *Mapped[T]) unmap() {
	for _, mapping := range m.mappings {
		_ = mapping.Close()
	}

	m.mappings = nil
	m.segs = nil
}

// Flush forces all written elements through to the file, syncing the
// segments concurrently.
func (m *Mapped[T]) Flush() error {
	if m.closed.Load() {
		return mmap.ErrClosed
	}

	start := time.Now()

	g := new(errgroup.Group)
	for _, mapping := range m.mappings {
		g.Go(mapping.Sync)
	}

	if err := g.Wait(); err != nil {
		return err
	}

	m.logger.Debug("flushed mapped cube",
		"path", m.f.Name(),
		"segments", len(m.mappings),
		"took", time.Since(start),
	)

	return nil
}

// Close unmaps every segment and closes the file. Unsynced writes are still
// handed to the OS by the unmapping. Close is idempotent.
func (m *Mapped[T]) Close() error {
	if m.closed.Swap(true) {
		return nil
	}

	var firstErr error
	for _, mapping := range m.mappings {
		if err := mapping.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	m.mappings = nil
	m.segs = nil

	if err := m.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}

func (m *Mapped[T]) GetAt(offset int64) (T, error) {
	var zero T

	if m.closed.Load() {
		return zero, mmap.ErrClosed
	}

	if offset < 0 || offset >= m.size {
		return zero, fmt.Errorf("%w: offset %d outside [0, %d)", ErrIndexOutOfBounds, offset, m.size)
	}

	return m.segs[offset>>segmentShift][offset&segmentMask], nil
}

func (m *Mapped[T]) SetAt(offset int64, value T) error {
	if m.closed.Load() {
		return mmap.ErrClosed
	}

	if offset < 0 || offset >= m.size {
		return fmt.Errorf("%w: offset %d outside [0, %d)", ErrIndexOutOfBounds, offset, m.size)
	}

	m.segs[offset>>segmentShift][offset&segmentMask] = value

	return nil
}

// Flatten copies per segment. A run crossing a segment boundary is simply
// split at the boundary.
func (m *Mapped[T]) Flatten(srcPos int64, dst []T, dstPos, length int) error {
	if m.closed.Load() {
		return mmap.ErrClosed
	}

	if err := m.checkFlatten(srcPos, len(dst), dstPos, length); err != nil {
		return err
	}

	for length > 0 {
		seg := m.segs[srcPos>>segmentShift]
		idx := srcPos & segmentMask

		run := int64(length)
		if left := int64(len(seg)) - idx; left < run {
			run = left
		}

		copy(dst[dstPos:dstPos+int(run)], seg[idx:idx+run])

		srcPos += run
		dstPos += int(run)
		length -= int(run)
	}

	return nil
}

func (m *Mapped[T]) Unflatten(src []T, srcPos int, dstPos int64, length int) error {
	if m.closed.Load() {
		return mmap.ErrClosed
	}

	if err := m.checkUnflatten(len(src), srcPos, dstPos, length); err != nil {
		return err
	}

	for length > 0 {
		seg := m.segs[dstPos>>segmentShift]
		idx := dstPos & segmentMask

		run := int64(length)
		if left := int64(len(seg)) - idx; left < run {
			run = left
		}

		copy(seg[idx:idx+run], src[srcPos:srcPos+int(run)])

		dstPos += run
		srcPos += int(run)
		length -= int(run)
	}

	return nil
}
