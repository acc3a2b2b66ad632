package cube

import (
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// copyChunk is the scratch-buffer size used by the buffered defaults for
// Fill and CopyFrom.
const copyChunk = 4096

// base carries the state and behavior shared by every backend and view.
// Concrete types embed it and must call init with themselves as self so
// that the defaults dispatch to their overrides.
type base[T Element] struct {
	self    Hypercube[T]
	dims    []Dimension
	lengths []int64
	size    int64
	flags   Flags

	transposeOnce sync.Once
	transposed    Hypercube[T]
}

func (b *base[T]) init(self Hypercube[T], flags Flags, dims []Dimension) error {
	if len(dims) == 0 {
		return fmt.Errorf("%w: a hypercube needs at least one dimension", ErrDimensionality)
	}

	lengths := make([]int64, len(dims))
	size := int64(1)
	for i, d := range dims {
		lengths[i] = d.Length()
		size *= d.Length()
	}

	b.self = self
	b.dims = append([]Dimension(nil), dims...)
	b.lengths = lengths
	b.size = size
	b.flags = flags

	return nil
}

func (b *base[T]) Dimensions() []Dimension {
	return append([]Dimension(nil), b.dims...)
}

func (b *base[T]) Dim(axis int) Dimension {
	return b.dims[axis]
}

func (b *base[T]) NDim() int {
	return len(b.dims)
}

func (b *base[T]) Length(axis int) int64 {
	return b.lengths[axis]
}

func (b *base[T]) Shape() []int64 {
	return append([]int64(nil), b.lengths...)
}

func (b *base[T]) Size() int64 {
	return b.size
}

func (b *base[T]) Flags() Flags {
	return b.flags
}

func (b *base[T]) ToOffset(indices ...int64) (int64, error) {
	return toOffset(b.lengths, indices)
}

func (b *base[T]) FromOffset(offset int64, indices []int64) error {
	if len(indices) != len(b.lengths) {
		return fmt.Errorf("%w: got %d indices for a %d-dimensional hypercube",
			ErrDimensionality, len(indices), len(b.lengths))
	}

	if offset < 0 || offset >= b.size {
		return fmt.Errorf("%w: offset %d outside [0, %d)", ErrIndexOutOfBounds, offset, b.size)
	}

	fromOffset(b.lengths, offset, indices)

	return nil
}

func (b *base[T]) Get(indices ...int64) (T, error) {
	offset, err := toOffset(b.lengths, indices)
	if err != nil {
		var zero T
		return zero, err
	}

	return b.self.GetAt(offset)
}

func (b *base[T]) Set(value T, indices ...int64) error {
	offset, err := toOffset(b.lengths, indices)
	if err != nil {
		return err
	}

	return b.self.SetAt(offset, value)
}

// checkFlatten validates the argument envelope shared by every Flatten
// implementation: a non-negative bounded length, a source run inside the
// cube and a destination run inside dst.
func (b *base[T]) checkFlatten(srcPos int64, dstLen, dstPos, length int) error {
	if length < 0 || length > maxTransfer {
		return fmt.Errorf("%w: transfer length %d", ErrInvalidArgument, length)
	}

	if srcPos < 0 || srcPos+int64(length) > b.size {
		return fmt.Errorf("%w: source run [%d, %d) outside [0, %d)",
			ErrIndexOutOfBounds, srcPos, srcPos+int64(length), b.size)
	}

	if dstPos < 0 || dstPos+length > dstLen {
		return fmt.Errorf("%w: destination run [%d, %d) outside [0, %d)",
			ErrIndexOutOfBounds, dstPos, dstPos+length, dstLen)
	}

	return nil
}

// checkUnflatten is the Unflatten counterpart of checkFlatten.
func (b *base[T]) checkUnflatten(srcLen, srcPos int, dstPos int64, length int) error {
	if length < 0 || length > maxTransfer {
		return fmt.Errorf("%w: transfer length %d", ErrInvalidArgument, length)
	}

	if srcPos < 0 || srcPos+length > srcLen {
		return fmt.Errorf("%w: source run [%d, %d) outside [0, %d)",
			ErrIndexOutOfBounds, srcPos, srcPos+length, srcLen)
	}

	if dstPos < 0 || dstPos+int64(length) > b.size {
		return fmt.Errorf("%w: destination run [%d, %d) outside [0, %d)",
			ErrIndexOutOfBounds, dstPos, dstPos+int64(length), b.size)
	}

	return nil
}

// Flatten is the elementwise fallback. Backends and most views override it
// with chunked copies; views with no exploitable contiguity keep this one.
func (b *base[T]) Flatten(srcPos int64, dst []T, dstPos, length int) error {
	if err := b.checkFlatten(srcPos, len(dst), dstPos, length); err != nil {
		return err
	}

	for i := 0; i < length; i++ {
		v, err := b.self.GetAt(srcPos + int64(i))
		if err != nil {
			return err
		}

		dst[dstPos+i] = v
	}

	return nil
}

// Unflatten is the elementwise fallback counterpart of Flatten.
func (b *base[T]) Unflatten(src []T, srcPos int, dstPos int64, length int) error {
	if err := b.checkUnflatten(len(src), srcPos, dstPos, length); err != nil {
		return err
	}

	for i := 0; i < length; i++ {
		if err := b.self.SetAt(dstPos+int64(i), src[srcPos+i]); err != nil {
			return err
		}
	}

	return nil
}

func (b *base[T]) Slice(accessors ...Accessor) (Hypercube[T], error) {
	return newSliced(b.self, accessors)
}

func (b *base[T]) Roll(rolls ...Roll) (Hypercube[T], error) {
	return newAxisRolled(b.self, rolls)
}

func (b *base[T]) RollFlat(shift int64) Hypercube[T] {
	return newFlatRolled(b.self, shift)
}

func (b *base[T]) Transpose() Hypercube[T] {
	b.transposeOnce.Do(func() {
		b.transposed = newTransposed(b.self)
	})

	return b.transposed
}

func (b *base[T]) Mask(mask *roaring64.Bitmap) (Hypercube[T], error) {
	return newMasked(b.self, mask)
}

func (b *base[T]) Fill(value T) {
	n := b.size
	if n == 0 {
		return
	}

	bufLen := int64(copyChunk)
	if n < bufLen {
		bufLen = n
	}

	buf := make([]T, bufLen)
	for i := range buf {
		buf[i] = value
	}

	for pos := int64(0); pos < n; pos += bufLen {
		run := bufLen
		if n-pos < run {
			run = n - pos
		}

		_ = b.self.Unflatten(buf[:run], 0, pos, int(run))
	}
}

func (b *base[T]) CopyFrom(src Hypercube[T]) error {
	if src == nil {
		return ErrNilCube
	}

	if !sameShape(b.lengths, src.Shape()) {
		return fmt.Errorf("%w: cannot copy shape %v into shape %v",
			ErrDimensionality, src.Shape(), b.lengths)
	}

	n := b.size
	if n == 0 {
		return nil
	}

	bufLen := int64(copyChunk)
	if n < bufLen {
		bufLen = n
	}

	buf := make([]T, bufLen)
	for pos := int64(0); pos < n; pos += bufLen {
		run := bufLen
		if n-pos < run {
			run = n - pos
		}

		if err := src.Flatten(pos, buf, 0, int(run)); err != nil {
			return err
		}

		if err := b.self.Unflatten(buf[:run], 0, pos, int(run)); err != nil {
			return err
		}
	}

	return nil
}

// viewFlags derives the flags of a zero-copy view from the cube it wraps.
// Views never own data and never promise contiguity.
func viewFlags[T Element](wrapped Hypercube[T]) Flags {
	wf := wrapped.Flags()

	return Flags{
		Aligned:   wf.Aligned,
		Writeable: wf.Writeable,
	}
}

func sameShape(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
