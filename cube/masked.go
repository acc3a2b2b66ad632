package cube

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// maskedCube selects a subset of a wrapped cube's first-axis entries, the
// set bits of a bitmap. The view's first axis is compacted to the selected
// entries, in ascending order; trailing axes are untouched. Bits at or
// beyond the wrapped first-axis length are ignored.
type maskedCube[T Element] struct {
	base[T]

	wrapped Hypercube[T]
	// mapping holds the selected wrapped first-axis indices, ascending.
	mapping []int64
	// slab is the element count of one first-axis entry, the product of
	// the trailing axis lengths.
	slab int64
}

var _ Hypercube[bool] = (*maskedCube[bool])(nil)

// MaskBools builds a first-axis mask from a bool slice, one bit per true
// entry.
func MaskBools(selected []bool) *roaring64.Bitmap {
	mask := roaring64.New()
	for i, ok := range selected {
		if ok {
			mask.Add(uint64(i))
		}
	}

	return mask
}

func newMasked[T Element](wrapped Hypercube[T], mask *roaring64.Bitmap) (Hypercube[T], error) {
	if wrapped == nil {
		return nil, ErrNilCube
	}

	if mask == nil {
		return nil, fmt.Errorf("%w: nil mask", ErrInvalidArgument)
	}

	wdims := wrapped.Dimensions()
	axisLen := wdims[0].Length()

	var mapping []int64

	it := mask.Iterator()
	for it.HasNext() {
		v := it.Next()
		if int64(v) >= axisLen {
			break
		}

		mapping = append(mapping, int64(v))
	}

	slab := int64(1)
	for _, d := range wdims[1:] {
		slab *= d.Length()
	}

	dims := append([]Dimension(nil), wdims...)
	dims[0] = NewDimension(wdims[0].Name(), int64(len(mapping)))

	m := &maskedCube[T]{
		wrapped: wrapped,
		mapping: mapping,
		slab:    slab,
	}
	if err := m.init(m, viewFlags(wrapped), dims); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *maskedCube[T]) wrappedOffset(offset int64) int64 {
	return m.mapping[offset/m.slab]*m.slab + offset%m.slab
}

func (m *maskedCube[T]) GetAt(offset int64) (T, error) {
	if offset < 0 || offset >= m.size {
		var zero T
		return zero, fmt.Errorf("%w: offset %d outside [0, %d)", ErrIndexOutOfBounds, offset, m.size)
	}

	return m.wrapped.GetAt(m.wrappedOffset(offset))
}

func (m *maskedCube[T]) SetAt(offset int64, value T) error {
	if offset < 0 || offset >= m.size {
		return fmt.Errorf("%w: offset %d outside [0, %d)", ErrIndexOutOfBounds, offset, m.size)
	}

	return m.wrapped.SetAt(m.wrappedOffset(offset), value)
}

// Flatten copies one selected first-axis entry at a time; each entry is a
// contiguous slab in the wrapped cube.
func (m *maskedCube[T]) Flatten(srcPos int64, dst []T, dstPos, length int) error {
	if err := m.checkFlatten(srcPos, len(dst), dstPos, length); err != nil {
		return err
	}

	for length > 0 {
		within := srcPos % m.slab

		run := m.slab - within
		if int64(length) < run {
			run = int64(length)
		}

		woff := m.mapping[srcPos/m.slab]*m.slab + within
		if err := m.wrapped.Flatten(woff, dst, dstPos, int(run)); err != nil {
			return err
		}

		srcPos += run
		dstPos += int(run)
		length -= int(run)
	}

	return nil
}

func (m *maskedCube[T]) Unflatten(src []T, srcPos int, dstPos int64, length int) error {
	if err := m.checkUnflatten(len(src), srcPos, dstPos, length); err != nil {
		return err
	}

	for length > 0 {
		within := dstPos % m.slab

		run := m.slab - within
		if int64(length) < run {
			run = int64(length)
		}

		woff := m.mapping[dstPos/m.slab]*m.slab + within
		if err := m.wrapped.Unflatten(src, srcPos, woff, int(run)); err != nil {
			return err
		}

		dstPos += run
		srcPos += int(run)
		length -= int(run)
	}

	return nil
}
