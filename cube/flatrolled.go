package cube

import (
	"fmt"
)

// flatRolledCube circularly shifts the flattened element sequence of a
// wrapped cube, ignoring axis boundaries. The shape is unchanged; linear
// position p reads wrapped position (p - shift) mod size.
type flatRolledCube[T Element] struct {
	base[T]

	wrapped Hypercube[T]
	// shift is normalized into (0, size).
	shift int64
}

var _ Hypercube[int16] = (*flatRolledCube[int16])(nil)

func newFlatRolled[T Element](wrapped Hypercube[T], shift int64) Hypercube[T] {
	// Flat-rolling a flat-rolled cube folds into a single view over the
	// innermost wrapped cube.
	if inner, ok := wrapped.(*flatRolledCube[T]); ok {
		shift += inner.shift
		wrapped = inner.wrapped
	}

	size := wrapped.Size()
	if size > 0 {
		shift %= size
		if shift < 0 {
			shift += size
		}
	} else {
		shift = 0
	}

	if shift == 0 {
		return wrapped
	}

	f := &flatRolledCube[T]{
		wrapped: wrapped,
		shift:   shift,
	}

	// A wrapped cube always has at least one dimension, so init cannot fail.
	_ = f.init(f, viewFlags(wrapped), wrapped.Dimensions())

	return f
}

func (f *flatRolledCube[T]) wrappedOffset(offset int64) int64 {
	return (offset - f.shift + f.size) % f.size
}

func (f *flatRolledCube[T]) GetAt(offset int64) (T, error) {
	if offset < 0 || offset >= f.size {
		var zero T
		return zero, fmt.Errorf("%w: offset %d outside [0, %d)", ErrIndexOutOfBounds, offset, f.size)
	}

	return f.wrapped.GetAt(f.wrappedOffset(offset))
}

func (f *flatRolledCube[T]) SetAt(offset int64, value T) error {
	if offset < 0 || offset >= f.size {
		return fmt.Errorf("%w: offset %d outside [0, %d)", ErrIndexOutOfBounds, offset, f.size)
	}

	return f.wrapped.SetAt(f.wrappedOffset(offset), value)
}

// Flatten needs at most two wrapped copies: the run splits where the
// wrapped position wraps around, at view position shift.
func (f *flatRolledCube[T]) Flatten(srcPos int64, dst []T, dstPos, length int) error {
	if err := f.checkFlatten(srcPos, len(dst), dstPos, length); err != nil {
		return err
	}

	for length > 0 {
		wpos := f.wrappedOffset(srcPos)

		run := int64(length)
		if left := f.size - wpos; left < run {
			run = left
		}

		if err := f.wrapped.Flatten(wpos, dst, dstPos, int(run)); err != nil {
			return err
		}

		srcPos += run
		dstPos += int(run)
		length -= int(run)
	}

	return nil
}

func (f *flatRolledCube[T]) Unflatten(src []T, srcPos int, dstPos int64, length int) error {
	if err := f.checkUnflatten(len(src), srcPos, dstPos, length); err != nil {
		return err
	}

	for length > 0 {
		wpos := f.wrappedOffset(dstPos)

		run := int64(length)
		if left := f.size - wpos; left < run {
			run = left
		}

		if err := f.wrapped.Unflatten(src, srcPos, wpos, int(run)); err != nil {
			return err
		}

		dstPos += run
		srcPos += int(run)
		length -= int(run)
	}

	return nil
}
