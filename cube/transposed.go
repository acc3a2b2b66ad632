package cube

import (
	"fmt"
)

// transposedCube reverses the axis order of a wrapped cube. Element access
// reverses the multi-index; there is no contiguity to exploit in bulk
// transfers except in the trivial one-dimensional case.
type transposedCube[T Element] struct {
	base[T]

	wrapped Hypercube[T]
}

var _ Hypercube[int8] = (*transposedCube[int8])(nil)

func newTransposed[T Element](wrapped Hypercube[T]) Hypercube[T] {
	wdims := wrapped.Dimensions()

	dims := make([]Dimension, len(wdims))
	for i, d := range wdims {
		dims[len(wdims)-1-i] = d
	}

	t := &transposedCube[T]{wrapped: wrapped}

	// The wrapped cube has at least one dimension, so init cannot fail.
	_ = t.init(t, viewFlags(wrapped), dims)

	// Transposing back must return the wrapped cube itself, so seed the
	// cache instead of letting Transpose build a stacked view.
	t.transposeOnce.Do(func() {
		t.transposed = wrapped
	})

	return t
}

// wrappedIndices reverses a local multi-index into wrapped coordinates.
func (t *transposedCube[T]) wrappedIndices(local, windices []int64) {
	for i, v := range local {
		windices[len(local)-1-i] = v
	}
}

func (t *transposedCube[T]) GetAt(offset int64) (T, error) {
	if offset < 0 || offset >= t.size {
		var zero T
		return zero, fmt.Errorf("%w: offset %d outside [0, %d)", ErrIndexOutOfBounds, offset, t.size)
	}

	var lb, wb [5]int64
	local := scratchIndices(len(t.lengths), &lb)
	windices := scratchIndices(len(t.lengths), &wb)

	fromOffset(t.lengths, offset, local)
	t.wrappedIndices(local, windices)

	return t.wrapped.Get(windices...)
}

func (t *transposedCube[T]) SetAt(offset int64, value T) error {
	if offset < 0 || offset >= t.size {
		return fmt.Errorf("%w: offset %d outside [0, %d)", ErrIndexOutOfBounds, offset, t.size)
	}

	var lb, wb [5]int64
	local := scratchIndices(len(t.lengths), &lb)
	windices := scratchIndices(len(t.lengths), &wb)

	fromOffset(t.lengths, offset, local)
	t.wrappedIndices(local, windices)

	return t.wrapped.Set(value, windices...)
}

// Flatten of a one-dimensional transpose is the identity mapping, so it
// delegates whole runs. Higher ranks fall back to elementwise access.
func (t *transposedCube[T]) Flatten(srcPos int64, dst []T, dstPos, length int) error {
	if len(t.lengths) == 1 {
		return t.wrapped.Flatten(srcPos, dst, dstPos, length)
	}

	return t.base.Flatten(srcPos, dst, dstPos, length)
}

func (t *transposedCube[T]) Unflatten(src []T, srcPos int, dstPos int64, length int) error {
	if len(t.lengths) == 1 {
		return t.wrapped.Unflatten(src, srcPos, dstPos, length)
	}

	return t.base.Unflatten(src, srcPos, dstPos, length)
}
