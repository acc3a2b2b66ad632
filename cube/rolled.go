package cube

import (
	"fmt"
)

// axisRolledCube circularly shifts a wrapped cube along one or more axes.
// The shape is unchanged; element (i) of a rolled axis reads element
// (i - shift) mod length of the wrapped axis.
type axisRolledCube[T Element] struct {
	base[T]

	wrapped Hypercube[T]
	// shifts holds the normalized shift per axis, each in [0, length).
	shifts []int64
}

var _ Hypercube[int32] = (*axisRolledCube[int32])(nil)

func newAxisRolled[T Element](wrapped Hypercube[T], rolls []Roll) (Hypercube[T], error) {
	if wrapped == nil {
		return nil, ErrNilCube
	}

	wdims := wrapped.Dimensions()

	if len(rolls) > len(wdims) {
		return nil, fmt.Errorf("%w: %d rolls for a %d-dimensional hypercube",
			ErrDimensionality, len(rolls), len(wdims))
	}

	shifts := make([]int64, len(wdims))
	bound := make([]bool, len(wdims))

	for _, r := range rolls {
		if r.IsZero() {
			continue
		}

		if r.Shift() < 0 {
			return nil, fmt.Errorf("%w: negative roll shift %d", ErrInvalidArgument, r.Shift())
		}

		axis := -1
		for j, d := range wdims {
			if d.Equal(r.Dimension()) && !bound[j] {
				axis = j
				break
			}
		}

		if axis < 0 {
			return nil, fmt.Errorf("%w: roll %s matches no free dimension %s",
				ErrInvalidArgument, r, r.Dimension())
		}

		bound[axis] = true

		if length := wdims[axis].Length(); length > 0 {
			shifts[axis] = r.Shift() % length
		}
	}

	// Rolling a rolled cube folds into a single view over the innermost
	// wrapped cube, summing the shifts per axis.
	if inner, ok := wrapped.(*axisRolledCube[T]); ok {
		for j := range shifts {
			if length := wdims[j].Length(); length > 0 {
				shifts[j] = (shifts[j] + inner.shifts[j]) % length
			}
		}

		wrapped = inner.wrapped
	}

	net := false
	for _, s := range shifts {
		if s != 0 {
			net = true
			break
		}
	}

	if !net {
		return wrapped, nil
	}

	r := &axisRolledCube[T]{
		wrapped: wrapped,
		shifts:  shifts,
	}
	if err := r.init(r, viewFlags(wrapped), wdims); err != nil {
		return nil, err
	}

	return r, nil
}

// wrappedIndices maps a local multi-index into wrapped coordinates.
func (r *axisRolledCube[T]) wrappedIndices(local, windices []int64) {
	for j := range local {
		windices[j] = (local[j] - r.shifts[j] + r.lengths[j]) % r.lengths[j]
	}
}

func (r *axisRolledCube[T]) GetAt(offset int64) (T, error) {
	if offset < 0 || offset >= r.size {
		var zero T
		return zero, fmt.Errorf("%w: offset %d outside [0, %d)", ErrIndexOutOfBounds, offset, r.size)
	}

	var lb, wb [5]int64
	local := scratchIndices(len(r.lengths), &lb)
	windices := scratchIndices(len(r.lengths), &wb)

	fromOffset(r.lengths, offset, local)
	r.wrappedIndices(local, windices)

	return r.wrapped.Get(windices...)
}

func (r *axisRolledCube[T]) SetAt(offset int64, value T) error {
	if offset < 0 || offset >= r.size {
		return fmt.Errorf("%w: offset %d outside [0, %d)", ErrIndexOutOfBounds, offset, r.size)
	}

	var lb, wb [5]int64
	local := scratchIndices(len(r.lengths), &lb)
	windices := scratchIndices(len(r.lengths), &wb)

	fromOffset(r.lengths, offset, local)
	r.wrappedIndices(local, windices)

	return r.wrapped.Set(value, windices...)
}

// chunk returns the length of the largest run starting at local that is
// contiguous in both the view and the wrapped cube: a run along the last
// axis stops at the row end and at the point where the rolled coordinate
// wraps around.
func (r *axisRolledCube[T]) chunk(local []int64, remaining int) int64 {
	last := len(local) - 1
	length := r.lengths[last]

	l := local[last]
	w := (l - r.shifts[last] + length) % length

	run := int64(remaining)
	if left := length - l; left < run {
		run = left
	}
	if left := length - w; left < run {
		run = left
	}

	return run
}

func (r *axisRolledCube[T]) Flatten(srcPos int64, dst []T, dstPos, length int) error {
	if err := r.checkFlatten(srcPos, len(dst), dstPos, length); err != nil {
		return err
	}

	var lb, wb [5]int64
	local := scratchIndices(len(r.lengths), &lb)
	windices := scratchIndices(len(r.lengths), &wb)

	for length > 0 {
		fromOffset(r.lengths, srcPos, local)
		r.wrappedIndices(local, windices)

		run := r.chunk(local, length)

		woff, err := r.wrapped.ToOffset(windices...)
		if err != nil {
			return err
		}

		if err := r.wrapped.Flatten(woff, dst, dstPos, int(run)); err != nil {
			return err
		}

		srcPos += run
		dstPos += int(run)
		length -= int(run)
	}

	return nil
}

func (r *axisRolledCube[T]) Unflatten(src []T, srcPos int, dstPos int64, length int) error {
	if err := r.checkUnflatten(len(src), srcPos, dstPos, length); err != nil {
		return err
	}

	var lb, wb [5]int64
	local := scratchIndices(len(r.lengths), &lb)
	windices := scratchIndices(len(r.lengths), &wb)

	for length > 0 {
		fromOffset(r.lengths, dstPos, local)
		r.wrappedIndices(local, windices)

		run := r.chunk(local, length)

		woff, err := r.wrapped.ToOffset(windices...)
		if err != nil {
			return err
		}

		if err := r.wrapped.Unflatten(src, srcPos, woff, int(run)); err != nil {
			return err
		}

		dstPos += run
		srcPos += int(run)
		length -= int(run)
	}

	return nil
}
