package cube

import (
	"fmt"
)

// slicedCube restricts a wrapped cube per axis. Slice accessors narrow an
// axis to a [start,end) window, coordinate accessors pin an axis and drop
// it from the view's shape.
type slicedCube[T Element] struct {
	base[T]

	wrapped Hypercube[T]
	// starts holds, per wrapped axis, the wrapped coordinate of the view's
	// origin along that axis. For a pinned axis it is the fixed coordinate.
	starts []int64
	// keep maps each view axis to its wrapped axis.
	keep []int
}

var _ Hypercube[float64] = (*slicedCube[float64])(nil)

func newSliced[T Element](wrapped Hypercube[T], accessors []Accessor) (Hypercube[T], error) {
	if wrapped == nil {
		return nil, ErrNilCube
	}

	wdims := wrapped.Dimensions()

	if len(accessors) > len(wdims) {
		return nil, fmt.Errorf("%w: %d accessors for a %d-dimensional hypercube",
			ErrDimensionality, len(accessors), len(wdims))
	}

	perAxis := make([]Accessor, len(wdims))
	bound := make([]bool, len(wdims))

	for _, a := range accessors {
		if a.IsZero() {
			continue
		}

		axis := -1
		for j, d := range wdims {
			if d.Equal(a.Dimension()) && !bound[j] {
				axis = j
				break
			}
		}

		if axis < 0 {
			return nil, fmt.Errorf("%w: accessor %s matches no free dimension %s",
				ErrInvalidArgument, a, a.Dimension())
		}

		perAxis[axis] = a
		bound[axis] = true
	}

	var (
		dims   []Dimension
		starts = make([]int64, len(wdims))
		keep   []int
		narrow bool
	)

	for j, d := range wdims {
		a := perAxis[j]

		switch {
		case a.IsCoordinate():
			if err := boundsCheck(a.Coordinate(), d.Length(), j); err != nil {
				return nil, err
			}

			starts[j] = a.Coordinate()
			narrow = true

		case !a.IsZero():
			start, end := a.Start(), a.End()
			if start < 0 || end < start || end > d.Length() {
				return nil, fmt.Errorf("%w: slice [%d, %d) outside axis %s",
					ErrIndexOutOfBounds, start, end, d)
			}

			starts[j] = start
			dims = append(dims, NewDimension(d.Name(), end-start))
			keep = append(keep, j)

			narrow = narrow || start != 0 || end != d.Length()

		default:
			dims = append(dims, d)
			keep = append(keep, j)
		}
	}

	if !narrow {
		return wrapped, nil
	}

	if len(dims) == 0 {
		return nil, fmt.Errorf("%w: cannot pin every axis of a hypercube", ErrDimensionality)
	}

	// Slicing a slice folds into a single view over the innermost cube. The
	// outer starts are indexed by inner view axes; inner.keep maps them back
	// to innermost axes.
	if inner, ok := wrapped.(*slicedCube[T]); ok {
		composedStarts := append([]int64(nil), inner.starts...)
		for j, off := range starts {
			composedStarts[inner.keep[j]] += off
		}

		composedKeep := make([]int, len(keep))
		for i, j := range keep {
			composedKeep[i] = inner.keep[j]
		}

		wrapped = inner.wrapped
		starts = composedStarts
		keep = composedKeep
	}

	s := &slicedCube[T]{
		wrapped: wrapped,
		starts:  starts,
		keep:    keep,
	}
	if err := s.init(s, viewFlags(wrapped), dims); err != nil {
		return nil, err
	}

	return s, nil
}

// wrappedIndices maps a local multi-index into wrapped coordinates.
func (s *slicedCube[T]) wrappedIndices(local, windices []int64) {
	copy(windices, s.starts)
	for va, wa := range s.keep {
		windices[wa] += local[va]
	}
}

func (s *slicedCube[T]) GetAt(offset int64) (T, error) {
	if offset < 0 || offset >= s.size {
		var zero T
		return zero, fmt.Errorf("%w: offset %d outside [0, %d)", ErrIndexOutOfBounds, offset, s.size)
	}

	var lb, wb [5]int64
	local := scratchIndices(len(s.lengths), &lb)
	windices := scratchIndices(len(s.starts), &wb)

	fromOffset(s.lengths, offset, local)
	s.wrappedIndices(local, windices)

	return s.wrapped.Get(windices...)
}

func (s *slicedCube[T]) SetAt(offset int64, value T) error {
	if offset < 0 || offset >= s.size {
		return fmt.Errorf("%w: offset %d outside [0, %d)", ErrIndexOutOfBounds, offset, s.size)
	}

	var lb, wb [5]int64
	local := scratchIndices(len(s.lengths), &lb)
	windices := scratchIndices(len(s.starts), &wb)

	fromOffset(s.lengths, offset, local)
	s.wrappedIndices(local, windices)

	return s.wrapped.Set(value, windices...)
}

// innermostPreserved reports whether the view's last axis is the wrapped
// cube's last axis, which is what makes last-axis runs contiguous in the
// wrapped cube.
func (s *slicedCube[T]) innermostPreserved() bool {
	return s.keep[len(s.keep)-1] == s.wrapped.NDim()-1
}

// Flatten walks the source run one last-axis row at a time; each row is a
// contiguous run in the wrapped cube.
func (s *slicedCube[T]) Flatten(srcPos int64, dst []T, dstPos, length int) error {
	if err := s.checkFlatten(srcPos, len(dst), dstPos, length); err != nil {
		return err
	}

	if length == 0 {
		return nil
	}

	if !s.innermostPreserved() {
		return s.base.Flatten(srcPos, dst, dstPos, length)
	}

	var lb, wb [5]int64
	local := scratchIndices(len(s.lengths), &lb)
	windices := scratchIndices(len(s.starts), &wb)

	inner := s.lengths[len(s.lengths)-1]

	for length > 0 {
		fromOffset(s.lengths, srcPos, local)
		s.wrappedIndices(local, windices)

		run := inner - local[len(local)-1]
		if int64(length) < run {
			run = int64(length)
		}

		woff, err := s.wrapped.ToOffset(windices...)
		if err != nil {
			return err
		}

		if err := s.wrapped.Flatten(woff, dst, dstPos, int(run)); err != nil {
			return err
		}

		srcPos += run
		dstPos += int(run)
		length -= int(run)
	}

	return nil
}

func (s *slicedCube[T]) Unflatten(src []T, srcPos int, dstPos int64, length int) error {
	if err := s.checkUnflatten(len(src), srcPos, dstPos, length); err != nil {
		return err
	}

	if length == 0 {
		return nil
	}

	if !s.innermostPreserved() {
		return s.base.Unflatten(src, srcPos, dstPos, length)
	}

	var lb, wb [5]int64
	local := scratchIndices(len(s.lengths), &lb)
	windices := scratchIndices(len(s.starts), &wb)

	inner := s.lengths[len(s.lengths)-1]

	for length > 0 {
		fromOffset(s.lengths, dstPos, local)
		s.wrappedIndices(local, windices)

		run := inner - local[len(local)-1]
		if int64(length) < run {
			run = int64(length)
		}

		woff, err := s.wrapped.ToOffset(windices...)
		if err != nil {
			return err
		}

		if err := s.wrapped.Unflatten(src, srcPos, woff, int(run)); err != nil {
			return err
		}

		dstPos += run
		srcPos += int(run)
		length -= int(run)
	}

	return nil
}
