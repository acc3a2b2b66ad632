package cubemath

import (
	"github.com/hupe1980/cubego/cube"
	"github.com/hupe1980/cubego/internal/kernels"
)

// compareOp streams two operands and produces a bool cube. A Where mask
// forces skipped elements to false.
func compareOp[T cube.Numeric](
	a, b cube.Hypercube[T],
	opts []Option,
	scalar func(x, y T) bool,
	batched func(dst []bool, x, y []T),
) (cube.Hypercube[bool], error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	if err := checkBinary(a, b); err != nil {
		return nil, err
	}

	if err := o.checkWhere(a.Shape()); err != nil {
		return nil, err
	}

	out, err := cube.NewDense[bool](a.Dimensions())
	if err != nil {
		return nil, err
	}

	var (
		size = a.Size()
		abuf = make([]T, min64(size, chunk))
		bbuf = make([]T, len(abuf))
		obuf = make([]bool, len(abuf))
		mbuf []bool
	)

	if o.where != nil {
		mbuf = make([]bool, len(abuf))
	}

	for pos := int64(0); pos < size; pos += int64(len(abuf)) {
		run := int(min64(size-pos, int64(len(abuf))))

		if err := a.Flatten(pos, abuf, 0, run); err != nil {
			return nil, err
		}

		if err := b.Flatten(pos, bbuf, 0, run); err != nil {
			return nil, err
		}

		switch {
		case o.where != nil:
			if err := o.where.Flatten(pos, mbuf, 0, run); err != nil {
				return nil, err
			}

			for i := 0; i < run; i++ {
				obuf[i] = mbuf[i] && scalar(abuf[i], bbuf[i])
			}

		case o.batched:
			batched(obuf[:run], abuf[:run], bbuf[:run])

		default:
			for i := 0; i < run; i++ {
				obuf[i] = scalar(abuf[i], bbuf[i])
			}
		}

		if err := out.Unflatten(obuf, 0, pos, run); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Equal returns a == b elementwise. NaN compares unequal to everything,
// itself included.
func Equal[T cube.Numeric](a, b cube.Hypercube[T], opts ...Option) (cube.Hypercube[bool], error) {
	return compareOp(a, b, opts,
		func(x, y T) bool { return x == y },
		kernels.Eq[T])
}

// NotEqual returns a != b elementwise.
func NotEqual[T cube.Numeric](a, b cube.Hypercube[T], opts ...Option) (cube.Hypercube[bool], error) {
	return compareOp(a, b, opts,
		func(x, y T) bool { return x != y },
		kernels.Ne[T])
}

// Less returns a < b elementwise.
func Less[T cube.Numeric](a, b cube.Hypercube[T], opts ...Option) (cube.Hypercube[bool], error) {
	return compareOp(a, b, opts,
		func(x, y T) bool { return x < y },
		kernels.Lt[T])
}

// LessEqual returns a <= b elementwise.
func LessEqual[T cube.Numeric](a, b cube.Hypercube[T], opts ...Option) (cube.Hypercube[bool], error) {
	return compareOp(a, b, opts,
		func(x, y T) bool { return x <= y },
		kernels.Le[T])
}

// Greater returns a > b elementwise.
func Greater[T cube.Numeric](a, b cube.Hypercube[T], opts ...Option) (cube.Hypercube[bool], error) {
	return compareOp(a, b, opts,
		func(x, y T) bool { return x > y },
		kernels.Gt[T])
}

// GreaterEqual returns a >= b elementwise.
func GreaterEqual[T cube.Numeric](a, b cube.Hypercube[T], opts ...Option) (cube.Hypercube[bool], error) {
	return compareOp(a, b, opts,
		func(x, y T) bool { return x >= y },
		kernels.Ge[T])
}

// ArrayEqual reports whether a and b have the same shape and identical
// elements. A NaN never equals anything, so cubes containing NaN compare
// unequal even to themselves.
func ArrayEqual[T cube.Numeric](a, b cube.Hypercube[T]) (bool, error) {
	if a == nil || b == nil {
		return false, cube.ErrNilCube
	}

	ashape, bshape := a.Shape(), b.Shape()
	if len(ashape) != len(bshape) {
		return false, nil
	}

	for i := range ashape {
		if ashape[i] != bshape[i] {
			return false, nil
		}
	}

	var (
		size = a.Size()
		abuf = make([]T, min64(size, chunk))
		bbuf = make([]T, len(abuf))
	)

	for pos := int64(0); pos < size; pos += int64(len(abuf)) {
		run := int(min64(size-pos, int64(len(abuf))))

		if err := a.Flatten(pos, abuf, 0, run); err != nil {
			return false, err
		}

		if err := b.Flatten(pos, bbuf, 0, run); err != nil {
			return false, err
		}

		for i := 0; i < run; i++ {
			if abuf[i] != bbuf[i] {
				return false, nil
			}
		}
	}

	return true, nil
}
