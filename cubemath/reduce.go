package cubemath

import (
	"fmt"

	"github.com/hupe1980/cubego/cube"
	"github.com/hupe1980/cubego/internal/kernels"
)

// reduceNumeric streams the cube chunkwise, folding each chunk with either
// the scalar step or the batched kernel and combining chunk results with
// the scalar step.
func reduceNumeric[T cube.Numeric](
	c cube.Hypercube[T],
	opts []Option,
	init T,
	step func(acc, x T) T,
	batched func(xs []T) T,
) (T, error) {
	var zero T

	o, err := applyOptions(opts)
	if err != nil {
		return zero, err
	}

	if err := checkUnary(c); err != nil {
		return zero, err
	}

	if err := o.checkWhere(c.Shape()); err != nil {
		return zero, err
	}

	var (
		size = c.Size()
		buf  = make([]T, min64(size, chunk))
		mbuf []bool
		acc  = init
	)

	if o.where != nil {
		mbuf = make([]bool, len(buf))
	}

	for pos := int64(0); pos < size; pos += int64(len(buf)) {
		run := int(min64(size-pos, int64(len(buf))))

		if err := c.Flatten(pos, buf, 0, run); err != nil {
			return zero, err
		}

		switch {
		case o.where != nil:
			if err := o.where.Flatten(pos, mbuf, 0, run); err != nil {
				return zero, err
			}

			for i := 0; i < run; i++ {
				if mbuf[i] {
					acc = step(acc, buf[i])
				}
			}

		case o.batched:
			acc = step(acc, batched(buf[:run]))

		default:
			for i := 0; i < run; i++ {
				acc = step(acc, buf[i])
			}
		}
	}

	return acc, nil
}

// Sum returns the sum of every element. NaN propagates.
func Sum[T cube.Numeric](c cube.Hypercube[T], opts ...Option) (T, error) {
	return reduceNumeric(c, opts, 0,
		func(acc, x T) T { return acc + x },
		kernels.Sum[T])
}

// NaNSum returns the sum of the non-NaN elements.
func NaNSum[T cube.Numeric](c cube.Hypercube[T], opts ...Option) (T, error) {
	return reduceNumeric(c, opts, 0,
		func(acc, x T) T {
			if x != x {
				return acc
			}
			return acc + x
		},
		kernels.NaNSum[T])
}

// Min returns the smallest element. NaN propagates. An empty cube (or an
// all-false Where mask) has no minimum.
func Min[T cube.Numeric](c cube.Hypercube[T], opts ...Option) (T, error) {
	return extremum(c, opts, minScalar[T], kernels.Min[T])
}

// Max returns the largest element. NaN propagates. An empty cube (or an
// all-false Where mask) has no maximum.
func Max[T cube.Numeric](c cube.Hypercube[T], opts ...Option) (T, error) {
	return extremum(c, opts, maxScalar[T], kernels.Max[T])
}

func extremum[T cube.Numeric](
	c cube.Hypercube[T],
	opts []Option,
	pick func(x, y T) T,
	batched func(xs []T) T,
) (T, error) {
	var zero T

	o, err := applyOptions(opts)
	if err != nil {
		return zero, err
	}

	if err := checkUnary(c); err != nil {
		return zero, err
	}

	if err := o.checkWhere(c.Shape()); err != nil {
		return zero, err
	}

	var (
		size = c.Size()
		buf  = make([]T, min64(size, chunk))
		mbuf []bool
		acc  T
		seen bool
	)

	if o.where != nil {
		mbuf = make([]bool, len(buf))
	}

	for pos := int64(0); pos < size; pos += int64(len(buf)) {
		run := int(min64(size-pos, int64(len(buf))))

		if err := c.Flatten(pos, buf, 0, run); err != nil {
			return zero, err
		}

		switch {
		case o.where != nil:
			if err := o.where.Flatten(pos, mbuf, 0, run); err != nil {
				return zero, err
			}

			for i := 0; i < run; i++ {
				if !mbuf[i] {
					continue
				}

				if !seen {
					acc, seen = buf[i], true
				} else {
					acc = pick(acc, buf[i])
				}
			}

		case o.batched:
			v := batched(buf[:run])
			if !seen {
				acc, seen = v, true
			} else {
				acc = pick(acc, v)
			}

		default:
			for i := 0; i < run; i++ {
				if !seen {
					acc, seen = buf[i], true
				} else {
					acc = pick(acc, buf[i])
				}
			}
		}
	}

	if !seen {
		return zero, fmt.Errorf("%w: no elements to reduce", cube.ErrInvalidArgument)
	}

	return acc, nil
}

// Any reports whether any element of a bool cube is true.
func Any(c cube.Hypercube[bool], opts ...Option) (bool, error) {
	return reduceBool(c, opts, false, func(acc bool, xs, mask []bool) bool {
		if acc {
			return true
		}

		for i, x := range xs {
			if x && (mask == nil || mask[i]) {
				return true
			}
		}

		return false
	})
}

// All reports whether every element of a bool cube is true. Masked-out
// elements do not count against it.
func All(c cube.Hypercube[bool], opts ...Option) (bool, error) {
	return reduceBool(c, opts, true, func(acc bool, xs, mask []bool) bool {
		if !acc {
			return false
		}

		for i, x := range xs {
			if !x && (mask == nil || mask[i]) {
				return false
			}
		}

		return true
	})
}

// PopCount returns the number of true elements of a bool cube.
func PopCount(c cube.Hypercube[bool], opts ...Option) (int64, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return 0, err
	}

	if err := checkUnary(c); err != nil {
		return 0, err
	}

	if err := o.checkWhere(c.Shape()); err != nil {
		return 0, err
	}

	var (
		size = c.Size()
		buf  = make([]bool, min64(size, chunk))
		mbuf []bool
		n    int64
	)

	if o.where != nil {
		mbuf = make([]bool, len(buf))
	}

	for pos := int64(0); pos < size; pos += int64(len(buf)) {
		run := int(min64(size-pos, int64(len(buf))))

		if err := c.Flatten(pos, buf, 0, run); err != nil {
			return 0, err
		}

		if o.where != nil {
			if err := o.where.Flatten(pos, mbuf, 0, run); err != nil {
				return 0, err
			}

			for i := 0; i < run; i++ {
				if buf[i] && mbuf[i] {
					n++
				}
			}

			continue
		}

		n += kernels.PopCount(buf[:run])
	}

	return n, nil
}

func reduceBool(
	c cube.Hypercube[bool],
	opts []Option,
	init bool,
	fold func(acc bool, xs, mask []bool) bool,
) (bool, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return false, err
	}

	if err := checkUnary(c); err != nil {
		return false, err
	}

	if err := o.checkWhere(c.Shape()); err != nil {
		return false, err
	}

	var (
		size = c.Size()
		buf  = make([]bool, min64(size, chunk))
		mbuf []bool
		acc  = init
	)

	if o.where != nil {
		mbuf = make([]bool, len(buf))
	}

	for pos := int64(0); pos < size; pos += int64(len(buf)) {
		run := int(min64(size-pos, int64(len(buf))))

		if err := c.Flatten(pos, buf, 0, run); err != nil {
			return false, err
		}

		var mask []bool
		if o.where != nil {
			if err := o.where.Flatten(pos, mbuf, 0, run); err != nil {
				return false, err
			}

			mask = mbuf[:run]
		}

		acc = fold(acc, buf[:run], mask)
		if acc != init {
			// Any and All both short-circuit once the answer flips.
			return acc, nil
		}
	}

	return acc, nil
}
