package cubemath

import (
	"fmt"

	"github.com/hupe1980/cubego/cube"
)

// Full returns a dense cube of the given shape with every element set to
// value.
func Full[T cube.Element](dims []cube.Dimension, value T) (cube.Hypercube[T], error) {
	out, err := cube.NewDense[T](dims)
	if err != nil {
		return nil, err
	}

	out.Fill(value)

	return out, nil
}

// Zeros returns a dense cube of the given shape with every element set to
// the zero value, useful for integer cubes whose null already is zero and
// for float cubes that should start at 0.0 rather than NaN.
func Zeros[T cube.Element](dims []cube.Dimension) (cube.Hypercube[T], error) {
	var zero T
	return Full(dims, zero)
}

// Ones returns a dense cube of the given shape with every element set to
// one.
func Ones[T cube.Numeric](dims []cube.Dimension) (cube.Hypercube[T], error) {
	return Full(dims, T(1))
}

// Arange returns a one-dimensional cube holding start, start+step, ... up
// to but excluding stop.
func Arange[T cube.Numeric](start, stop, step T) (cube.Hypercube[T], error) {
	if step == 0 {
		return nil, fmt.Errorf("%w: zero step", cube.ErrInvalidArgument)
	}

	var n int64
	switch {
	case step > 0 && stop > start:
		n = int64((float64(stop) - float64(start)) / float64(step))
		if start+T(n)*step < stop {
			n++
		}
	case step < 0 && stop < start:
		n = int64((float64(stop) - float64(start)) / float64(step))
		if start+T(n)*step > stop {
			n++
		}
	}

	out, err := cube.NewDense[T](cube.Shape(n))
	if err != nil {
		return nil, err
	}

	data := out.Data()
	for i := range data {
		data[i] = start + T(i)*step
	}

	return out, nil
}

// Extract returns a one-dimensional cube holding, in flattened order, the
// elements of c selected by mask. The cubes must have the same shape.
func Extract[T cube.Element](mask cube.Hypercube[bool], c cube.Hypercube[T]) (cube.Hypercube[T], error) {
	if mask == nil || c == nil {
		return nil, cube.ErrNilCube
	}

	if !equalShape(mask.Shape(), c.Shape()) {
		return nil, fmt.Errorf("%w: mask shape %v does not match operand shape %v",
			cube.ErrDimensionality, mask.Shape(), c.Shape())
	}

	var (
		size     = c.Size()
		buf      = make([]T, min64(size, chunk))
		mbuf     = make([]bool, len(buf))
		selected []T
	)

	for pos := int64(0); pos < size; pos += int64(len(buf)) {
		run := int(min64(size-pos, int64(len(buf))))

		if err := c.Flatten(pos, buf, 0, run); err != nil {
			return nil, err
		}

		if err := mask.Flatten(pos, mbuf, 0, run); err != nil {
			return nil, err
		}

		for i := 0; i < run; i++ {
			if mbuf[i] {
				selected = append(selected, buf[i])
			}
		}
	}

	out, err := cube.NewDense[T](cube.Shape(int64(len(selected))))
	if err != nil {
		return nil, err
	}

	if len(selected) == 0 {
		return out, nil
	}

	if err := cube.FromSlice(out, selected); err != nil {
		return nil, err
	}

	return out, nil
}
