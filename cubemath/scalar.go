package cubemath

import "github.com/hupe1980/cubego/cube"

// broadcast wraps a scalar as a constant cube of the given shape so the
// binary ops can stream it like any other operand.
func broadcast[T cube.Numeric](value T, like cube.Hypercube[T]) (cube.Hypercube[T], error) {
	if like == nil {
		return nil, cube.ErrNilCube
	}

	return cube.Constant(value, like.Dimensions())
}

// AddScalar returns a + v elementwise.
func AddScalar[T cube.Numeric](a cube.Hypercube[T], v T, opts ...Option) (cube.Hypercube[T], error) {
	b, err := broadcast(v, a)
	if err != nil {
		return nil, err
	}

	return Add(a, b, opts...)
}

// SubtractScalar returns a - v elementwise.
func SubtractScalar[T cube.Numeric](a cube.Hypercube[T], v T, opts ...Option) (cube.Hypercube[T], error) {
	b, err := broadcast(v, a)
	if err != nil {
		return nil, err
	}

	return Subtract(a, b, opts...)
}

// MultiplyScalar returns a * v elementwise.
func MultiplyScalar[T cube.Numeric](a cube.Hypercube[T], v T, opts ...Option) (cube.Hypercube[T], error) {
	b, err := broadcast(v, a)
	if err != nil {
		return nil, err
	}

	return Multiply(a, b, opts...)
}

// DivideScalar returns a / v elementwise.
func DivideScalar[T cube.Numeric](a cube.Hypercube[T], v T, opts ...Option) (cube.Hypercube[T], error) {
	b, err := broadcast(v, a)
	if err != nil {
		return nil, err
	}

	return Divide(a, b, opts...)
}

// ModScalar returns a mod v elementwise.
func ModScalar[T cube.Numeric](a cube.Hypercube[T], v T, opts ...Option) (cube.Hypercube[T], error) {
	b, err := broadcast(v, a)
	if err != nil {
		return nil, err
	}

	return Mod(a, b, opts...)
}

// PowerScalar returns a ** v elementwise.
func PowerScalar[T cube.Numeric](a cube.Hypercube[T], v T, opts ...Option) (cube.Hypercube[T], error) {
	b, err := broadcast(v, a)
	if err != nil {
		return nil, err
	}

	return Power(a, b, opts...)
}

// MinimumScalar returns min(a, v) elementwise.
func MinimumScalar[T cube.Numeric](a cube.Hypercube[T], v T, opts ...Option) (cube.Hypercube[T], error) {
	b, err := broadcast(v, a)
	if err != nil {
		return nil, err
	}

	return Minimum(a, b, opts...)
}

// MaximumScalar returns max(a, v) elementwise.
func MaximumScalar[T cube.Numeric](a cube.Hypercube[T], v T, opts ...Option) (cube.Hypercube[T], error) {
	b, err := broadcast(v, a)
	if err != nil {
		return nil, err
	}

	return Maximum(a, b, opts...)
}

// EqualScalar compares every element of a against v.
func EqualScalar[T cube.Numeric](a cube.Hypercube[T], v T, opts ...Option) (cube.Hypercube[bool], error) {
	b, err := broadcast(v, a)
	if err != nil {
		return nil, err
	}

	return Equal(a, b, opts...)
}

// LessScalar compares every element of a against v.
func LessScalar[T cube.Numeric](a cube.Hypercube[T], v T, opts ...Option) (cube.Hypercube[bool], error) {
	b, err := broadcast(v, a)
	if err != nil {
		return nil, err
	}

	return Less(a, b, opts...)
}

// GreaterScalar compares every element of a against v.
func GreaterScalar[T cube.Numeric](a cube.Hypercube[T], v T, opts ...Option) (cube.Hypercube[bool], error) {
	b, err := broadcast(v, a)
	if err != nil {
		return nil, err
	}

	return Greater(a, b, opts...)
}
