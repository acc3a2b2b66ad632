package cubemath

import (
	"math"

	"github.com/hupe1980/cubego/cube"
	"github.com/hupe1980/cubego/internal/kernels"
)

// The transcendental operations are only defined for floating cubes; cast
// an integer cube first if needed.

func transcendental[T cube.Float](
	a cube.Hypercube[T],
	opts []Option,
	f func(float64) float64,
	batched func(dst, x []T),
) (cube.Hypercube[T], error) {
	return unaryOp(a, opts,
		func(x T) T { return T(f(float64(x))) },
		batched)
}

// Exp returns e**a elementwise.
func Exp[T cube.Float](a cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return transcendental(a, opts, math.Exp, kernels.Exp[T])
}

// Log returns the elementwise natural logarithm of a.
func Log[T cube.Float](a cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return transcendental(a, opts, math.Log, kernels.Log[T])
}

// Log10 returns the elementwise base-10 logarithm of a.
func Log10[T cube.Float](a cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return transcendental(a, opts, math.Log10, kernels.Log10[T])
}

// Sqrt returns the elementwise square root of a.
func Sqrt[T cube.Float](a cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return transcendental(a, opts, math.Sqrt, kernels.Sqrt[T])
}

// Sin returns the elementwise sine of a.
func Sin[T cube.Float](a cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return transcendental(a, opts, math.Sin, kernels.Sin[T])
}

// Cos returns the elementwise cosine of a.
func Cos[T cube.Float](a cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return transcendental(a, opts, math.Cos, kernels.Cos[T])
}

// Tan returns the elementwise tangent of a.
func Tan[T cube.Float](a cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return transcendental(a, opts, math.Tan, kernels.Tan[T])
}

// Sinh returns the elementwise hyperbolic sine of a.
func Sinh[T cube.Float](a cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return transcendental(a, opts, math.Sinh, kernels.Sinh[T])
}

// Cosh returns the elementwise hyperbolic cosine of a.
func Cosh[T cube.Float](a cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return transcendental(a, opts, math.Cosh, kernels.Cosh[T])
}

// Tanh returns the elementwise hyperbolic tangent of a.
func Tanh[T cube.Float](a cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return transcendental(a, opts, math.Tanh, kernels.Tanh[T])
}
