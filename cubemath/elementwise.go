package cubemath

import (
	"math"

	"github.com/hupe1980/cubego/cube"
	"github.com/hupe1980/cubego/internal/kernels"
)

// binaryOp streams both operands chunkwise and applies either the scalar
// per-element function or the batched kernel.
func binaryOp[T cube.Numeric](
	a, b cube.Hypercube[T],
	opts []Option,
	scalar func(x, y T) T,
	batched func(dst, x, y []T),
) (cube.Hypercube[T], error) {
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

	out, err := cube.NewDense[T](a.Dimensions())
	if err != nil {
		return nil, err
	}

	var (
		size = a.Size()
		abuf = make([]T, min64(size, chunk))
		bbuf = make([]T, len(abuf))
		obuf = make([]T, len(abuf))
		mbuf []bool
		null = cube.Null[T]()
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
				if mbuf[i] {
					obuf[i] = scalar(abuf[i], bbuf[i])
				} else {
					obuf[i] = null
				}
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

// unaryOp is the single-operand counterpart of binaryOp.
func unaryOp[T cube.Numeric](
	a cube.Hypercube[T],
	opts []Option,
	scalar func(x T) T,
	batched func(dst, x []T),
) (cube.Hypercube[T], error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	if err := checkUnary(a); err != nil {
		return nil, err
	}

	if err := o.checkWhere(a.Shape()); err != nil {
		return nil, err
	}

	out, err := cube.NewDense[T](a.Dimensions())
	if err != nil {
		return nil, err
	}

	var (
		size = a.Size()
		abuf = make([]T, min64(size, chunk))
		obuf = make([]T, len(abuf))
		mbuf []bool
		null = cube.Null[T]()
	)

	if o.where != nil {
		mbuf = make([]bool, len(abuf))
	}

	for pos := int64(0); pos < size; pos += int64(len(abuf)) {
		run := int(min64(size-pos, int64(len(abuf))))

		if err := a.Flatten(pos, abuf, 0, run); err != nil {
			return nil, err
		}

		switch {
		case o.where != nil:
			if err := o.where.Flatten(pos, mbuf, 0, run); err != nil {
				return nil, err
			}

			for i := 0; i < run; i++ {
				if mbuf[i] {
					obuf[i] = scalar(abuf[i])
				} else {
					obuf[i] = null
				}
			}

		case o.batched:
			batched(obuf[:run], abuf[:run])

		default:
			for i := 0; i < run; i++ {
				obuf[i] = scalar(abuf[i])
			}
		}

		if err := out.Unflatten(obuf, 0, pos, run); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}

	return b
}

// Add returns a + b elementwise.
func Add[T cube.Numeric](a, b cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return binaryOp(a, b, opts,
		func(x, y T) T { return x + y },
		kernels.Add[T])
}

// Subtract returns a - b elementwise.
func Subtract[T cube.Numeric](a, b cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return binaryOp(a, b, opts,
		func(x, y T) T { return x - y },
		kernels.Sub[T])
}

// Multiply returns a * b elementwise.
func Multiply[T cube.Numeric](a, b cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return binaryOp(a, b, opts,
		func(x, y T) T { return x * y },
		kernels.Mul[T])
}

// Divide returns a / b elementwise. An integer division by zero yields
// zero; float division follows IEEE 754.
func Divide[T cube.Numeric](a, b cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return binaryOp(a, b, opts, divScalar[T], kernels.Div[T])
}

func divScalar[T cube.Numeric](x, y T) T {
	if y == 0 && isFixed[T]() {
		return 0
	}

	return x / y
}

func isFixed[T cube.Numeric]() bool {
	switch any(*new(T)).(type) {
	case float32, float64:
		return false
	default:
		return true
	}
}

// Mod returns the remainder of a / b elementwise, zero for an integer
// modulus by zero.
func Mod[T cube.Numeric](a, b cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return binaryOp(a, b, opts, modScalar[T], kernels.Mod[T])
}

func modScalar[T cube.Numeric](x, y T) T {
	switch v := any(x).(type) {
	case float64:
		return any(math.Mod(v, any(y).(float64))).(T)
	case float32:
		return any(float32(math.Mod(float64(v), float64(any(y).(float32))))).(T)
	default:
		if y == 0 {
			return 0
		}

		return T(int64(x) % int64(y))
	}
}

// Power returns a ** b elementwise, computed in float64.
func Power[T cube.Numeric](a, b cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return binaryOp(a, b, opts, powScalar[T], kernels.Power[T])
}

func powScalar[T cube.Numeric](x, y T) T {
	p := math.Pow(float64(x), float64(y))
	if isFixed[T]() && (math.IsNaN(p) || math.IsInf(p, 0)) {
		return 0
	}

	return T(p)
}

// Minimum returns the elementwise smaller of a and b, propagating NaN.
func Minimum[T cube.Numeric](a, b cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return binaryOp(a, b, opts, minScalar[T], kernels.Minimum[T])
}

func minScalar[T cube.Numeric](x, y T) T {
	if x != x {
		return x
	}
	if y != y {
		return y
	}
	if y < x {
		return y
	}

	return x
}

// Maximum returns the elementwise larger of a and b, propagating NaN.
func Maximum[T cube.Numeric](a, b cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return binaryOp(a, b, opts, maxScalar[T], kernels.Maximum[T])
}

func maxScalar[T cube.Numeric](x, y T) T {
	if x != x {
		return x
	}
	if y != y {
		return y
	}
	if y > x {
		return y
	}

	return x
}

// Negative returns -a elementwise.
func Negative[T cube.Numeric](a cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return unaryOp(a, opts,
		func(x T) T { return -x },
		kernels.Neg[T])
}

// Abs returns the elementwise absolute value of a.
func Abs[T cube.Numeric](a cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return unaryOp(a, opts,
		func(x T) T {
			if x < 0 {
				return -x
			}
			return x
		},
		kernels.Abs[T])
}

// Floor returns the elementwise floor of a; the identity on integer cubes.
func Floor[T cube.Numeric](a cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return unaryOp(a, opts, floatScalar[T](math.Floor), kernels.Floor[T])
}

// Ceil returns the elementwise ceiling of a; the identity on integer cubes.
func Ceil[T cube.Numeric](a cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return unaryOp(a, opts, floatScalar[T](math.Ceil), kernels.Ceil[T])
}

// Round returns a rounded elementwise half-to-even; the identity on integer
// cubes.
func Round[T cube.Numeric](a cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return unaryOp(a, opts, floatScalar[T](math.RoundToEven), kernels.Round[T])
}

// floatScalar lifts a float64 function to a scalar step that passes
// integers through unchanged.
func floatScalar[T cube.Numeric](f func(float64) float64) func(T) T {
	switch any(*new(T)).(type) {
	case float64, float32:
		return func(x T) T { return T(f(float64(x))) }
	default:
		return func(x T) T { return x }
	}
}
