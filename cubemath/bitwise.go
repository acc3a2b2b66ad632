package cubemath

import (
	"github.com/hupe1980/cubego/cube"
	"github.com/hupe1980/cubego/internal/kernels"
)

// And returns a & b elementwise over integer cubes.
func And[T cube.Integer](a, b cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return binaryOp(a, b, opts,
		func(x, y T) T { return x & y },
		kernels.And[T])
}

// Or returns a | b elementwise over integer cubes.
func Or[T cube.Integer](a, b cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return binaryOp(a, b, opts,
		func(x, y T) T { return x | y },
		kernels.Or[T])
}

// Xor returns a ^ b elementwise over integer cubes.
func Xor[T cube.Integer](a, b cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return binaryOp(a, b, opts,
		func(x, y T) T { return x ^ y },
		kernels.Xor[T])
}

// Not returns ^a elementwise over integer cubes.
func Not[T cube.Integer](a cube.Hypercube[T], opts ...Option) (cube.Hypercube[T], error) {
	return unaryOp(a, opts,
		func(x T) T { return ^x },
		kernels.Not[T])
}

// boolOp streams two bool cubes chunkwise. The bool operations have no
// separate batched kernels; Batched simply runs the same loops.
func boolOp(
	a, b cube.Hypercube[bool],
	opts []Option,
	apply func(dst, x, y []bool),
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
		abuf = make([]bool, min64(size, chunk))
		bbuf = make([]bool, len(abuf))
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

		apply(obuf[:run], abuf[:run], bbuf[:run])

		if o.where != nil {
			if err := o.where.Flatten(pos, mbuf, 0, run); err != nil {
				return nil, err
			}

			for i := 0; i < run; i++ {
				if !mbuf[i] {
					obuf[i] = false
				}
			}
		}

		if err := out.Unflatten(obuf, 0, pos, run); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// LogicalAnd returns a && b elementwise over bool cubes.
func LogicalAnd(a, b cube.Hypercube[bool], opts ...Option) (cube.Hypercube[bool], error) {
	return boolOp(a, b, opts, kernels.LogicalAnd)
}

// LogicalOr returns a || b elementwise over bool cubes.
func LogicalOr(a, b cube.Hypercube[bool], opts ...Option) (cube.Hypercube[bool], error) {
	return boolOp(a, b, opts, kernels.LogicalOr)
}

// LogicalXor returns a != b elementwise over bool cubes.
func LogicalXor(a, b cube.Hypercube[bool], opts ...Option) (cube.Hypercube[bool], error) {
	return boolOp(a, b, opts, kernels.LogicalXor)
}

// LogicalNot returns !a elementwise over bool cubes.
func LogicalNot(a cube.Hypercube[bool], opts ...Option) (cube.Hypercube[bool], error) {
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

	out, err := cube.NewDense[bool](a.Dimensions())
	if err != nil {
		return nil, err
	}

	var (
		size = a.Size()
		abuf = make([]bool, min64(size, chunk))
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

		kernels.LogicalNot(obuf[:run], abuf[:run])

		if o.where != nil {
			if err := o.where.Flatten(pos, mbuf, 0, run); err != nil {
				return nil, err
			}

			for i := 0; i < run; i++ {
				if !mbuf[i] {
					obuf[i] = false
				}
			}
		}

		if err := out.Unflatten(obuf, 0, pos, run); err != nil {
			return nil, err
		}
	}

	return out, nil
}
