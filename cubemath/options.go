package cubemath

import (
	"fmt"

	"github.com/hupe1980/cubego/cube"
)

// chunk is the streaming buffer length, in elements.
const chunk = 4096

type options struct {
	batched bool
	where   cube.Hypercube[bool]
}

// Option configures a single operation.
type Option func(*options)

// Batched runs the operation through the lane-grouped kernels instead of
// the scalar loop.
func Batched() Option {
	return func(o *options) {
		o.batched = true
	}
}

// Where restricts the operation to the elements where mask is true.
// Skipped elements of an elementwise result are null; skipped elements of
// a reduction do not contribute. Where requires the scalar path.
func Where(mask cube.Hypercube[bool]) Option {
	return func(o *options) {
		o.where = mask
	}
}

func applyOptions(opts []Option) (options, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.batched && o.where != nil {
		return o, fmt.Errorf("%w: Where is not available on the batched path", cube.ErrUnsupported)
	}

	return o, nil
}

// checkWhere validates the mask shape against the operand shape.
func (o options) checkWhere(shape []int64) error {
	if o.where == nil {
		return nil
	}

	if !equalShape(o.where.Shape(), shape) {
		return fmt.Errorf("%w: mask shape %v does not match operand shape %v",
			cube.ErrDimensionality, o.where.Shape(), shape)
	}

	return nil
}

func equalShape(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func checkUnary[T cube.Element](a cube.Hypercube[T]) error {
	if a == nil {
		return cube.ErrNilCube
	}

	return nil
}

func checkBinary[T cube.Element](a, b cube.Hypercube[T]) error {
	if a == nil || b == nil {
		return cube.ErrNilCube
	}

	if !equalShape(a.Shape(), b.Shape()) {
		return fmt.Errorf("%w: operand shapes %v and %v differ",
			cube.ErrDimensionality, a.Shape(), b.Shape())
	}

	return nil
}
