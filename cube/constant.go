package cube

import "fmt"

// constantCube holds a single value at every offset and owns no storage.
// It is the broadcast form of a scalar operand. Writes are dropped, like
// weak writes on an undersized dense wrap.
type constantCube[T Element] struct {
	base[T]

	value T
}

var _ Hypercube[float64] = (*constantCube[float64])(nil)

// Constant returns a read-only cube of the given shape whose every element
// is value.
func Constant[T Element](value T, dims []Dimension) (Hypercube[T], error) {
	c := &constantCube[T]{value: value}

	flags := Flags{
		Aligned:     true,
		Behaved:     true,
		CContiguous: true,
	}

	if err := c.init(c, flags, dims); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *constantCube[T]) GetAt(offset int64) (T, error) {
	if offset < 0 || offset >= c.size {
		var zero T
		return zero, fmt.Errorf("%w: offset %d outside [0, %d)", ErrIndexOutOfBounds, offset, c.size)
	}

	return c.value, nil
}

func (c *constantCube[T]) SetAt(offset int64, _ T) error {
	if offset < 0 || offset >= c.size {
		return fmt.Errorf("%w: offset %d outside [0, %d)", ErrIndexOutOfBounds, offset, c.size)
	}

	return nil
}

func (c *constantCube[T]) Flatten(srcPos int64, dst []T, dstPos, length int) error {
	if err := c.checkFlatten(srcPos, len(dst), dstPos, length); err != nil {
		return err
	}

	for i := 0; i < length; i++ {
		dst[dstPos+i] = c.value
	}

	return nil
}

func (c *constantCube[T]) Unflatten(src []T, srcPos int, dstPos int64, length int) error {
	return c.checkUnflatten(len(src), srcPos, dstPos, length)
}

func (c *constantCube[T]) Fill(_ T) {}
