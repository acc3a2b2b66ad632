package cube

import (
	"fmt"
	"reflect"
)

// Dense is the in-memory backend: one contiguous row-major slice.
//
// A dense cube may wrap a caller-provided slice that is shorter than the
// cube's size. Reads past the end of the backing slice yield the null value
// and writes past it are dropped, so an undersized wrap behaves like a cube
// padded with nulls.
type Dense[T Element] struct {
	base[T]
	data []T
}

var _ Hypercube[float64] = (*Dense[float64])(nil)

// NewDense allocates a dense hypercube with the given dimensions. Every
// element starts out as the null value for T.
func NewDense[T Element](dims []Dimension) (*Dense[T], error) {
	d := &Dense[T]{}

	flags := Flags{
		Aligned:     true,
		Behaved:     true,
		CContiguous: true,
		OwnData:     true,
		Writeable:   true,
	}
	if err := d.init(d, flags, dims); err != nil {
		return nil, err
	}

	d.data = make([]T, d.size)

	// Only the float types have a non-zero null value.
	if null := Null[T](); null != *new(T) {
		for i := range d.data {
			d.data[i] = null
		}
	}

	return d, nil
}

// WrapDense wraps an existing row-major slice without copying. The slice may
// be shorter than the cube size; the missing tail reads as null and ignores
// writes.
func WrapDense[T Element](data []T, dims []Dimension) (*Dense[T], error) {
	if data == nil {
		return nil, fmt.Errorf("%w: cannot wrap a nil slice", ErrInvalidArgument)
	}

	d := &Dense[T]{data: data}

	flags := Flags{
		Aligned:     true,
		Behaved:     true,
		CContiguous: true,
		OwnData:     false,
		Writeable:   true,
	}
	if err := d.init(d, flags, dims); err != nil {
		return nil, err
	}

	if int64(len(data)) > d.size {
		d.data = data[:d.size]
	}

	return d, nil
}

// DenseFromNested copies a nested slice (for example a [][]float64) into a
// freshly allocated dense hypercube. The nesting depth gives the rank and
// the lengths along the first elements give the shape. Short inner slices
// leave the uncovered region at the null value.
func DenseFromNested[T Element](nested any) (*Dense[T], error) {
	v := reflect.ValueOf(nested)
	if v.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%w: value of type %T is not a nested slice", ErrInvalidArgument, nested)
	}

	elem := reflect.TypeOf(*new(T))
	dims := nestedDims(v, elem)
	if len(dims) == 0 {
		return nil, fmt.Errorf("%w: value of type %T is not a nested %s slice",
			ErrInvalidArgument, nested, elem)
	}

	d, err := NewDense[T](dims)
	if err != nil {
		return nil, err
	}

	scratch := make([]int64, len(dims))
	copyNested(d, v, 0, scratch)

	return d, nil
}

func nestedDims(v reflect.Value, elem reflect.Type) []Dimension {
	var dims []Dimension

	for v.Kind() == reflect.Slice && v.Type().Elem() != elem {
		if v.Type().Elem().Kind() != reflect.Slice {
			return nil
		}

		dims = append(dims, NewDimension(fmt.Sprintf("dim%d", len(dims)), int64(v.Len())))

		if v.Len() == 0 {
			return nil
		}

		v = v.Index(0)
	}

	if v.Kind() != reflect.Slice || v.Type().Elem() != elem {
		return nil
	}

	return append(dims, NewDimension(fmt.Sprintf("dim%d", len(dims)), int64(v.Len())))
}

func copyNested[T Element](d *Dense[T], v reflect.Value, axis int, indices []int64) {
	if axis == len(indices)-1 {
		row, ok := v.Interface().([]T)
		if !ok {
			return
		}

		offset, err := toOffset(d.lengths, indices)
		if err != nil {
			return
		}

		_ = d.Unflatten(row, 0, offset, min(len(row), int(d.lengths[axis])))

		return
	}

	n := int64(v.Len())
	if n > d.lengths[axis] {
		n = d.lengths[axis]
	}

	for i := int64(0); i < n; i++ {
		indices[axis] = i
		copyNested(d, v.Index(int(i)), axis+1, indices)
	}

	indices[axis] = 0
}

// Data exposes the backing slice. Mutating it mutates the cube.
func (d *Dense[T]) Data() []T {
	return d.data
}

func (d *Dense[T]) GetAt(offset int64) (T, error) {
	if offset < 0 || offset >= d.size {
		var zero T
		return zero, fmt.Errorf("%w: offset %d outside [0, %d)", ErrIndexOutOfBounds, offset, d.size)
	}

	if offset >= int64(len(d.data)) {
		return Null[T](), nil
	}

	return d.data[offset], nil
}

func (d *Dense[T]) SetAt(offset int64, value T) error {
	if offset < 0 || offset >= d.size {
		return fmt.Errorf("%w: offset %d outside [0, %d)", ErrIndexOutOfBounds, offset, d.size)
	}

	if offset >= int64(len(d.data)) {
		// Writes past an undersized backing slice are dropped.
		return nil
	}

	d.data[offset] = value

	return nil
}

func (d *Dense[T]) Flatten(srcPos int64, dst []T, dstPos, length int) error {
	if err := d.checkFlatten(srcPos, len(dst), dstPos, length); err != nil {
		return err
	}

	avail := int64(len(d.data)) - srcPos
	if avail < 0 {
		avail = 0
	}

	run := int64(length)
	if run > avail {
		run = avail
	}

	copy(dst[dstPos:dstPos+int(run)], d.data[srcPos:srcPos+run])

	if run < int64(length) {
		null := Null[T]()
		for i := int(run); i < length; i++ {
			dst[dstPos+i] = null
		}
	}

	return nil
}

func (d *Dense[T]) Unflatten(src []T, srcPos int, dstPos int64, length int) error {
	if err := d.checkUnflatten(len(src), srcPos, dstPos, length); err != nil {
		return err
	}

	avail := int64(len(d.data)) - dstPos
	if avail < 0 {
		avail = 0
	}

	run := int64(length)
	if run > avail {
		run = avail
	}

	copy(d.data[dstPos:dstPos+run], src[srcPos:srcPos+int(run)])

	return nil
}

// Fill overwrites the backing slice directly.
func (d *Dense[T]) Fill(value T) {
	for i := range d.data {
		d.data[i] = value
	}
}
