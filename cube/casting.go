package cube

// castCube presents a wrapped cube of S as a cube of D, converting each
// element on access. Null maps to null, bool converts through 0/1, and
// narrowing conversions clamp rather than wrap.
type castCube[S, D Element] struct {
	base[D]

	wrapped Hypercube[S]
}

var _ Hypercube[float64] = (*castCube[int64, float64])(nil)

// Cast returns a zero-copy view of src with element type D. Casting to the
// cube's own element type returns src itself.
func Cast[S, D Element](src Hypercube[S]) (Hypercube[D], error) {
	if src == nil {
		return nil, ErrNilCube
	}

	if DTypeOf[S]() == DTypeOf[D]() {
		if same, ok := any(src).(Hypercube[D]); ok {
			return same, nil
		}
	}

	c := &castCube[S, D]{wrapped: src}

	// The wrapped cube has at least one dimension, so init cannot fail.
	_ = c.init(c, viewFlags(src), src.Dimensions())

	return c, nil
}

func (c *castCube[S, D]) GetAt(offset int64) (D, error) {
	v, err := c.wrapped.GetAt(offset)
	if err != nil {
		var zero D
		return zero, err
	}

	return Convert[S, D](v), nil
}

func (c *castCube[S, D]) SetAt(offset int64, value D) error {
	return c.wrapped.SetAt(offset, Convert[D, S](value))
}

// Flatten stages the wrapped elements through a scratch buffer and converts
// them in bulk.
func (c *castCube[S, D]) Flatten(srcPos int64, dst []D, dstPos, length int) error {
	if err := c.checkFlatten(srcPos, len(dst), dstPos, length); err != nil {
		return err
	}

	bufLen := length
	if bufLen > copyChunk {
		bufLen = copyChunk
	}

	buf := make([]S, bufLen)

	for length > 0 {
		run := length
		if run > len(buf) {
			run = len(buf)
		}

		if err := c.wrapped.Flatten(srcPos, buf, 0, run); err != nil {
			return err
		}

		for i := 0; i < run; i++ {
			dst[dstPos+i] = Convert[S, D](buf[i])
		}

		srcPos += int64(run)
		dstPos += run
		length -= run
	}

	return nil
}

func (c *castCube[S, D]) Unflatten(src []D, srcPos int, dstPos int64, length int) error {
	if err := c.checkUnflatten(len(src), srcPos, dstPos, length); err != nil {
		return err
	}

	bufLen := length
	if bufLen > copyChunk {
		bufLen = copyChunk
	}

	buf := make([]S, bufLen)

	for length > 0 {
		run := length
		if run > len(buf) {
			run = len(buf)
		}

		for i := 0; i < run; i++ {
			buf[i] = Convert[D, S](src[srcPos+i])
		}

		if err := c.wrapped.Unflatten(buf[:run], 0, dstPos, run); err != nil {
			return err
		}

		srcPos += run
		dstPos += int64(run)
		length -= run
	}

	return nil
}
