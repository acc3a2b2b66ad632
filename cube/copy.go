package cube

// Copy assigns every element of src to dst. The cubes must have the same
// shape.
func Copy[T Element](dst, src Hypercube[T]) error {
	if dst == nil {
		return ErrNilCube
	}

	return dst.CopyFrom(src)
}

// NewLike allocates an empty dense cube with the same dimensions as c.
func NewLike[T Element](c Hypercube[T]) (*Dense[T], error) {
	if c == nil {
		return nil, ErrNilCube
	}

	return NewDense[T](c.Dimensions())
}

// Clone materializes c into a freshly allocated dense cube with the same
// dimensions.
func Clone[T Element](c Hypercube[T]) (*Dense[T], error) {
	if c == nil {
		return nil, ErrNilCube
	}

	d, err := NewDense[T](c.Dimensions())
	if err != nil {
		return nil, err
	}

	if err := d.CopyFrom(c); err != nil {
		return nil, err
	}

	return d, nil
}

// ToSlice copies the whole cube into a new row-major slice.
func ToSlice[T Element](c Hypercube[T]) ([]T, error) {
	if c == nil {
		return nil, ErrNilCube
	}

	out := make([]T, c.Size())

	for pos := int64(0); pos < c.Size(); pos += copyChunk {
		run := int64(copyChunk)
		if c.Size()-pos < run {
			run = c.Size() - pos
		}

		if err := c.Flatten(pos, out, int(pos), int(run)); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// FromSlice copies a row-major slice over the whole cube. The slice must
// hold exactly Size elements.
func FromSlice[T Element](c Hypercube[T], data []T) error {
	if c == nil {
		return ErrNilCube
	}

	if int64(len(data)) != c.Size() {
		return errSizeMismatch(int64(len(data)), c.Size())
	}

	for pos := int64(0); pos < c.Size(); pos += copyChunk {
		run := int64(copyChunk)
		if c.Size()-pos < run {
			run = c.Size() - pos
		}

		if err := c.Unflatten(data, int(pos), pos, int(run)); err != nil {
			return err
		}
	}

	return nil
}
