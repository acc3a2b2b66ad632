package cube

import "fmt"

// toOffset computes the row-major linear offset for the given multi-index
// against the given axis lengths. The last axis varies fastest; this
// convention is fixed across every backend and view.
//
// Ranks up to 5 are unrolled so the common low-rank path stays free of the
// generic stride loop; higher ranks fall back to it. Purely a performance
// concern, the arithmetic is identical.
func toOffset(lengths []int64, indices []int64) (int64, error) {
	if len(indices) != len(lengths) {
		return 0, fmt.Errorf("%w: got %d indices, want %d",
			ErrDimensionality, len(indices), len(lengths))
	}

	switch len(indices) {
	case 1:
		if err := boundsCheck(indices[0], lengths[0], 0); err != nil {
			return 0, err
		}
		return indices[0], nil

	case 2:
		if err := boundsCheck(indices[0], lengths[0], 0); err != nil {
			return 0, err
		}
		if err := boundsCheck(indices[1], lengths[1], 1); err != nil {
			return 0, err
		}
		return indices[0]*lengths[1] + indices[1], nil

	case 3:
		for i := 0; i < 3; i++ {
			if err := boundsCheck(indices[i], lengths[i], i); err != nil {
				return 0, err
			}
		}
		return (indices[0]*lengths[1]+indices[1])*lengths[2] + indices[2], nil

	case 4:
		for i := 0; i < 4; i++ {
			if err := boundsCheck(indices[i], lengths[i], i); err != nil {
				return 0, err
			}
		}
		return ((indices[0]*lengths[1]+indices[1])*lengths[2]+indices[2])*lengths[3] +
			indices[3], nil

	case 5:
		for i := 0; i < 5; i++ {
			if err := boundsCheck(indices[i], lengths[i], i); err != nil {
				return 0, err
			}
		}
		return (((indices[0]*lengths[1]+indices[1])*lengths[2]+indices[2])*lengths[3]+
			indices[3])*lengths[4] + indices[4], nil
	}

	var offset int64
	for i := 0; i < len(indices); i++ {
		if err := boundsCheck(indices[i], lengths[i], i); err != nil {
			return 0, err
		}
		offset = offset*lengths[i] + indices[i]
	}
	return offset, nil
}

// fromOffset is the inverse of toOffset. It fills out, which must have
// length len(lengths), and does not bounds-check the offset; callers do
// that against the cube size.
func fromOffset(lengths []int64, offset int64, out []int64) {
	for i := len(lengths) - 1; i >= 0; i-- {
		l := lengths[i]
		if l > 0 {
			out[i] = offset % l
			offset /= l
		} else {
			out[i] = 0
		}
	}
}

// scratchIndices returns an index slice of length n, backed by buf when the
// rank is small enough to stay off the heap.
func scratchIndices(n int, buf *[5]int64) []int64 {
	if n <= len(buf) {
		return buf[:n]
	}

	return make([]int64, n)
}

func boundsCheck(index, length int64, axis int) error {
	if index < 0 || index >= length {
		return fmt.Errorf("%w: index %d outside axis %d of length %d",
			ErrIndexOutOfBounds, index, axis, length)
	}
	return nil
}
