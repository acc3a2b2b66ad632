package kernels

// Sum returns the sum of xs, accumulating one partial per lane before
// combining. NaN propagates.
func Sum[T Number](xs []T) T {
	lanes := Lanes[T]()
	if len(xs) < lanes {
		var acc T
		for _, x := range xs {
			acc += x
		}

		return acc
	}

	accs := make([]T, lanes)

	i := 0
	for ; i+lanes <= len(xs); i += lanes {
		for l := 0; l < lanes; l++ {
			accs[l] += xs[i+l]
		}
	}

	var acc T
	for _, a := range accs {
		acc += a
	}

	for ; i < len(xs); i++ {
		acc += xs[i]
	}

	return acc
}

// NaNSum returns the sum of the non-NaN elements of xs.
func NaNSum[T Number](xs []T) T {
	lanes := Lanes[T]()
	accs := make([]T, lanes)

	i := 0
	for ; i+lanes <= len(xs); i += lanes {
		for l := 0; l < lanes; l++ {
			if x := xs[i+l]; !isNaN(x) {
				accs[l] += x
			}
		}
	}

	var acc T
	for _, a := range accs {
		acc += a
	}

	for ; i < len(xs); i++ {
		if x := xs[i]; !isNaN(x) {
			acc += x
		}
	}

	return acc
}

// Min returns the smallest element of xs. NaN propagates. xs must not be
// empty.
func Min[T Number](xs []T) T {
	acc := xs[0]
	for _, x := range xs[1:] {
		if isNaN(x) {
			return x
		}

		if isNaN(acc) {
			return acc
		}

		if x < acc {
			acc = x
		}
	}

	return acc
}

// Max returns the largest element of xs. NaN propagates. xs must not be
// empty.
func Max[T Number](xs []T) T {
	acc := xs[0]
	for _, x := range xs[1:] {
		if isNaN(x) {
			return x
		}

		if isNaN(acc) {
			return acc
		}

		if x > acc {
			acc = x
		}
	}

	return acc
}

// Any reports whether any element of xs is true.
func Any(xs []bool) bool {
	for _, x := range xs {
		if x {
			return true
		}
	}

	return false
}

// All reports whether every element of xs is true.
func All(xs []bool) bool {
	for _, x := range xs {
		if !x {
			return false
		}
	}

	return true
}

// PopCount returns the number of true elements of xs.
func PopCount(xs []bool) int64 {
	var n int64
	for _, x := range xs {
		if x {
			n++
		}
	}

	return n
}
