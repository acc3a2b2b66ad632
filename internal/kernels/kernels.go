package kernels

import "unsafe"

// Local copies of the element constraints; this package stays a leaf.

// Number is any numeric element type.
type Number interface {
	int8 | int16 | int32 | int64 | float32 | float64
}

// Fixed is any integer element type.
type Fixed interface {
	int8 | int16 | int32 | int64
}

// Floating is any floating-point element type.
type Floating interface {
	float32 | float64
}

// laneBytes is the group width in bytes, one cache line.
const laneBytes = 64

// Lanes returns the number of elements of T processed per group.
func Lanes[T Number]() int {
	return laneBytes / int(unsafe.Sizeof(*new(T)))
}

// isNaN is the type-agnostic NaN test; only a NaN compares unequal to
// itself.
func isNaN[T Number](v T) bool {
	return v != v
}
