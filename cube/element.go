package cube

import (
	"math"
	"unsafe"
)

// Element is the set of primitive types a hypercube can hold.
type Element interface {
	bool | int8 | int16 | int32 | int64 | float32 | float64
}

// Numeric is the subset of Element supporting arithmetic.
type Numeric interface {
	int8 | int16 | int32 | int64 | float32 | float64
}

// Integer is the subset of Element holding integral values.
type Integer interface {
	int8 | int16 | int32 | int64
}

// Float is the subset of Element holding floating-point values.
type Float interface {
	float32 | float64
}

// DType identifies an element type at runtime, e.g. for snapshot manifests
// and wire-format negotiation.
type DType uint8

const (
	Invalid DType = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64
)

// String returns the numpy-style name of the dtype.
func (d DType) String() string {
	switch d {
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "invalid"
	}
}

// ParseDType parses a dtype name as produced by DType.String.
func ParseDType(s string) (DType, bool) {
	switch s {
	case "bool":
		return Bool, true
	case "int8":
		return Int8, true
	case "int16":
		return Int16, true
	case "int32":
		return Int32, true
	case "int64":
		return Int64, true
	case "float32":
		return Float32, true
	case "float64":
		return Float64, true
	default:
		return Invalid, false
	}
}

// DTypeOf returns the runtime dtype tag for T.
func DTypeOf[T Element]() DType {
	var z T
	switch any(z).(type) {
	case bool:
		return Bool
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		return Invalid
	}
}

// Null returns the "missing value" sentinel for T: NaN for floating types,
// zero for integers and false for booleans.
func Null[T Element]() T {
	var z T
	switch p := any(&z).(type) {
	case *float32:
		*p = float32(math.NaN())
	case *float64:
		*p = math.NaN()
	}
	return z
}

// IsNull reports whether v is the null sentinel for its type. For floating
// types this is a NaN test since NaN != NaN.
func IsNull[T Element](v T) bool {
	switch x := any(v).(type) {
	case float32:
		return x != x
	case float64:
		return x != x
	default:
		var z T
		return v == z
	}
}

// ElemSize returns the width of T in bytes.
func ElemSize[T Element]() int {
	var z T
	return int(unsafe.Sizeof(z))
}

// Lanes returns the batched group size for T: the number of elements that
// fit a 64-byte hardware vector register.
func Lanes[T Element]() int {
	n := 64 / ElemSize[T]()
	if n < 1 {
		n = 1
	}
	return n
}

// ToBits reinterprets v as a 64-bit pattern. This is a bit cast, not a value
// conversion: distinct NaN payloads map to distinct patterns. The sparse
// backend keys its map on these patterns so one map implementation serves
// every element type.
func ToBits[T Element](v T) uint64 {
	switch x := any(v).(type) {
	case bool:
		if x {
			return 1
		}
		return 0
	case int8:
		return uint64(uint8(x))
	case int16:
		return uint64(uint16(x))
	case int32:
		return uint64(uint32(x))
	case int64:
		return uint64(x)
	case float32:
		return uint64(math.Float32bits(x))
	case float64:
		return math.Float64bits(x)
	default:
		return 0
	}
}

// FromBits is the inverse of ToBits.
func FromBits[T Element](b uint64) T {
	var z T
	switch p := any(&z).(type) {
	case *bool:
		*p = b != 0
	case *int8:
		*p = int8(uint8(b))
	case *int16:
		*p = int16(uint16(b))
	case *int32:
		*p = int32(uint32(b))
	case *int64:
		*p = int64(b)
	case *float32:
		*p = math.Float32frombits(uint32(b))
	case *float64:
		*p = math.Float64frombits(b)
	}
	return z
}

// Convert applies Go's native conversion rule from S to D, with two
// refinements: a null source value yields the null sentinel of D, and
// narrowing conversions to integer types are clamped to D's range instead
// of wrapping.
func Convert[S, D Element](v S) D {
	if IsNull[S](v) {
		return Null[D]()
	}

	var z D
	switch x := any(v).(type) {
	case bool:
		// Null (false) was handled above, so x is true.
		_ = x
		return convertInt64[D](1)
	case int8:
		return convertInt64[D](int64(x))
	case int16:
		return convertInt64[D](int64(x))
	case int32:
		return convertInt64[D](int64(x))
	case int64:
		return convertInt64[D](x)
	case float32:
		return convertFloat64[D](float64(x))
	case float64:
		return convertFloat64[D](x)
	}
	return z
}

func convertInt64[D Element](v int64) D {
	var z D
	switch p := any(&z).(type) {
	case *bool:
		*p = v != 0
	case *int8:
		*p = int8(clampRange(v, math.MinInt8, math.MaxInt8))
	case *int16:
		*p = int16(clampRange(v, math.MinInt16, math.MaxInt16))
	case *int32:
		*p = int32(clampRange(v, math.MinInt32, math.MaxInt32))
	case *int64:
		*p = v
	case *float32:
		*p = float32(v)
	case *float64:
		*p = float64(v)
	}
	return z
}

func convertFloat64[D Element](v float64) D {
	var z D
	switch p := any(&z).(type) {
	case *bool:
		*p = v != 0
	case *int8:
		*p = int8(clampRange(clampInt64(v), math.MinInt8, math.MaxInt8))
	case *int16:
		*p = int16(clampRange(clampInt64(v), math.MinInt16, math.MaxInt16))
	case *int32:
		*p = int32(clampRange(clampInt64(v), math.MinInt32, math.MaxInt32))
	case *int64:
		*p = clampInt64(v)
	case *float32:
		*p = float32(v)
	case *float64:
		*p = v
	}
	return z
}

func clampRange(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt64(v float64) int64 {
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	if v <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(v)
}
