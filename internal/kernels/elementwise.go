package kernels

import "math"

// The binary kernels assume len(dst) == len(a) == len(b); callers validate
// shapes before dispatch.

// Add stores a[i]+b[i] into dst.
func Add[T Number](dst, a, b []T) {
	lanes := Lanes[T]()

	i := 0
	for ; i+lanes <= len(a); i += lanes {
		for l := 0; l < lanes; l++ {
			dst[i+l] = a[i+l] + b[i+l]
		}
	}

	for ; i < len(a); i++ {
		dst[i] = a[i] + b[i]
	}
}

// Sub stores a[i]-b[i] into dst.
func Sub[T Number](dst, a, b []T) {
	lanes := Lanes[T]()

	i := 0
	for ; i+lanes <= len(a); i += lanes {
		for l := 0; l < lanes; l++ {
			dst[i+l] = a[i+l] - b[i+l]
		}
	}

	for ; i < len(a); i++ {
		dst[i] = a[i] - b[i]
	}
}

// Mul stores a[i]*b[i] into dst.
func Mul[T Number](dst, a, b []T) {
	lanes := Lanes[T]()

	i := 0
	for ; i+lanes <= len(a); i += lanes {
		for l := 0; l < lanes; l++ {
			dst[i+l] = a[i+l] * b[i+l]
		}
	}

	for ; i < len(a); i++ {
		dst[i] = a[i] * b[i]
	}
}

// Div stores a[i]/b[i] into dst. An integer division by zero yields zero
// instead of faulting; float division follows IEEE 754.
func Div[T Number](dst, a, b []T) {
	for i := range a {
		dst[i] = divOne(a[i], b[i])
	}
}

func divOne[T Number](a, b T) T {
	if b == 0 && isFixed[T]() {
		return 0
	}

	return a / b
}

func isFixed[T Number]() bool {
	var v T
	switch any(v).(type) {
	case float32, float64:
		return false
	default:
		return true
	}
}

// Mod stores the remainder of a[i]/b[i] into dst, zero for an integer
// modulus by zero.
func Mod[T Number](dst, a, b []T) {
	for i := range a {
		dst[i] = modOne(a[i], b[i])
	}
}

func modOne[T Number](a, b T) T {
	switch x := any(a).(type) {
	case float64:
		return any(math.Mod(x, any(b).(float64))).(T)
	case float32:
		return any(float32(math.Mod(float64(x), float64(any(b).(float32))))).(T)
	default:
		if b == 0 {
			return 0
		}

		return T(int64(a) % int64(b))
	}
}

// Power stores a[i]**b[i] into dst, computed in float64 and converted back.
// Non-finite results of an integer power collapse to zero, since converting
// them is undefined.
func Power[T Number](dst, a, b []T) {
	fixed := isFixed[T]()

	for i := range a {
		p := math.Pow(float64(a[i]), float64(b[i]))
		if fixed && (math.IsNaN(p) || math.IsInf(p, 0)) {
			dst[i] = 0
			continue
		}

		dst[i] = T(p)
	}
}

// Minimum stores the smaller of a[i] and b[i] into dst, propagating NaN.
func Minimum[T Number](dst, a, b []T) {
	for i := range a {
		switch {
		case isNaN(a[i]):
			dst[i] = a[i]
		case isNaN(b[i]):
			dst[i] = b[i]
		case b[i] < a[i]:
			dst[i] = b[i]
		default:
			dst[i] = a[i]
		}
	}
}

// Maximum stores the larger of a[i] and b[i] into dst, propagating NaN.
func Maximum[T Number](dst, a, b []T) {
	for i := range a {
		switch {
		case isNaN(a[i]):
			dst[i] = a[i]
		case isNaN(b[i]):
			dst[i] = b[i]
		case b[i] > a[i]:
			dst[i] = b[i]
		default:
			dst[i] = a[i]
		}
	}
}

// Neg stores -a[i] into dst.
func Neg[T Number](dst, a []T) {
	lanes := Lanes[T]()

	i := 0
	for ; i+lanes <= len(a); i += lanes {
		for l := 0; l < lanes; l++ {
			dst[i+l] = -a[i+l]
		}
	}

	for ; i < len(a); i++ {
		dst[i] = -a[i]
	}
}

// Abs stores the absolute value of a[i] into dst.
func Abs[T Number](dst, a []T) {
	for i := range a {
		if a[i] < 0 {
			dst[i] = -a[i]
		} else {
			dst[i] = a[i]
		}
	}
}

// Floor stores the floor of a[i] into dst; the identity for integers.
func Floor[T Number](dst, a []T) {
	applyFloat(dst, a, math.Floor)
}

// Ceil stores the ceiling of a[i] into dst; the identity for integers.
func Ceil[T Number](dst, a []T) {
	applyFloat(dst, a, math.Ceil)
}

// Round stores a[i] rounded half-to-even into dst; the identity for
// integers.
func Round[T Number](dst, a []T) {
	applyFloat(dst, a, math.RoundToEven)
}

// applyFloat maps a float64 function over the elements. Integer inputs pass
// through unchanged, since the wrapped functions are all identities on
// integral values.
func applyFloat[T Number](dst, a []T, f func(float64) float64) {
	switch xs := any(a).(type) {
	case []float64:
		out := any(dst).([]float64)
		for i, x := range xs {
			out[i] = f(x)
		}
	case []float32:
		out := any(dst).([]float32)
		for i, x := range xs {
			out[i] = float32(f(float64(x)))
		}
	default:
		copy(dst, a)
	}
}

// Unary transcendentals, floating types only.

// Exp stores e**a[i] into dst.
func Exp[T Floating](dst, a []T) { applyF(dst, a, math.Exp) }

// Log stores the natural logarithm of a[i] into dst.
func Log[T Floating](dst, a []T) { applyF(dst, a, math.Log) }

// Log10 stores the base-10 logarithm of a[i] into dst.
func Log10[T Floating](dst, a []T) { applyF(dst, a, math.Log10) }

// Sqrt stores the square root of a[i] into dst.
func Sqrt[T Floating](dst, a []T) { applyF(dst, a, math.Sqrt) }

// Sin stores the sine of a[i] into dst.
func Sin[T Floating](dst, a []T) { applyF(dst, a, math.Sin) }

// Cos stores the cosine of a[i] into dst.
func Cos[T Floating](dst, a []T) { applyF(dst, a, math.Cos) }

// Tan stores the tangent of a[i] into dst.
func Tan[T Floating](dst, a []T) { applyF(dst, a, math.Tan) }

// Sinh stores the hyperbolic sine of a[i] into dst.
func Sinh[T Floating](dst, a []T) { applyF(dst, a, math.Sinh) }

// Cosh stores the hyperbolic cosine of a[i] into dst.
func Cosh[T Floating](dst, a []T) { applyF(dst, a, math.Cosh) }

// Tanh stores the hyperbolic tangent of a[i] into dst.
func Tanh[T Floating](dst, a []T) { applyF(dst, a, math.Tanh) }

func applyF[T Floating](dst, a []T, f func(float64) float64) {
	for i := range a {
		dst[i] = T(f(float64(a[i])))
	}
}

// Bitwise kernels, integer types only.

// And stores a[i]&b[i] into dst.
func And[T Fixed](dst, a, b []T) {
	lanes := Lanes[T]()

	i := 0
	for ; i+lanes <= len(a); i += lanes {
		for l := 0; l < lanes; l++ {
			dst[i+l] = a[i+l] & b[i+l]
		}
	}

	for ; i < len(a); i++ {
		dst[i] = a[i] & b[i]
	}
}

// Or stores a[i]|b[i] into dst.
func Or[T Fixed](dst, a, b []T) {
	lanes := Lanes[T]()

	i := 0
	for ; i+lanes <= len(a); i += lanes {
		for l := 0; l < lanes; l++ {
			dst[i+l] = a[i+l] | b[i+l]
		}
	}

	for ; i < len(a); i++ {
		dst[i] = a[i] | b[i]
	}
}

// Xor stores a[i]^b[i] into dst.
func Xor[T Fixed](dst, a, b []T) {
	lanes := Lanes[T]()

	i := 0
	for ; i+lanes <= len(a); i += lanes {
		for l := 0; l < lanes; l++ {
			dst[i+l] = a[i+l] ^ b[i+l]
		}
	}

	for ; i < len(a); i++ {
		dst[i] = a[i] ^ b[i]
	}
}

// Not stores ^a[i] into dst.
func Not[T Fixed](dst, a []T) {
	for i := range a {
		dst[i] = ^a[i]
	}
}

// Comparison kernels.

// Eq stores a[i]==b[i] into dst.
func Eq[T Number](dst []bool, a, b []T) {
	for i := range a {
		dst[i] = a[i] == b[i]
	}
}

// Ne stores a[i]!=b[i] into dst.
func Ne[T Number](dst []bool, a, b []T) {
	for i := range a {
		dst[i] = a[i] != b[i]
	}
}

// Lt stores a[i]<b[i] into dst.
func Lt[T Number](dst []bool, a, b []T) {
	for i := range a {
		dst[i] = a[i] < b[i]
	}
}

// Le stores a[i]<=b[i] into dst.
func Le[T Number](dst []bool, a, b []T) {
	for i := range a {
		dst[i] = a[i] <= b[i]
	}
}

// Gt stores a[i]>b[i] into dst.
func Gt[T Number](dst []bool, a, b []T) {
	for i := range a {
		dst[i] = a[i] > b[i]
	}
}

// Ge stores a[i]>=b[i] into dst.
func Ge[T Number](dst []bool, a, b []T) {
	for i := range a {
		dst[i] = a[i] >= b[i]
	}
}

// Logical kernels, bool slices.

// LogicalAnd stores a[i]&&b[i] into dst.
func LogicalAnd(dst, a, b []bool) {
	for i := range a {
		dst[i] = a[i] && b[i]
	}
}

// LogicalOr stores a[i]||b[i] into dst.
func LogicalOr(dst, a, b []bool) {
	for i := range a {
		dst[i] = a[i] || b[i]
	}
}

// LogicalXor stores a[i]!=b[i] into dst.
func LogicalXor(dst, a, b []bool) {
	for i := range a {
		dst[i] = a[i] != b[i]
	}
}

// LogicalNot stores !a[i] into dst.
func LogicalNot(dst, a []bool) {
	for i := range a {
		dst[i] = !a[i]
	}
}
