package testutil

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cubego/cube"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Int63n returns a non-negative pseudo-random int64 in [0,n).
func (r *RNG) Int63n(n int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Int63n(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// NormFloat64 returns a standard normal pseudo-random number.
func (r *RNG) NormFloat64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.NormFloat64()
}

// Dims builds a dimension list from alternating name, length pairs:
//
//	Dims("x", 4, "y", 8)
//
// It panics on a malformed argument list.
func Dims(pairs ...any) []cube.Dimension {
	if len(pairs)%2 != 0 {
		panic("testutil: Dims wants name, length pairs")
	}

	dims := make([]cube.Dimension, 0, len(pairs)/2)

	for i := 0; i < len(pairs); i += 2 {
		name := pairs[i].(string)

		var length int64
		switch v := pairs[i+1].(type) {
		case int:
			length = int64(v)
		case int64:
			length = v
		default:
			panic("testutil: Dims length must be int or int64")
		}

		dims = append(dims, cube.NewDimension(name, length))
	}

	return dims
}

// FillUniform fills c with random values in [0, 1).
func FillUniform[T cube.Float](rng *RNG, c cube.Hypercube[T]) {
	rng.mu.Lock()
	defer rng.mu.Unlock()

	for i := int64(0); i < c.Size(); i++ {
		if err := c.SetAt(i, T(rng.rand.Float64())); err != nil {
			panic(err)
		}
	}
}

// FillGaussian fills c with standard normal values.
func FillGaussian[T cube.Float](rng *RNG, c cube.Hypercube[T]) {
	rng.mu.Lock()
	defer rng.mu.Unlock()

	for i := int64(0); i < c.Size(); i++ {
		if err := c.SetAt(i, T(rng.rand.NormFloat64())); err != nil {
			panic(err)
		}
	}
}

// FillIntn fills c with random integers in [0, n).
func FillIntn[T cube.Integer](rng *RNG, c cube.Hypercube[T], n int64) {
	rng.mu.Lock()
	defer rng.mu.Unlock()

	for i := int64(0); i < c.Size(); i++ {
		if err := c.SetAt(i, T(rng.rand.Int63n(n))); err != nil {
			panic(err)
		}
	}
}

// UniformDense allocates a dense cube and fills it with values in [0, 1).
func UniformDense(rng *RNG, dims []cube.Dimension) *cube.Dense[float64] {
	c, err := cube.NewDense[float64](dims)
	if err != nil {
		panic(err)
	}

	FillUniform(rng, c)

	return c
}

// GaussianDense allocates a dense cube and fills it with standard normal
// values.
func GaussianDense(rng *RNG, dims []cube.Dimension) *cube.Dense[float64] {
	c, err := cube.NewDense[float64](dims)
	if err != nil {
		panic(err)
	}

	FillGaussian(rng, c)

	return c
}

// SequentialDense allocates a dense cube holding 0, 1, 2, ... in flat
// order. Handy when a test needs to assert exact element placement.
func SequentialDense[T cube.Numeric](dims []cube.Dimension) *cube.Dense[T] {
	c, err := cube.NewDense[T](dims)
	if err != nil {
		panic(err)
	}

	for i := int64(0); i < c.Size(); i++ {
		if err := c.SetAt(i, cube.Convert[int64, T](i)); err != nil {
			panic(err)
		}
	}

	return c
}

// RequireEqual fails the test unless want and got have the same shape and
// the same elements. Null elements compare equal to each other, so NaN
// matches NaN.
func RequireEqual[T cube.Element](t *testing.T, want, got cube.Hypercube[T]) {
	t.Helper()

	require.Equal(t, want.Shape(), got.Shape())

	for i := int64(0); i < want.Size(); i++ {
		w, err := want.GetAt(i)
		require.NoError(t, err)

		g, err := got.GetAt(i)
		require.NoError(t, err)

		if cube.IsNull[T](w) && cube.IsNull[T](g) {
			continue
		}

		require.Equal(t, w, g, "offset %d", i)
	}
}
