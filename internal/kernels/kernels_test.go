package kernels

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddSubMul(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{10, 20, 30}
	dst := make([]float64, 3)

	Add(dst, a, b)
	assert.Equal(t, []float64{11, 22, 33}, dst)

	Sub(dst, b, a)
	assert.Equal(t, []float64{9, 18, 27}, dst)

	Mul(dst, a, b)
	assert.Equal(t, []float64{10, 40, 90}, dst)
}

func TestDivByZero(t *testing.T) {
	idst := make([]int64, 2)
	Div(idst, []int64{10, 7}, []int64{0, 2})
	assert.Equal(t, []int64{0, 3}, idst)

	fdst := make([]float64, 1)
	Div(fdst, []float64{1}, []float64{0})
	assert.True(t, math.IsInf(fdst[0], 1))
}

func TestMod(t *testing.T) {
	idst := make([]int32, 3)
	Mod(idst, []int32{7, -7, 5}, []int32{3, 3, 0})
	assert.Equal(t, []int32{1, -1, 0}, idst)

	fdst := make([]float64, 1)
	Mod(fdst, []float64{7.5}, []float64{2})
	assert.Equal(t, 1.5, fdst[0])
}

func TestMinimumMaximumNaN(t *testing.T) {
	nan := math.NaN()
	dst := make([]float64, 3)

	Minimum(dst, []float64{1, nan, 5}, []float64{2, 3, nan})
	assert.Equal(t, 1.0, dst[0])
	assert.True(t, math.IsNaN(dst[1]))
	assert.True(t, math.IsNaN(dst[2]))

	Maximum(dst, []float64{1, 4, 2}, []float64{2, 3, 2})
	assert.Equal(t, []float64{2, 4, 2}, dst)
}

func TestRounding(t *testing.T) {
	dst := make([]float64, 4)
	Round(dst, []float64{0.5, 1.5, 2.5, -0.5})
	assert.Equal(t, []float64{0, 2, 2, 0}, dst, "round is half-to-even")

	Floor(dst, []float64{1.9, -1.1, 2, -2.5})
	assert.Equal(t, []float64{1, -2, 2, -3}, dst)

	idst := make([]int64, 2)
	Ceil(idst, []int64{3, -4})
	assert.Equal(t, []int64{3, -4}, idst, "integers pass through")
}

func TestBitwise(t *testing.T) {
	dst := make([]int64, 2)

	And(dst, []int64{0b1100, 0b1010}, []int64{0b1010, 0b1010})
	assert.Equal(t, []int64{0b1000, 0b1010}, dst)

	Xor(dst, []int64{0b1100, 0}, []int64{0b1010, 0})
	assert.Equal(t, []int64{0b0110, 0}, dst)

	Not(dst, []int64{0, -1})
	assert.Equal(t, []int64{-1, 0}, dst)
}

func TestCompare(t *testing.T) {
	dst := make([]bool, 3)

	Lt(dst, []int64{1, 2, 3}, []int64{2, 2, 2})
	assert.Equal(t, []bool{true, false, false}, dst)

	Ge(dst, []int64{1, 2, 3}, []int64{2, 2, 2})
	assert.Equal(t, []bool{false, true, true}, dst)

	// NaN compares false against everything but Ne.
	fs := []float64{math.NaN()}
	one := []float64{1}

	eq := make([]bool, 1)
	Eq(eq, fs, one)
	assert.False(t, eq[0])

	Ne(eq, fs, one)
	assert.True(t, eq[0])
}

func TestSumLaneGrouping(t *testing.T) {
	// 127 elements: 15 full float64 groups plus a 7-element tail.
	xs := make([]float64, 127)
	for i := range xs {
		xs[i] = float64(i) * 0.125
	}

	var want float64
	for _, x := range xs {
		want += x
	}

	// Eighths sum exactly, so grouped and serial agree bit for bit here.
	assert.Equal(t, want, Sum(xs))
}

func TestNaNSum(t *testing.T) {
	xs := []float64{1, math.NaN(), 2, math.NaN(), 3}

	assert.True(t, math.IsNaN(Sum(xs)))
	assert.Equal(t, 6.0, NaNSum(xs))
}

func TestMinMax(t *testing.T) {
	assert.Equal(t, int64(-7), Min([]int64{3, -7, 5}))
	assert.Equal(t, int64(5), Max([]int64{3, -7, 5}))

	assert.True(t, math.IsNaN(Min([]float64{1, math.NaN(), 0})))
	assert.True(t, math.IsNaN(Max([]float64{1, math.NaN(), 0})))
}

func TestBoolReductions(t *testing.T) {
	assert.True(t, Any([]bool{false, true}))
	assert.False(t, Any([]bool{false, false}))
	assert.False(t, Any(nil))

	assert.True(t, All([]bool{true, true}))
	assert.False(t, All([]bool{true, false}))
	assert.True(t, All(nil))

	assert.Equal(t, int64(2), PopCount([]bool{true, false, true}))
}
