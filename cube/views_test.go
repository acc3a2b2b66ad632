package cube

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// iota3x4 returns a 3x4 dense cube holding 0..11 row-major.
func iota3x4(t *testing.T) *Dense[int64] {
	t.Helper()

	d, err := NewDense[int64](Shape(3, 4))
	require.NoError(t, err)

	src := make([]int64, 12)
	for i := range src {
		src[i] = int64(i)
	}

	require.NoError(t, FromSlice(d, src))

	return d
}

func TestSliceWindow(t *testing.T) {
	d := iota3x4(t)
	dims := d.Dimensions()

	v, err := d.Slice(dims[0].Slice(1, 3), dims[1].Slice(1, 3))
	require.NoError(t, err)

	assert.Equal(t, []int64{2, 2}, v.Shape())

	got, err := ToSlice(v)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6, 9, 10}, got)

	// Writes through the view land in the wrapped cube.
	require.NoError(t, v.Set(-1, 0, 0))

	w, err := d.Get(1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), w)
}

func TestSlicePinnedAxis(t *testing.T) {
	d := iota3x4(t)
	dims := d.Dimensions()

	// Pinning the first axis drops it.
	v, err := d.Slice(dims[0].At(2))
	require.NoError(t, err)

	assert.Equal(t, 1, v.NDim())
	assert.Equal(t, []int64{4}, v.Shape())

	got, err := ToSlice(v)
	require.NoError(t, err)
	assert.Equal(t, []int64{8, 9, 10, 11}, got)

	// Pinning every axis is rejected.
	_, err = d.Slice(dims[0].At(0), dims[1].At(0))
	assert.ErrorIs(t, err, ErrDimensionality)
}

func TestSliceErrors(t *testing.T) {
	d := iota3x4(t)
	dims := d.Dimensions()

	_, err := d.Slice(dims[0].Slice(0, 4))
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)

	_, err = d.Slice(dims[1].At(4))
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)

	_, err = d.Slice(NewDimension("nope", 7).Slice(0, 1))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSliceUnconstrainedReturnsCube(t *testing.T) {
	d := iota3x4(t)

	v, err := d.Slice()
	require.NoError(t, err)
	assert.Same(t, Hypercube[int64](d), v)
}

func TestSliceOfSliceFolds(t *testing.T) {
	d := iota3x4(t)
	dims := d.Dimensions()

	v, err := d.Slice(dims[0].Slice(1, 3), dims[1].Slice(1, 4))
	require.NoError(t, err)

	vdims := v.Dimensions()
	v2, err := v.Slice(vdims[0].At(1), vdims[1].Slice(1, 3))
	require.NoError(t, err)

	got, err := ToSlice(v2)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11}, got)

	// The composed view folds its offsets instead of stacking a second
	// indirection over the first slice.
	sv, ok := v2.(*slicedCube[int64])
	require.True(t, ok)
	assert.Same(t, Hypercube[int64](d), sv.wrapped)

	// Writes resolve through the folded offsets.
	require.NoError(t, v2.Set(-5, 1))

	w, err := d.Get(2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), w)
}

func TestRoll(t *testing.T) {
	d := iota3x4(t)
	dims := d.Dimensions()

	v, err := d.Roll(dims[1].Roll(1))
	require.NoError(t, err)

	got, err := ToSlice(v)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 0, 1, 2, 7, 4, 5, 6, 11, 8, 9, 10}, got)

	_, err = d.Roll(dims[0].Roll(-1))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRollComposition(t *testing.T) {
	d := iota3x4(t)
	dims := d.Dimensions()

	once, err := d.Roll(dims[1].Roll(1))
	require.NoError(t, err)

	// Rolling a rolled cube folds the shifts.
	thrice, err := once.Roll(dims[1].Roll(2))
	require.NoError(t, err)

	direct, err := d.Roll(dims[1].Roll(3))
	require.NoError(t, err)

	a, err := ToSlice(thrice)
	require.NoError(t, err)

	b, err := ToSlice(direct)
	require.NoError(t, err)
	assert.Equal(t, b, a)

	// A net-zero roll returns the wrapped cube itself.
	back, err := once.Roll(dims[1].Roll(3))
	require.NoError(t, err)
	assert.Same(t, Hypercube[int64](d), back)
}

func TestRollFlat(t *testing.T) {
	d := iota3x4(t)

	v := d.RollFlat(5)

	got, err := ToSlice(v)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8, 9, 10, 11, 0, 1, 2, 3, 4, 5, 6}, got)

	// Negative shifts normalize.
	neg := d.RollFlat(-7)

	got2, err := ToSlice(neg)
	require.NoError(t, err)
	assert.Equal(t, got, got2)

	// Flat-rolling back folds to the original cube.
	assert.Same(t, Hypercube[int64](d), v.RollFlat(7))
	assert.Same(t, Hypercube[int64](d), d.RollFlat(0))
	assert.Same(t, Hypercube[int64](d), d.RollFlat(12))
}

func TestTranspose(t *testing.T) {
	d := iota3x4(t)

	v := d.Transpose()
	assert.Equal(t, []int64{4, 3}, v.Shape())

	got, err := v.Get(3, 2)
	require.NoError(t, err)

	want, err := d.Get(2, 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// The transpose is cached and undoes itself.
	assert.Same(t, v, d.Transpose())
	assert.Same(t, Hypercube[int64](d), v.Transpose())

	ts, err := ToSlice(v)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 4, 8, 1, 5, 9, 2, 6, 10, 3, 7, 11}, ts)
}

func TestMask(t *testing.T) {
	d := iota3x4(t)

	mask := roaring64.New()
	mask.Add(0)
	mask.Add(2)
	mask.Add(17) // beyond the axis, ignored

	v, err := d.Mask(mask)
	require.NoError(t, err)

	assert.Equal(t, []int64{2, 4}, v.Shape())

	got, err := ToSlice(v)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1, 2, 3, 8, 9, 10, 11}, got)

	// Writes pass through to the selected rows.
	require.NoError(t, v.Set(-5, 1, 0))

	w, err := d.Get(2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), w)

	_, err = d.Mask(nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestMaskBools(t *testing.T) {
	d := iota3x4(t)

	v, err := d.Mask(MaskBools([]bool{true, false, true}))
	require.NoError(t, err)
	assert.Equal(t, int64(8), v.Size())
}

func TestCast(t *testing.T) {
	d := iota3x4(t)

	f, err := Cast[int64, float64](d)
	require.NoError(t, err)

	got, err := f.Get(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got)

	// Writes convert back, clamping instead of wrapping.
	require.NoError(t, f.Set(3.7, 0, 0))

	w, err := d.Get(0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), w)

	// NaN converts to the integer null.
	require.NoError(t, f.Set(math.NaN(), 0, 1))

	w, err = d.Get(0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), w)

	// Casting to the same element type is the identity.
	same, err := Cast[int64, int64](d)
	require.NoError(t, err)
	assert.Same(t, Hypercube[int64](d), same)
}

func TestConvertClamps(t *testing.T) {
	// Out-of-range values saturate at the destination's bounds.
	assert.Equal(t, int8(127), Convert[float64, int8](300))
	assert.Equal(t, int8(-128), Convert[float64, int8](-300))
	assert.Equal(t, int8(127), Convert[int64, int8](300))
	assert.Equal(t, int8(-128), Convert[int64, int8](-300))
	assert.Equal(t, int16(32767), Convert[int64, int16](1<<20))
	assert.Equal(t, int32(math.MinInt32), Convert[int64, int32](math.MinInt64+1))
	assert.Equal(t, int64(math.MaxInt64), Convert[float64, int64](1e300))

	// In-range values convert exactly.
	assert.Equal(t, int8(42), Convert[int64, int8](42))
	assert.Equal(t, int16(-7), Convert[float64, int16](-7))
}

func TestCastBulk(t *testing.T) {
	d := iota3x4(t)

	f, err := Cast[int64, float32](d)
	require.NoError(t, err)

	dst := make([]float32, 12)
	require.NoError(t, f.Flatten(0, dst, 0, 12))
	assert.Equal(t, float32(11), dst[11])

	require.NoError(t, f.Unflatten([]float32{9.9}, 0, 0, 1))

	w, err := d.GetAt(0)
	require.NoError(t, err)
	assert.Equal(t, int64(9), w)
}

// TestViewFlattenMatchesElementwise cross-checks every view's chunked bulk
// path against elementwise reads, over both dense and sparse storage.
func TestViewFlattenMatchesElementwise(t *testing.T) {
	build := func(t *testing.T, sparse bool) Hypercube[float64] {
		var (
			c   Hypercube[float64]
			err error
		)

		if sparse {
			c, err = NewSparse[float64](Shape(4, 3, 5))
		} else {
			c, err = NewDense[float64](Shape(4, 3, 5))
		}
		require.NoError(t, err)

		for i := int64(0); i < c.Size(); i++ {
			require.NoError(t, c.SetAt(i, float64(i)))
		}

		return c
	}

	views := func(c Hypercube[float64]) map[string]Hypercube[float64] {
		dims := c.Dimensions()

		sliced, err := c.Slice(dims[0].Slice(1, 4), dims[2].Slice(0, 3))
		require.NoError(t, err)

		rolled, err := c.Roll(dims[0].Roll(2), dims[2].Roll(3))
		require.NoError(t, err)

		masked, err := c.Mask(MaskBools([]bool{true, false, true, true}))
		require.NoError(t, err)

		return map[string]Hypercube[float64]{
			"sliced":     sliced,
			"rolled":     rolled,
			"flatrolled": c.RollFlat(11),
			"transposed": c.Transpose(),
			"masked":     masked,
		}
	}

	for _, sparse := range []bool{false, true} {
		c := build(t, sparse)

		for name, v := range views(c) {
			t.Run(name, func(t *testing.T) {
				want := make([]float64, v.Size())
				for i := range want {
					x, err := v.GetAt(int64(i))
					require.NoError(t, err)
					want[i] = x
				}

				// Whole-cube bulk read.
				got := make([]float64, v.Size())
				require.NoError(t, v.Flatten(0, got, 0, len(got)))
				assert.Equal(t, want, got)

				// Offset partial read crossing chunk boundaries.
				part := make([]float64, v.Size()-3)
				require.NoError(t, v.Flatten(2, part, 0, len(part)))
				assert.Equal(t, want[2:2+len(part)], part)
			})
		}
	}
}

// TestViewUnflattenRoundtrip writes through each view in bulk and reads the
// values back elementwise.
func TestViewUnflattenRoundtrip(t *testing.T) {
	c, err := NewDense[float64](Shape(4, 3, 5))
	require.NoError(t, err)

	dims := c.Dimensions()

	sliced, err := c.Slice(dims[1].Slice(1, 3))
	require.NoError(t, err)

	rolled, err := c.Roll(dims[2].Roll(2))
	require.NoError(t, err)

	masked, err := c.Mask(MaskBools([]bool{false, true, true, true}))
	require.NoError(t, err)

	for name, v := range map[string]Hypercube[float64]{
		"sliced":     sliced,
		"rolled":     rolled,
		"flatrolled": c.RollFlat(7),
		"transposed": c.Transpose(),
		"masked":     masked,
	} {
		t.Run(name, func(t *testing.T) {
			src := make([]float64, v.Size())
			for i := range src {
				src[i] = float64(i) + 0.25
			}

			require.NoError(t, v.Unflatten(src, 0, 0, len(src)))

			for i := range src {
				got, err := v.GetAt(int64(i))
				require.NoError(t, err)
				assert.Equal(t, src[i], got)
			}
		})
	}
}
