package cube

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDense(t *testing.T) {
	t.Run("float starts null", func(t *testing.T) {
		d, err := NewDense[float64](Shape(2, 3))
		require.NoError(t, err)

		assert.Equal(t, int64(6), d.Size())
		assert.Equal(t, 2, d.NDim())
		assert.Equal(t, []int64{2, 3}, d.Shape())

		v, err := d.Get(1, 2)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(v))
	})

	t.Run("int starts zero", func(t *testing.T) {
		d, err := NewDense[int32](Shape(4))
		require.NoError(t, err)

		v, err := d.GetAt(3)
		require.NoError(t, err)
		assert.Equal(t, int32(0), v)
	})

	t.Run("no dimensions", func(t *testing.T) {
		_, err := NewDense[int64](nil)
		assert.ErrorIs(t, err, ErrDimensionality)
	})
}

func TestDenseGetSet(t *testing.T) {
	d, err := NewDense[int64](Shape(3, 4))
	require.NoError(t, err)

	require.NoError(t, d.Set(42, 2, 3))

	v, err := d.Get(2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	// Row-major: (2,3) is the last element.
	v, err = d.GetAt(11)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	_, err = d.Get(3, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)

	_, err = d.Get(0)
	assert.ErrorIs(t, err, ErrDimensionality)

	_, err = d.GetAt(12)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)
}

func TestDenseFlattenRoundtrip(t *testing.T) {
	d, err := NewDense[float64](Shape(4, 5))
	require.NoError(t, err)

	src := make([]float64, 20)
	for i := range src {
		src[i] = float64(i)
	}

	require.NoError(t, d.Unflatten(src, 0, 0, len(src)))

	dst := make([]float64, 20)
	require.NoError(t, d.Flatten(0, dst, 0, len(dst)))
	assert.Equal(t, src, dst)

	// Partial run with offsets into both the cube and the buffer.
	part := make([]float64, 10)
	require.NoError(t, d.Flatten(7, part, 2, 6))
	assert.Equal(t, []float64{7, 8, 9, 10, 11, 12}, part[2:8])

	assert.ErrorIs(t, d.Flatten(15, dst, 0, 6), ErrIndexOutOfBounds)
	assert.ErrorIs(t, d.Flatten(0, dst, 18, 6), ErrIndexOutOfBounds)
	assert.ErrorIs(t, d.Flatten(0, dst, 0, -1), ErrInvalidArgument)
}

func TestWrapDenseUndersized(t *testing.T) {
	// 2x3 cube over only 4 backing elements.
	backing := []int64{1, 2, 3, 4}

	d, err := WrapDense(backing, Shape(2, 3))
	require.NoError(t, err)

	// Coverage is flat: offset 3 still falls inside the backing slice even
	// though row 1 is only partially covered.
	v, err := d.Get(1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), v)

	v, err = d.Get(1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v, "past-the-end reads are null")

	// Past-the-end writes are dropped.
	require.NoError(t, d.Set(99, 1, 2))
	assert.Equal(t, []int64{1, 2, 3, 4}, backing)

	// In-range writes land in the wrapped slice.
	require.NoError(t, d.Set(7, 0, 1))
	assert.Equal(t, int64(7), backing[1])

	// Bulk reads null-fill the uncovered tail.
	dst := make([]int64, 6)
	require.NoError(t, d.Flatten(0, dst, 0, 6))
	assert.Equal(t, []int64{1, 7, 3, 4, 0, 0}, dst)

	// Bulk writes clip at the end of the backing slice.
	require.NoError(t, d.Unflatten([]int64{10, 20, 30}, 0, 3, 3))
	assert.Equal(t, []int64{1, 7, 3, 10}, backing)
}

func TestWrapDenseUndersizedFloatReadsNaN(t *testing.T) {
	d, err := WrapDense([]float64{1}, Shape(3))
	require.NoError(t, err)

	v, err := d.GetAt(2)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))
}

func TestDenseFromNested(t *testing.T) {
	d, err := DenseFromNested[float64]([][]float64{
		{1, 2, 3},
		{4, 5, 6},
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{2, 3}, d.Shape())

	v, err := d.Get(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	_, err = DenseFromNested[float64]("nope")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// Element type of the nesting must match T.
	_, err = DenseFromNested[float64]([][]int32{{1, 2}})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorContains(t, err, "float64")
}

func TestDenseFillAndCopy(t *testing.T) {
	d, err := NewDense[int16](Shape(3, 3))
	require.NoError(t, err)

	d.Fill(7)

	v, err := d.GetAt(8)
	require.NoError(t, err)
	assert.Equal(t, int16(7), v)

	other, err := NewDense[int16](Shape(3, 3))
	require.NoError(t, err)
	require.NoError(t, other.CopyFrom(d))

	got, err := ToSlice[int16](other)
	require.NoError(t, err)
	for _, x := range got {
		assert.Equal(t, int16(7), x)
	}

	bad, err := NewDense[int16](Shape(2, 3))
	require.NoError(t, err)
	assert.ErrorIs(t, bad.CopyFrom(d), ErrDimensionality)
}

func TestCloneAndSlices(t *testing.T) {
	d, err := NewDense[int64](Shape(2, 2))
	require.NoError(t, err)
	require.NoError(t, FromSlice[int64](d, []int64{1, 2, 3, 4}))

	c, err := Clone[int64](d)
	require.NoError(t, err)

	require.NoError(t, d.SetAt(0, 99))

	got, err := ToSlice[int64](c)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, got, "clone is independent")

	assert.ErrorIs(t, FromSlice[int64](d, []int64{1}), ErrDimensionality)
}
