package cubeio

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cubego/cube"
)

func TestWriteReadRoundtrip(t *testing.T) {
	d, err := cube.NewDense[float64](cube.Shape(3, 4))
	require.NoError(t, err)

	src := make([]float64, 12)
	for i := range src {
		src[i] = float64(i) * 1.5
	}
	src[5] = math.NaN()

	require.NoError(t, cube.FromSlice(d, src))

	var buf bytes.Buffer
	require.NoError(t, Write[float64](&buf, d))

	got, err := Read[float64](&buf)
	require.NoError(t, err)

	assert.Equal(t, d.Shape(), got.Shape())
	assert.Equal(t, d.Dimensions(), got.Dimensions())

	out, err := cube.ToSlice[float64](got)
	require.NoError(t, err)

	for i := range src {
		if math.IsNaN(src[i]) {
			assert.True(t, math.IsNaN(out[i]))
		} else {
			assert.Equal(t, src[i], out[i])
		}
	}
}

func TestWriteView(t *testing.T) {
	d, err := cube.NewDense[int64](cube.Shape(4))
	require.NoError(t, err)
	require.NoError(t, cube.FromSlice(d, []int64{1, 2, 3, 4}))

	// A view serializes its logical contents.
	var buf bytes.Buffer
	require.NoError(t, Write[int64](&buf, d.RollFlat(1)))

	got, err := Read[int64](&buf)
	require.NoError(t, err)

	out, err := cube.ToSlice[int64](got)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 1, 2, 3}, out)
}

func TestReadErrors(t *testing.T) {
	t.Run("bad magic", func(t *testing.T) {
		_, err := Read[float64](bytes.NewReader([]byte{0, 0, 0, 0, 1}))
		assert.ErrorIs(t, err, ErrBadMagic)
	})

	t.Run("dtype mismatch", func(t *testing.T) {
		d, err := cube.NewDense[int32](cube.Shape(2))
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, Write[int32](&buf, d))

		_, err = Read[float64](&buf)
		assert.ErrorIs(t, err, ErrDTypeMismatch)
	})

	t.Run("truncated", func(t *testing.T) {
		d, err := cube.NewDense[int32](cube.Shape(8))
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, Write[int32](&buf, d))

		_, err = Read[int32](bytes.NewReader(buf.Bytes()[:buf.Len()-4]))
		assert.Error(t, err)
	})
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.bin")

	d, err := cube.NewDense[bool](cube.Shape(2, 3))
	require.NoError(t, err)
	require.NoError(t, cube.FromSlice(d, []bool{true, false, true, true, false, false}))

	require.NoError(t, Save[bool](path, d))

	got, err := Load[bool](path)
	require.NoError(t, err)

	out, err := cube.ToSlice[bool](got)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true, true, false, false}, out)

	_, err = Load[bool](filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}

func TestWriteReadRange(t *testing.T) {
	src, err := cube.NewDense[int64](cube.Shape(10))
	require.NoError(t, err)

	for i := int64(0); i < 10; i++ {
		require.NoError(t, src.SetAt(i, i*i))
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRange[int64](&buf, src, 2, 5))
	assert.Equal(t, 5*8, buf.Len())

	dst, err := cube.NewDense[int64](cube.Shape(10))
	require.NoError(t, err)
	require.NoError(t, ReadRange[int64](&buf, dst, 4, 5))

	v, err := dst.GetAt(4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), v)

	v, err = dst.GetAt(8)
	require.NoError(t, err)
	assert.Equal(t, int64(36), v)

	// Untouched elements stay zero.
	v, err = dst.GetAt(0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)

	err = WriteRange[int64](&buf, src, 8, 5)
	assert.ErrorIs(t, err, cube.ErrIndexOutOfBounds)
}
