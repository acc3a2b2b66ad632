package cube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstant(t *testing.T) {
	c, err := Constant(7.5, Shape(3, 4))
	require.NoError(t, err)
	assert.Equal(t, int64(12), c.Size())
	assert.False(t, c.Flags().Writeable)

	v, err := c.Get(2, 3)
	require.NoError(t, err)
	assert.Equal(t, 7.5, v)

	_, err = c.GetAt(12)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)

	// Writes are dropped.
	require.NoError(t, c.SetAt(0, 99))

	v, err = c.GetAt(0)
	require.NoError(t, err)
	assert.Equal(t, 7.5, v)

	buf := make([]float64, 5)
	require.NoError(t, c.Flatten(4, buf, 0, 5))
	assert.Equal(t, []float64{7.5, 7.5, 7.5, 7.5, 7.5}, buf)
}

func TestConstantViews(t *testing.T) {
	c, err := Constant(int64(3), Shape(4, 4))
	require.NoError(t, err)

	v := c.Transpose()

	got, err := v.GetAt(9)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)
}

func TestNewLike(t *testing.T) {
	src, err := Constant(int32(1), Shape(2, 5))
	require.NoError(t, err)

	d, err := NewLike(src)
	require.NoError(t, err)
	assert.Equal(t, src.Shape(), d.Shape())

	got, err := d.GetAt(0)
	require.NoError(t, err)
	assert.Equal(t, int32(0), got)

	_, err = NewLike[int32](nil)
	assert.ErrorIs(t, err, ErrNilCube)
}
