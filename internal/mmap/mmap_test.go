package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempFile(t *testing.T, size int64) *os.File {
	t.Helper()

	f, err := os.Create(filepath.Join(t.TempDir(), "mmap_test.bin"))
	require.NoError(t, err)
	require.NoError(t, f.Truncate(size))
	t.Cleanup(func() { f.Close() })

	return f
}

func TestMapFile_ReadWrite(t *testing.T) {
	f := tempFile(t, 4096)

	m, err := MapFile(f, 0, 4096)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 4096, m.Size())

	// Write through the mapping, sync, and verify via plain file reads.
	data := m.Bytes()
	copy(data, []byte("hypercube"))
	require.NoError(t, m.Sync())

	buf := make([]byte, 9)
	_, err = f.ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "hypercube", string(buf))
}

func TestMapFile_EmptyAndErrors(t *testing.T) {
	f := tempFile(t, 0)

	m, err := MapFile(f, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Size())
	assert.NoError(t, m.Sync())
	assert.NoError(t, m.Close())

	_, err = MapFile(f, 0, -1)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = MapFile(f, -4096, 16)
	assert.ErrorIs(t, err, ErrInvalidOffset)
}

func TestMapFile_CloseIdempotent(t *testing.T) {
	f := tempFile(t, 4096)

	m, err := MapFile(f, 0, 4096)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	assert.Nil(t, m.Bytes())
	assert.ErrorIs(t, m.Sync(), ErrClosed)
	assert.ErrorIs(t, m.Advise(AccessRandom), ErrClosed)
}

func TestMapFile_Advise(t *testing.T) {
	f := tempFile(t, 4096)

	m, err := MapFile(f, 0, 4096)
	require.NoError(t, err)
	defer m.Close()

	for _, p := range []AccessPattern{
		AccessDefault, AccessSequential, AccessRandom, AccessWillNeed, AccessDontNeed,
	} {
		assert.NoError(t, m.Advise(p))
	}
}
