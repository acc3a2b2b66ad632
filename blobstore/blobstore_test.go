package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cubego/resource"
)

// storeContract exercises the behavior every Store must share.
func storeContract(t *testing.T, s Store) {
	t.Helper()

	ctx := context.Background()

	_, err := s.Open(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "a/one", []byte("hello")))
	require.NoError(t, s.Put(ctx, "a/two", []byte("world!")))
	require.NoError(t, s.Put(ctx, "b/three", []byte("x")))

	names, err := s.List(ctx, "a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/one", "a/two"}, names)

	blob, err := s.Open(ctx, "a/two")
	require.NoError(t, err)
	assert.Equal(t, int64(6), blob.Size())

	buf := make([]byte, 3)
	n, err := blob.ReadAt(ctx, buf, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "rld", string(buf))

	// Short read at the end reports EOF.
	n, err = blob.ReadAt(ctx, buf, 4)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.EOF)

	rc, err := blob.ReadRange(ctx, 1, 100)
	require.NoError(t, err)

	rest, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "orld!", string(rest))

	require.NoError(t, blob.Close())

	// Streaming create.
	w, err := s.Create(ctx, "c/four")
	require.NoError(t, err)

	_, err = w.Write([]byte("chunk1"))
	require.NoError(t, err)
	_, err = w.Write([]byte("chunk2"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	blob, err = s.Open(ctx, "c/four")
	require.NoError(t, err)

	all := make([]byte, blob.Size())
	_, err = blob.ReadAt(ctx, all, 0)
	require.NoError(t, err)
	assert.Equal(t, "chunk1chunk2", string(all))
	require.NoError(t, blob.Close())

	require.NoError(t, s.Delete(ctx, "a/one"))
	require.NoError(t, s.Delete(ctx, "a/one"), "double delete is fine")

	_, err = s.Open(ctx, "a/one")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestLocalStore(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	storeContract(t, s)
}

func TestCachingStore(t *testing.T) {
	inner := NewMemoryStore()

	s, err := NewCachingStore(inner, 1<<20)
	require.NoError(t, err)

	storeContract(t, s)
}

func TestThrottledStore(t *testing.T) {
	ctrl := resource.NewController(resource.Limits{
		MaxFlushWorkers:       2,
		ThroughputBytesPerSec: 1 << 20,
	})

	storeContract(t, NewThrottledStore(NewMemoryStore(), ctrl))
}

func TestThrottledStoreWorkerSlots(t *testing.T) {
	ctx := context.Background()
	ctrl := resource.NewController(resource.Limits{MaxFlushWorkers: 1})
	s := NewThrottledStore(NewMemoryStore(), ctrl)

	w, err := s.Create(ctx, "one")
	require.NoError(t, err)
	assert.False(t, ctrl.TryAcquireWorker(), "open handle holds the slot")

	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "double close releases once")

	assert.True(t, ctrl.TryAcquireWorker())
	ctrl.ReleaseWorker()
}

func TestCachingStoreEviction(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()

	s, err := NewCachingStore(inner, 8)
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "a", []byte("aaaa")))
	require.NoError(t, s.Put(ctx, "b", []byte("bbbb")))
	require.NoError(t, s.Put(ctx, "c", []byte("cccc")))

	for _, name := range []string{"a", "b", "c"} {
		blob, err := s.Open(ctx, name)
		require.NoError(t, err)
		require.NoError(t, blob.Close())
	}

	s.mu.Lock()
	cached := len(s.blobs)
	size := s.bytes
	s.mu.Unlock()

	assert.LessOrEqual(t, size, int64(8))
	assert.Equal(t, 2, cached)

	// Stale data must not survive an overwrite.
	require.NoError(t, s.Put(ctx, "c", []byte("CCCC")))

	blob, err := s.Open(ctx, "c")
	require.NoError(t, err)

	buf := make([]byte, 4)
	_, err = blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "CCCC", string(buf))
	require.NoError(t, blob.Close())
}

func TestCachingStoreOversizedBlob(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()

	s, err := NewCachingStore(inner, 4)
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "big", []byte("0123456789")))

	blob, err := s.Open(ctx, "big")
	require.NoError(t, err)
	assert.Equal(t, int64(10), blob.Size())
	require.NoError(t, blob.Close())

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Empty(t, s.blobs, "blobs over capacity bypass the cache")
}
