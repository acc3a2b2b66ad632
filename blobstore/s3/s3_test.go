package s3

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cubego/blobstore"
	"github.com/hupe1980/cubego/cube"
)

func TestIntegration_S3Store(t *testing.T) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		t.Skip("Skipping S3 integration test: S3_BUCKET not set")
	}

	ctx := context.Background()

	cfg, err := config.LoadDefaultConfig(ctx)
	require.NoError(t, err)

	client := s3.NewFromConfig(cfg)

	// Unique prefix per run so parallel CI jobs do not collide.
	prefix := fmt.Sprintf("test-cubego-%d/", time.Now().UnixNano())
	store := NewStore(client, bucket, prefix)

	t.Run("CreateAndRead", func(t *testing.T) {
		name := "test.blob"
		data := make([]byte, 1<<20)
		_, err := rand.Read(data)
		require.NoError(t, err)

		w, err := store.Create(ctx, name)
		require.NoError(t, err)

		n, err := w.Write(data)
		require.NoError(t, err)
		assert.Equal(t, len(data), n)
		require.NoError(t, w.Close())

		names, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Contains(t, names, name)

		blob, err := store.Open(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, int64(len(data)), blob.Size())

		buf := make([]byte, 100)
		_, err = blob.ReadAt(ctx, buf, 512)
		require.NoError(t, err)
		assert.Equal(t, data[512:612], buf)

		rc, err := blob.ReadRange(ctx, int64(len(data))-64, 64)
		require.NoError(t, err)

		tail, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, data[len(data)-64:], tail)

		require.NoError(t, blob.Close())
		require.NoError(t, store.Delete(ctx, name))
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := store.Open(ctx, "does-not-exist")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})

	t.Run("CubeSnapshot", func(t *testing.T) {
		dims := []cube.Dimension{cube.NewDimension("x", 100)}

		src, err := cube.NewDense[float64](dims)
		require.NoError(t, err)

		for i := int64(0); i < 100; i++ {
			require.NoError(t, src.SetAt(i, float64(i)))
		}

		require.NoError(t, blobstore.SaveCube[float64](ctx, store, "cube.snap", src))
		defer func() { _ = store.Delete(ctx, "cube.snap") }()

		got, err := blobstore.LoadCube[float64](ctx, store, "cube.snap")
		require.NoError(t, err)
		assert.Equal(t, src.Shape(), got.Shape())

		v, err := got.GetAt(42)
		require.NoError(t, err)
		assert.Equal(t, 42.0, v)
	})
}
