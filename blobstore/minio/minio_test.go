package minio

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cubego/blobstore"
)

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	bucket := "test-cubego"

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)

	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "it/")

	t.Run("CreateAndRead", func(t *testing.T) {
		w, err := store.Create(ctx, "blob")
		require.NoError(t, err)

		_, err = w.Write([]byte("hello minio"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		blob, err := store.Open(ctx, "blob")
		require.NoError(t, err)
		assert.Equal(t, int64(11), blob.Size())

		rc, err := blob.ReadRange(ctx, 6, 5)
		require.NoError(t, err)

		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, "minio", string(got))

		require.NoError(t, blob.Close())
		require.NoError(t, store.Delete(ctx, "blob"))
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := store.Open(ctx, "does-not-exist")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})
}
