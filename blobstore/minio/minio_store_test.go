package minio

import (
	"context"
	"io"
	"testing"

	"github.com/hupe1980/corrmin/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping MinIO integration test in short mode")
	}

	endpoint := "localhost:9000"
	bucket := "test-corrmin"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	if _, err = client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "test-prefix/")

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "d1/det1-000000.seg", data))

	blob, err := store.Open(ctx, "d1/det1-000000.seg")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	assert.Equal(t, "minio", string(buf))

	r, err := blob.ReadRange(ctx, 12, 100)
	require.NoError(t, err)
	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "world", string(rest))

	w, err := store.Create(ctx, "d1/MANIFEST")
	require.NoError(t, err)
	_, err = w.Write([]byte(`{"bound":1}`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	names, err := store.List(ctx, "d1/")
	require.NoError(t, err)
	assert.Equal(t, []string{"d1/MANIFEST", "d1/det1-000000.seg"}, names)

	got, err := blobstore.ReadAll(ctx, store, "d1/MANIFEST")
	require.NoError(t, err)
	assert.Equal(t, `{"bound":1}`, string(got))

	require.NoError(t, store.Delete(ctx, "d1/det1-000000.seg"))
	require.NoError(t, store.Delete(ctx, "d1/MANIFEST"))
	require.NoError(t, store.Delete(ctx, "d1/MANIFEST"))

	_, err = store.Open(ctx, "d1/MANIFEST")
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}
