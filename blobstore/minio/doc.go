// Package minio provides a BlobStore implementation using the MinIO client.
//
// It lets a matrix catalog and the result archive live in any S3-compatible
// object store (MinIO, Ceph, Garage, SeaweedFS) without the AWS SDK.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "corrmin", "catalog/")
//	finder, err := corrmin.New(store)
//
// Blobs written through Create are buffered and uploaded on Close, so a
// segment appears in the bucket whole or not at all.
package minio
