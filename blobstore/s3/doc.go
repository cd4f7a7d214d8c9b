// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("catalog/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	finder, err := corrmin.New(store)
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads for large segments via the transfer manager
//   - Automatic pagination for listing
//   - Configurable prefix so several catalogs can share a bucket
package s3
