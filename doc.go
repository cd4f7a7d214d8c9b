// Package corrmin finds the integer correspondence matrices that best
// describe how one crystal lattice turns into another in a phase transition.
//
// A search enumerates every 3×3 integer matrix with entries in [-bound, bound]
// whose determinant is an integer between 1 and 8, groups them into a catalog
// of determinant buckets, and evaluates every pair of reference and deformed
// candidates with a strain distance. The k pairs with the lowest distance are
// returned, together with the cells the best pair produces.
//
// # Quick Start
//
//	ctx := context.Background()
//	f, _ := corrmin.New(blobstore.NewLocalStore("./catalog"))
//	res, _ := f.Search(ctx, corrmin.Query{
//	    Reference: lattice.Cell{A: 5, B: 5, C: 5, Alpha: 90, Beta: 90, Gamma: 90},
//	    Deformed:  lattice.Cell{A: 5, B: 5, C: 5, Alpha: 90, Beta: 90, Gamma: 90},
//	    PhaseRef:  1,
//	    PhaseDef:  1,
//	})
//	fmt.Println(res.Best().Distance) // 0
//
// # Catalogs
//
// Catalogs are generated on first use for a bound and stored in a
// blobstore.BlobStore as compressed segments:
//
//	d{bound}/det{k}-{segment}.seg
//	d{bound}/MANIFEST
//
// The manifest is written last and marks the catalog complete. A catalog
// without a readable manifest is purged and regenerated. Catalogs can live on
// local disk, in memory, in MinIO (blobstore/minio) or in Amazon S3
// (blobstore/s3):
//
//	s3Store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("catalogs/"))
//	f, _ := corrmin.New(s3Store)
//
// # Archiving
//
// With WithArchive every finished search is appended to an archive.Store.
// Record IDs grow monotonically and are never reused:
//
//	arch, _ := sqlite.NewStore("results.db", codec.Default)
//	f, _ := corrmin.New(store, corrmin.WithArchive(arch))
package corrmin
