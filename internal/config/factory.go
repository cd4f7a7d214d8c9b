package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/corrmin"
	"github.com/hupe1980/corrmin/archive"
	"github.com/hupe1980/corrmin/archive/dynamodb"
	"github.com/hupe1980/corrmin/archive/sqlite"
	"github.com/hupe1980/corrmin/blobstore"
	"github.com/hupe1980/corrmin/blobstore/minio"
	"github.com/hupe1980/corrmin/blobstore/s3"
	"github.com/hupe1980/corrmin/codec"
)

// NewBlobStore opens the configured catalog store.
func NewBlobStore(ctx context.Context, cfg StoreConfig) (blobstore.BlobStore, error) {
	switch cfg.Backend {
	case "", "local":
		return blobstore.NewLocalStore(cfg.Root), nil
	case "memory":
		return blobstore.NewMemoryStore(), nil
	case "minio":
		client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		return minio.NewStore(client, cfg.Bucket, cfg.Prefix), nil
	case "s3":
		opts := []s3.Option{s3.WithPrefix(cfg.Prefix)}
		if cfg.Region != "" {
			opts = append(opts, s3.WithRegion(cfg.Region))
		}
		return s3.New(ctx, cfg.Bucket, opts...)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Backend)
	}
}

// NewArchive opens the configured archive. Blob archives share store.
// It returns nil when archiving is disabled.
func NewArchive(ctx context.Context, cfg ArchiveConfig, store blobstore.BlobStore) (archive.Store, error) {
	c, err := Codec(cfg.Codec)
	if err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case "", "blob":
		return archive.NewBlobArchive(store, c), nil
	case "sqlite":
		s := sqlite.NewStore(cfg.Path, c)
		if err := s.Init(ctx); err != nil {
			return nil, err
		}
		return s, nil
	case "dynamodb":
		s, err := dynamodb.New(ctx, cfg.Table,
			dynamodb.WithRegion(cfg.Region),
			dynamodb.WithArchive(cfg.Name),
			dynamodb.WithCodec(c),
		)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported archive backend: %s", cfg.Backend)
	}
}

// Codec resolves a codec name. The empty name selects codec.Default.
func Codec(name string) (codec.Codec, error) {
	if name == "" {
		return codec.Default, nil
	}
	c, ok := codec.ByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q (have %v)", name, codec.Names())
	}
	return c, nil
}

// NewLogger builds the logger described by cfg, writing to w.
func NewLogger(cfg LogConfig, w io.Writer) *corrmin.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return corrmin.NewLogger(slog.NewJSONHandler(w, opts))
	}
	return corrmin.NewLogger(slog.NewTextHandler(w, opts))
}

// Options returns the Finder options for cfg. arch may be nil.
func (c *Config) Options(arch archive.Store, logger *corrmin.Logger, mc corrmin.MetricsCollector) []corrmin.Option {
	opts := []corrmin.Option{
		corrmin.WithLogger(logger),
		corrmin.WithSegmentCapacity(c.Catalog.SegmentCapacity),
		corrmin.WithCompression(c.Catalog.Compression),
		corrmin.WithSegmentCache(c.Catalog.CacheBytes),
		corrmin.WithK(c.Search.K),
		corrmin.WithResourceConfig(c.Resources),
	}
	if arch != nil {
		opts = append(opts, corrmin.WithArchive(arch))
	}
	if mc != nil {
		opts = append(opts, corrmin.WithMetricsCollector(mc))
	}
	return opts
}

// Query returns the search described by cfg.
func (c *Config) Query() corrmin.Query {
	return corrmin.Query{
		Reference: c.Search.Reference,
		Deformed:  c.Search.Deformed,
		PhaseRef:  c.Search.PhaseRef,
		PhaseDef:  c.Search.PhaseDef,
		Bound:     c.Search.Bound,
	}
}
