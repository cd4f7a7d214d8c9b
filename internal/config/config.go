// Package config loads corrmin run files.
//
// A run file is YAML:
//
//	store:
//	  backend: local        # local | memory | minio | s3
//	  root: ./catalog
//	archive:
//	  backend: sqlite       # blob | sqlite | dynamodb | none
//	  path: ./results.db    # sqlite
//	  table: corrmin-records # dynamodb
//	  codec: msgpack
//	catalog:
//	  segment_capacity: 100000
//	  compression: lz4
//	  cache_bytes: 268435456
//	search:
//	  reference: {a: 7.381, b: 11.755, c: 15.94, alpha: 102.912, beta: 92.025, gamma: 100.595}
//	  deformed:  {a: 6.0552, b: 7.0297, c: 15.969, alpha: 96.315, beta: 93.979, gamma: 90.279}
//	  phase_ref: 1
//	  phase_def: 1
//	  k: 3
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/corrmin/internal/resource"
	"github.com/hupe1980/corrmin/lattice"
)

var validate = validator.New()

// Config is a complete run file.
type Config struct {
	Store     StoreConfig     `yaml:"store"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Search    SearchConfig    `yaml:"search"`
	Resources resource.Config `yaml:"resources"`
	Log       LogConfig       `yaml:"log"`
}

// StoreConfig selects the blob store holding catalogs (and blob archives).
type StoreConfig struct {
	Backend string `yaml:"backend" validate:"oneof=local memory minio s3"`
	Root    string `yaml:"root" validate:"required_if=Backend local"`

	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
	Region string `yaml:"region"`

	// MinIO connection. Credentials undergo environment expansion.
	Endpoint  string `yaml:"endpoint" validate:"required_if=Backend minio"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// ArchiveConfig selects where search records go.
type ArchiveConfig struct {
	Backend string `yaml:"backend" validate:"oneof=blob sqlite dynamodb none"`
	Path    string `yaml:"path" validate:"required_if=Backend sqlite"`
	Codec   string `yaml:"codec" validate:"omitempty,oneof=json go-json msgpack"`

	// Table, Region and Name select the DynamoDB table, its region and the
	// partition key of this archive inside the table.
	Table  string `yaml:"table" validate:"required_if=Backend dynamodb"`
	Region string `yaml:"region"`
	Name   string `yaml:"name"`
}

// CatalogConfig controls newly generated catalogs.
type CatalogConfig struct {
	SegmentCapacity int    `yaml:"segment_capacity" validate:"gte=0"`
	Compression     string `yaml:"compression" validate:"omitempty,oneof=lz4 zstd none raw"`
	CacheBytes      int64  `yaml:"cache_bytes" validate:"gte=0"`
}

// SearchConfig describes the lattices to match.
type SearchConfig struct {
	Reference lattice.Cell `yaml:"reference" validate:"-"`
	Deformed  lattice.Cell `yaml:"deformed" validate:"-"`
	PhaseRef  int          `yaml:"phase_ref" validate:"gt=0"`
	PhaseDef  int          `yaml:"phase_def" validate:"gt=0"`
	Bound     int          `yaml:"bound" validate:"gte=0,lte=63"`
	K         int          `yaml:"k" validate:"gt=0"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the configuration used for omitted fields.
func Default() Config {
	return Config{
		Store:   StoreConfig{Backend: "local", Root: "./catalog"},
		Archive: ArchiveConfig{Backend: "blob", Codec: "go-json"},
		Search:  SearchConfig{PhaseRef: 1, PhaseDef: 1, K: 3},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads and validates the run file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a run file over Default and validates it. Unknown keys are
// rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.Store.AccessKey = os.ExpandEnv(cfg.Store.AccessKey)
	cfg.Store.SecretKey = os.ExpandEnv(cfg.Store.SecretKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if (c.Store.Backend == "minio" || c.Store.Backend == "s3") && c.Store.Bucket == "" {
		return fmt.Errorf("invalid config: store backend %s requires a bucket", c.Store.Backend)
	}

	// Cells are optional for generate and show; a cell that is given must be complete.
	for _, cell := range []struct {
		name string
		cell lattice.Cell
	}{
		{"reference", c.Search.Reference},
		{"deformed", c.Search.Deformed},
	} {
		if cell.cell == (lattice.Cell{}) {
			continue
		}
		if err := validate.Struct(cell.cell); err != nil {
			return fmt.Errorf("invalid config: search.%s: %w", cell.name, err)
		}
	}
	return nil
}

// HasQuery reports whether the search section names two cells.
func (c *Config) HasQuery() bool {
	return c.Search.Reference != (lattice.Cell{}) && c.Search.Deformed != (lattice.Cell{})
}
