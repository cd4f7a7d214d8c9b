package commands

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/hupe1980/corrmin"
	"github.com/hupe1980/corrmin/archive"
	"github.com/hupe1980/corrmin/blobstore"
	"github.com/hupe1980/corrmin/internal/config"
)

// globalOptions holds the persistent flags.
type globalOptions struct {
	configPath string
	root       string
	verbose    bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	o := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "corrmin",
		Short: "Find lattice correspondence matrices with minimal strain",
		Long: `corrmin - correspondence matrices for solid-solid phase transitions.

A search enumerates integer matrices with entries in [-bound, bound] and
determinant 1..8, stores them as a catalog, and scores every pair of
reference and deformed candidates by the strain they imply.

Example run file (run.yaml):
  store:
    backend: local
    root: ./catalog
  archive:
    backend: sqlite
    path: ./results.db
  search:
    reference: {a: 7.381, b: 11.755, c: 15.94, alpha: 102.912, beta: 92.025, gamma: 100.595}
    deformed:  {a: 6.0552, b: 7.0297, c: 15.969, alpha: 96.315, beta: 93.979, gamma: 90.279}
    phase_ref: 4
    phase_def: 2

Examples:
  corrmin generate --bound 2 --root ./catalog
  corrmin search -c run.yaml --metrics-file corrmin.prom
  corrmin show -c run.yaml
  corrmin show 3 -c run.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "run file (YAML)")
	cmd.PersistentFlags().StringVar(&o.root, "root", "", "local catalog directory (overrides the run file store)")
	cmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(
		newGenerateCmd(o),
		newSearchCmd(o),
		newShowCmd(o),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// load reads the run file, or the defaults when none is given, and applies
// flag overrides.
func (o *globalOptions) load() (*config.Config, error) {
	var cfg *config.Config
	if o.configPath == "" {
		d := config.Default()
		cfg = &d
	} else {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}

	if o.root != "" {
		cfg.Store.Backend = "local"
		cfg.Store.Root = o.root
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// session bundles what a command opens from the configuration.
type session struct {
	cfg     *config.Config
	store   blobstore.BlobStore
	archive archive.Store
	logger  *corrmin.Logger
}

func (o *globalOptions) open(ctx context.Context, stderr io.Writer) (*session, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, err
	}
	store, err := config.NewBlobStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	arch, err := config.NewArchive(ctx, cfg.Archive, store)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:     cfg,
		store:   store,
		archive: arch,
		logger:  config.NewLogger(cfg.Log, stderr),
	}, nil
}

func (s *session) finder(mc corrmin.MetricsCollector) (*corrmin.Finder, error) {
	return corrmin.New(s.store, s.cfg.Options(s.archive, s.logger, mc)...)
}

func (s *session) close() error {
	if s.archive == nil {
		return nil
	}
	return s.archive.Close()
}

var errNoArchive = errors.New("archiving is disabled in the run file")
