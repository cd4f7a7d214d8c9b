package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/hupe1980/corrmin"
	"github.com/hupe1980/corrmin/internal/telemetry"
)

func newSearchCmd(o *globalOptions) *cobra.Command {
	var (
		bound       int
		k           int
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find the best correspondence matrices for a run file",
		Long: `Search the catalog for the correspondence-matrix pairs with the lowest
strain distance between the reference and deformed cells of the run file.

The catalog is generated first if needed. The result is archived unless
the run file sets archive.backend to none.

Example:
  corrmin search -c run.yaml --metrics-file /var/lib/node_exporter/corrmin.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx := cmd.Context()
			s, err := o.open(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.close()

			if !s.cfg.HasQuery() {
				return errors.New("the run file names no reference and deformed cells")
			}
			if k > 0 {
				s.cfg.Search.K = k
			}
			q := s.cfg.Query()
			if bound > 0 {
				q.Bound = bound
			}

			var mc corrmin.MetricsCollector
			if metricsFile != "" {
				pc := telemetry.NewPrometheusCollector()
				defer func() {
					err = errors.Join(err, pc.WriteToTextfile(metricsFile))
				}()
				mc = pc
			}

			f, err := s.finder(mc)
			if err != nil {
				return err
			}
			rec, err := f.Search(ctx, q)
			if rec == nil {
				return err
			}
			return errors.Join(printRecord(cmd.OutOrStdout(), rec), err)
		},
	}

	cmd.Flags().IntVarP(&bound, "bound", "b", 0, "largest absolute matrix entry (overrides the run file)")
	cmd.Flags().IntVarP(&k, "k", "k", 0, "number of pairs to keep (overrides the run file)")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile on exit")
	return cmd
}
