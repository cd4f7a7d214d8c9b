package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/corrmin/lattice"
)

func newGenerateCmd(o *globalOptions) *cobra.Command {
	var bound int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build the matrix catalog for a bound",
		Long: `Build the correspondence-matrix catalog for a bound.

An existing complete catalog is left untouched. A catalog left behind by an
interrupted run is discarded and rebuilt. Without --bound the bound is
derived from the cells of the run file.

Example:
  corrmin generate --bound 2 --root ./catalog`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := o.open(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.close()

			b := bound
			if b == 0 {
				if !s.cfg.HasQuery() {
					return fmt.Errorf("--bound is required without search cells in the run file")
				}
				b = lattice.Bound(s.cfg.Search.Reference, s.cfg.Search.Deformed)
			}

			f, err := s.finder(nil)
			if err != nil {
				return err
			}
			info, err := f.Generate(ctx, b)
			if err != nil {
				return err
			}
			return printCatalog(cmd.OutOrStdout(), info)
		},
	}

	cmd.Flags().IntVarP(&bound, "bound", "b", 0, "largest absolute matrix entry")
	return cmd
}
