package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newShowCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [ID]",
		Short: "Print archived search records",
		Long: `Print the archived search records of the run file's archive.

Without an ID every record is summarized. With an ID the full report of
that record is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := o.open(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.close()

			if s.archive == nil {
				return errNoArchive
			}

			if len(args) == 1 {
				id, err := strconv.ParseUint(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid record ID %q", args[0])
				}
				rec, err := s.archive.Get(ctx, id)
				if err != nil {
					return err
				}
				return printRecord(cmd.OutOrStdout(), rec)
			}

			recs, err := s.archive.List(ctx)
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), recs)
		},
	}
}
