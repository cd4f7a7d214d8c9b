package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/hupe1980/corrmin"
	"github.com/hupe1980/corrmin/archive"
)

func printCatalog(w io.Writer, info *corrmin.CatalogInfo) error {
	fmt.Fprintf(w, "catalog d%d (%s, segment capacity %s, created %s)\n",
		info.Bound, info.Compression, humanize.Comma(int64(info.SegmentCapacity)), humanize.Time(info.CreatedAt))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DET\tMATRICES\tSEGMENTS")
	for _, b := range info.Buckets {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", b.Det, humanize.Comma(int64(b.Total)), len(b.Segments))
	}
	fmt.Fprintf(tw, "total\t%s\t\n", humanize.Comma(int64(info.Total())))
	return tw.Flush()
}

func printRecord(w io.Writer, rec *archive.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if rec.ID != 0 {
		fmt.Fprintf(tw, "record\t%d\n", rec.ID)
	}
	fmt.Fprintf(tw, "run\t%s\n", rec.RunID)
	fmt.Fprintf(tw, "bound\t%d (ref det %d, def det %d)\n", rec.Bound, rec.RefDet, rec.DefDet)
	fmt.Fprintf(tw, "phases\t%d/%d\n", rec.PhaseRef, rec.PhaseDef)
	fmt.Fprintf(tw, "pairs\t%s in %s\n", humanize.Comma(rec.Pairs), rec.Duration)
	fmt.Fprintf(tw, "reference\t%s\n", rec.Reference)
	fmt.Fprintf(tw, "deformed\t%s\n", rec.Deformed)
	if err := tw.Flush(); err != nil {
		return err
	}

	for i, r := range rec.Results {
		fmt.Fprintf(w, "\n#%d distance %.6e\n", i+1, r.Distance)
		fmt.Fprintf(w, "  P_ref %s\n", r.Ref)
		fmt.Fprintf(w, "  P_def %s\n", r.Def)
		for row, u := range r.Stretch {
			label := "      "
			if row == 0 {
				label = "  U   "
			}
			fmt.Fprintf(w, "%s[% .6f % .6f % .6f]\n", label, u[0], u[1], u[2])
		}
	}

	_, err := fmt.Fprintf(w, "\ntransformed reference %s\ntransformed deformed  %s\n", rec.TransformedRef, rec.TransformedDef)
	return err
}

func printRecords(w io.Writer, recs []*archive.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tBOUND\tPHASES\tPAIRS\tBEST")
	for _, rec := range recs {
		best := "-"
		if r, ok := rec.Best(); ok {
			best = fmt.Sprintf("%.6e", r.Distance)
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d/%d\t%s\t%s\n",
			rec.ID, humanize.Time(rec.CreatedAt), rec.Bound, rec.PhaseRef, rec.PhaseDef, humanize.Comma(rec.Pairs), best)
	}
	return tw.Flush()
}
