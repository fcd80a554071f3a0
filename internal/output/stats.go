package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/inodb/fastx-tools/internal/fxstats"
)

// WriteStats writes a per-file statistics report with aligned columns.
func WriteStats(w io.Writer, filename string, s fxstats.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Filename:\t%s\n", filename)
	fmt.Fprintf(tw, "Sequences:\t%d\n", s.Sequences)
	fmt.Fprintf(tw, "Bases:\t%d\n", s.Bases)
	fmt.Fprintf(tw, "Mean-length:\t%0.2f\n", s.MeanLen)
	fmt.Fprintf(tw, "Standard-deviation:\t%0.2f\n", s.StdDev)
	fmt.Fprintf(tw, "Min-length:\t%d\n", s.MinLen)
	fmt.Fprintf(tw, "Max-length:\t%d\n", s.MaxLen)
	for _, bc := range s.Composition {
		fmt.Fprintf(tw, "%s:\t%d (%0.2f%%)\n", bc.Base, bc.Count, bc.Percent)
	}

	return tw.Flush()
}
