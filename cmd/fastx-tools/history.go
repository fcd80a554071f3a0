package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/fastx-tools/internal/history"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit  int
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded dedup runs",
		Long: `List dedup runs recorded with --history, most recent first.
Runs are stored in a DuckDB database (history.db in the config).`,
		Example: `  fastx-tools history
  fastx-tools history --limit 5
  fastx-tools history clear`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Runs(limit)
			if err != nil {
				return err
			}
			return writeRuns(cmd.OutOrStdout(), runs)
		},
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "History database path (default: history.db from config)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0: all)")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all recorded runs",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.ClearRuns(); err != nil {
				return fmt.Errorf("clearing history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		},
	})

	return cmd
}

func openHistory(dbPath string) (*history.Store, error) {
	if dbPath == "" {
		dbPath = viper.GetString("history.db")
	}
	return history.Open(dbPath)
}

func writeRuns(w io.Writer, runs []history.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tINPUT\tFORMAT\tHASH\tKEY\tREAD\tWRITTEN\tREMOVED\tDURATION\tSTATUS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			shortID(r.ID),
			r.StartedAt.Local().Format(time.DateTime),
			r.Input.Path,
			r.Format, r.Hasher, r.Key,
			r.Read, r.Written, r.Removed,
			r.Duration.Round(time.Millisecond),
			r.Status)
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
