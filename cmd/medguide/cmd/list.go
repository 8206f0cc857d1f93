package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phodsawiR/MedGuideApp2/pkg/view"
)

func newListCmd() *cobra.Command {
	var (
		system   string
		minYield int
		query    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog topics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := newEngine(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = engine.Close() }()

			if _, err := engine.Reconcile(cmd.Context()); err != nil {
				return err
			}
			snapshot, err := engine.Store().SnapshotAll(cmd.Context(), engine.Collection())
			if err != nil {
				return err
			}

			filter := view.Filter{System: view.AllSystems, MinYield: minYield, Query: query}
			if system != "" {
				filter.System = system
			}
			topics := filter.Apply(snapshot)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "YIELD\tSYSTEM\tTOPIC")
			for _, topic := range topics {
				fmt.Fprintf(w, "%d\t%s\t%s\n", topic.YieldScore, topic.System, topic.Title)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Printf("\n%d topic(s)\n", len(topics))
			return nil
		},
	}

	cmd.Flags().StringVar(&system, "system", "", "show one body system only")
	cmd.Flags().IntVar(&minYield, "min-yield", 1, "minimum yield score")
	cmd.Flags().StringVar(&query, "query", "", "free-text search")
	return cmd
}
