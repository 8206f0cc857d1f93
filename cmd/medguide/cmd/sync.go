package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the collection against the seed catalog",
		Long: `Runs one reconciliation pass: duplicate records sharing a normalized
(system, topic) key are removed and missing seed records are inserted,
in a single atomic batch.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := newEngine(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = engine.Close() }()

			result, err := engine.Reconcile(cmd.Context())
			if err != nil {
				return err
			}

			if !result.Changed() {
				fmt.Println("Catalog already consistent")
				return nil
			}
			fmt.Printf("Removed %d duplicate(s), seeded %d topic(s)\n", result.Removed, result.Seeded)
			return nil
		},
	}
}
