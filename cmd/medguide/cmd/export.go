package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phodsawiR/MedGuideApp2/pkg/catalogs"
)

// transferDoc is the JSON document shape shared by export and import.
type transferDoc struct {
	Topics catalogs.Topics `json:"topics"`
}

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the collection as JSON",
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

			data, err := json.MarshalIndent(transferDoc{Topics: snapshot}, "", "  ")
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Println(string(data))
				return nil
			}
			if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote %d topic(s) to %s\n", len(snapshot), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
