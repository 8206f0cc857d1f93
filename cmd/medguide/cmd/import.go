package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phodsawiR/MedGuideApp2/pkg/catalogs"
	"github.com/phodsawiR/MedGuideApp2/pkg/errors"
	"github.com/phodsawiR/MedGuideApp2/pkg/store"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import topics from a JSON file",
		Long: `Reads a JSON document with a topics array, inserts the valid records
in one atomic batch, and runs a reconciliation pass so imported
duplicates are folded back out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var doc transferDoc
			if err := json.Unmarshal(data, &doc); err != nil {
				return errors.WrapParse("json", args[0], err)
			}
			if len(doc.Topics) == 0 {
				return errors.New("no topics in document")
			}

			creates := make(catalogs.Topics, 0, len(doc.Topics))
			skipped := 0
			for _, topic := range doc.Topics {
				if !topic.Identified() {
					skipped++
					continue
				}
				topic.ID = ""
				creates = append(creates, topic)
			}

			engine, err := newEngine(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = engine.Close() }()

			batch := store.Batch{Creates: creates}
			if err := engine.Store().CommitBatch(cmd.Context(), engine.Collection(), batch); err != nil {
				return err
			}

			result, err := engine.Reconcile(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d topic(s), skipped %d invalid, removed %d duplicate(s)\n",
				len(creates), skipped, result.Removed)
			return nil
		},
	}
	return cmd
}
