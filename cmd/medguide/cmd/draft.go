package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phodsawiR/MedGuideApp2/internal/config"
	"github.com/phodsawiR/MedGuideApp2/internal/draft"
	"github.com/phodsawiR/MedGuideApp2/pkg/errors"
)

func newDraftCmd() *cobra.Command {
	var (
		count int
		model string
	)

	cmd := &cobra.Command{
		Use:   "draft <system>",
		Short: "Draft topic records for a body system with Gemini",
		Long: `Asks Gemini for candidate topic records covering a body system and
prints them as an import document. Review the output, then feed it to
"medguide import". Requires GEMINI_API_KEY.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey := config.GeminiAPIKey()
			if apiKey == "" {
				return errors.New("GEMINI_API_KEY not set")
			}

			opts := []draft.Option{}
			if model != "" {
				opts = append(opts, draft.WithModel(model))
			}
			drafter, err := draft.New(cmd.Context(), apiKey, opts...)
			if err != nil {
				return err
			}

			topics, err := drafter.DraftTopics(cmd.Context(), args[0], count)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(transferDoc{Topics: topics}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 5, "number of topics to draft")
	cmd.Flags().StringVar(&model, "model", "", "Gemini model (default "+draft.DefaultModel+")")
	return cmd
}
