// Package cmd implements the medguide CLI commands.
package cmd

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	medguide "github.com/phodsawiR/MedGuideApp2"
	"github.com/phodsawiR/MedGuideApp2/internal/config"
	"github.com/phodsawiR/MedGuideApp2/pkg/identity"
	"github.com/phodsawiR/MedGuideApp2/pkg/logging"
)

// BuildInfo carries version metadata from the build.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Execute runs the CLI with the given arguments from os.Args.
func Execute(ctx context.Context, info BuildInfo) error {
	root := newRootCmd(info)
	return root.ExecuteContext(ctx)
}

func newRootCmd(info BuildInfo) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "medguide",
		Short: "Study-topic catalog engine",
		Long: `medguide keeps a study-topic collection consistent with its seed
catalog, removes duplicate records, and serves the catalog with live
updates and per-identity review progress.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// Missing .env files are fine; the environment still applies.
			_ = godotenv.Load()
			viper.AutomaticEnv()

			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				logging.SetDefault(logging.NewConsole())
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().String("collection", "", "topic collection path (default \"topics\")")

	root.AddCommand(
		newServeCmd(),
		newSyncCmd(),
		newListCmd(),
		newExportCmd(),
		newImportCmd(),
		newDraftCmd(),
		newVersionCmd(info),
	)
	return root
}

// newEngine builds an engine from the CLI flags and environment.
func newEngine(cmd *cobra.Command) (medguide.MedGuide, error) {
	opts := []medguide.Option{}

	if collection, _ := cmd.Flags().GetString("collection"); collection != "" {
		opts = append(opts, medguide.WithCollection(collection))
	} else if collection := config.GetString(config.KeyCollection); collection != "" {
		opts = append(opts, medguide.WithCollection(collection))
	}

	if id := config.GetString(config.KeyIdentity); id != "" {
		opts = append(opts, medguide.WithIdentityProvider(identity.NewStatic(identity.Identity(id))))
	}

	return medguide.New(opts...)
}
