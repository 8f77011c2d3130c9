package cmd

import (
	"github.com/spf13/cobra"

	"github.com/newtype-works/cardwarden/internal/config"
	"github.com/newtype-works/cardwarden/internal/pipeline"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "cardwarden",
	Short: "Tool for validating and repairing card catalogs",
	Long: `Cardwarden keeps a card catalog honest. It validates every record in a
catalog JSON file against the card schema, reconciles duplicate entries,
and cross-checks image references against the actual bytes on disk.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// pipelineOptions builds pipeline options from the config file, the
// optional positional catalog path, and the command's flags.
func pipelineOptions(cmd *cobra.Command, args []string) (pipeline.Options, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}

	catalogPath := cfg.CatalogPath
	if len(args) > 0 {
		catalogPath = args[0]
	}

	artDir, _ := cmd.Flags().GetString("art-dir")
	if artDir == "" {
		artDir = cfg.ResolveArtDir(catalogPath)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")

	return pipeline.Options{
		CatalogPath: catalogPath,
		ArtDir:      artDir,
		RemoteHosts: cfg.RemoteHosts,
		Verbose:     verbose,
	}, nil
}
