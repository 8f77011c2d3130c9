package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newtype-works/cardwarden/internal/pipeline"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [catalog.json]",
	Short: "Validate a card catalog without modifying it",
	Long: `Validate checks every record in the catalog against the card schema:
id format, required fields, color and type enums, cost, duplicate ids,
and the presence of an image source. The catalog and the art directory
are left untouched.

Exits 0 only when the catalog has no issues.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := pipelineOptions(cmd, args)
		if err != nil {
			return err
		}

		ok, err := pipeline.Run(opts)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("validation failed")
		}

		fmt.Printf("✅ Catalog '%s' is valid.\n", opts.CatalogPath)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("art-dir", "a", "", "Directory holding local card art (default: card_art next to the catalog)")
	validateCmd.Flags().BoolP("verbose", "v", false, "Print per-stage counts and per-file scan results")
}
