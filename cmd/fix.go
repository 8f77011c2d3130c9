package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newtype-works/cardwarden/internal/pipeline"
)

// fixCmd represents the fix command
var fixCmd = &cobra.Command{
	Use:   "fix [catalog.json]",
	Short: "Repair a card catalog in place",
	Long: `Fix runs the full reconciliation pipeline and rewrites the catalog:

  1. delete art files whose bytes do not match their extension
  2. normalize record fields and infer safely-inferable ones
  3. merge duplicate records into one per id
  4. point every record at its canonical image source

The rewritten catalog is pretty-printed, sorted by id, and written
atomically. Semantic problems (bad enums, negative costs) are reported
but never auto-corrected. Safe to re-run: a second pass over clean data
changes nothing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := pipelineOptions(cmd, args)
		if err != nil {
			return err
		}
		opts.Fix = true

		ok, err := pipeline.Run(opts)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("catalog still has issues after fixing")
		}

		fmt.Printf("✅ Catalog '%s' is clean.\n", opts.CatalogPath)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(fixCmd)

	fixCmd.Flags().StringP("art-dir", "a", "", "Directory holding local card art (default: card_art next to the catalog)")
	fixCmd.Flags().BoolP("verbose", "v", false, "Print per-stage counts and per-file scan results")
}
