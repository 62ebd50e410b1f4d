package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/kamusis/dexkit/internal/hand"
	"github.com/kamusis/dexkit/internal/splits"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the sequences listed for a hand side",
	Long: `Print one sequence per line from the split index written by 'dexkit split'.

Example:
  dexkit list --side left
  dexkit list --side both --absolute`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	flagListSide     string
	flagListManifest string
	flagListAbsolute bool
)

func init() {
	listCmd.Flags().StringVar(&flagListSide, "side", "", "left, right or both (default from config)")
	listCmd.Flags().StringVar(&flagListManifest, "manifest", "", "Split manifest (default <out_root>/config/hand_splits.yaml)")
	listCmd.Flags().BoolVar(&flagListAbsolute, "absolute", false, "Join relative entries with the manifest's data root")
	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	sel := cfg.Side
	if flagListSide != "" {
		sel = flagListSide
	}
	sides, err := hand.ParseSelection(sel)
	if err != nil {
		return err
	}
	manifest := flagListManifest
	if manifest == "" {
		manifest = cfg.ManifestPath()
	}
	return listSequences(os.Stdout, manifest, sides, flagListAbsolute)
}

// listSequences writes the listed entries to w. With more than one side
// each line is prefixed with its side.
func listSequences(w io.Writer, manifest string, sides []hand.Side, absolute bool) error {
	for _, side := range sides {
		refs, err := splits.Load(manifest, side, absolute)
		if err != nil {
			return err
		}
		for _, ref := range refs {
			if len(sides) > 1 {
				fmt.Fprintf(w, "%s\t%s\n", side, ref)
				continue
			}
			fmt.Fprintln(w, ref)
		}
	}
	return nil
}
