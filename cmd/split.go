package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/kamusis/dexkit/internal/config"
	"github.com/kamusis/dexkit/internal/hand"
	"github.com/kamusis/dexkit/internal/splits"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Index the dataset's sequences by hand side",
	Long: `Scan the dataset root for sequences (directories holding meta.yml) and
write one listing per hand side plus the hand_splits.yaml manifest.

The manifest goes to <out_root>/config/ unless --out is given. Existing
listings are replaced.

Example:
  dexkit split --data-root /data/dex-ycb
  dexkit split --absolute --out ./splits`,
	Args: cobra.NoArgs,
	RunE: runSplit,
}

var (
	flagSplitDataRoot string
	flagSplitOut      string
	flagSplitAbsolute bool
)

func init() {
	splitCmd.Flags().StringVar(&flagSplitDataRoot, "data-root", "", "Dataset root (overrides config and "+config.EnvDataRoot+")")
	splitCmd.Flags().StringVar(&flagSplitOut, "out", "", "Directory for the manifest and listings")
	splitCmd.Flags().BoolVar(&flagSplitAbsolute, "absolute", false, "Record absolute sequence paths")
	rootCmd.AddCommand(splitCmd)
}

func runSplit(_ *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if flagSplitDataRoot != "" {
		cfg.DataRoot = flagSplitDataRoot
	}
	root, err := requireDataRoot(cfg)
	if err != nil {
		return err
	}
	outDir := flagSplitOut
	if outDir == "" {
		outDir = filepath.Dir(cfg.ManifestPath())
	}

	log, sync, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer sync()

	return splitDataset(root, outDir, flagSplitAbsolute, log)
}

// splitDataset builds and persists the split index, then prints per-side
// counts.
func splitDataset(root, outDir string, absolute bool, log *zap.Logger) error {
	printSection("dexkit split")
	s, manifest, err := splits.Build(root, outDir, splits.BuildOptions{Absolute: absolute, Logger: log})
	if err != nil {
		return err
	}
	for _, side := range hand.Sides {
		n := len(s.Side(side))
		if n == 0 {
			printMiss(side.String(), "no sequences")
			continue
		}
		printInfo(side.String(), fmt.Sprintf("%d sequence(s)", n))
	}
	printOK("", fmt.Sprintf("Manifest written: %s", manifest))
	return nil
}
