package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/kamusis/dexkit/internal/config"
	"github.com/kamusis/dexkit/internal/export"
	"github.com/kamusis/dexkit/internal/hand"
	"github.com/kamusis/dexkit/internal/handmodel"
	"github.com/kamusis/dexkit/internal/sequence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write per-frame records for every listed sequence",
	Long: `Parse every sequence in the split index and write one record per frame
to <out_root>/<side>/<subject>/<sequence>/meta/<frame>.<ext>.

Sequences that fail to parse are reported and skipped; the run continues.
Interrupting the command stops it between sequences.

Example:
  dexkit export --side right
  dexkit export --side both --format arrow --metrics-textfile export.prom`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var (
	flagExportSide     string
	flagExportFormat   string
	flagExportOut      string
	flagExportManifest string
	flagExportMetrics  string
)

func init() {
	exportCmd.Flags().StringVar(&flagExportSide, "side", "", "left, right or both (default from config)")
	exportCmd.Flags().StringVar(&flagExportFormat, "format", "", "json or arrow (default from config)")
	exportCmd.Flags().StringVar(&flagExportOut, "out", "", "Output root (default out_root from config)")
	exportCmd.Flags().StringVar(&flagExportManifest, "manifest", "", "Split manifest (default <out_root>/config/hand_splits.yaml)")
	exportCmd.Flags().StringVar(&flagExportMetrics, "metrics-textfile", "", "Write Prometheus metrics to this file when done")
	rootCmd.AddCommand(exportCmd)
}

// newLoader builds a sequence loader from cfg: the configured evaluator, if
// any, and the requested joint order.
func newLoader(cfg *config.Config, log *zap.Logger) (*sequence.Loader, error) {
	ev, err := handmodel.NewFromConfig(cfg.Evaluator)
	if err != nil {
		return nil, err
	}
	conv, err := cfg.Order.Convention()
	if err != nil {
		return nil, err
	}
	opts := []sequence.Option{sequence.WithLogger(log), sequence.WithConvention(conv)}
	if ev != nil {
		opts = append(opts, sequence.WithEvaluator(ev))
	}
	return sequence.NewLoader(cfg.DataRoot, opts...), nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if flagExportSide != "" {
		cfg.Side = flagExportSide
	}
	if flagExportFormat != "" {
		cfg.Format = flagExportFormat
	}
	manifest := flagExportManifest
	if manifest == "" {
		manifest = cfg.ManifestPath()
	}
	if flagExportOut != "" {
		cfg.OutRoot = flagExportOut
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, err := requireDataRoot(cfg); err != nil {
		return err
	}

	log, sync, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer sync()

	return exportDataset(cmd.Context(), cfg, manifest, flagExportMetrics, log)
}

// exportDataset runs the exporter over the configured sides and prints a
// summary. Skipped sequences are reported but do not fail the command.
func exportDataset(ctx context.Context, cfg *config.Config, manifest, metricsPath string, log *zap.Logger) error {
	sides, err := hand.ParseSelection(cfg.Side)
	if err != nil {
		return err
	}
	loader, err := newLoader(cfg, log)
	if err != nil {
		return err
	}
	ex, err := export.New(loader, export.Options{
		OutRoot: cfg.OutRoot,
		Format:  cfg.Format,
		Logger:  log,
	})
	if err != nil {
		return err
	}

	printSection("dexkit export")
	sum, runErr := ex.ProcessAll(ctx, manifest, sides)

	if len(sum.Failures) > 0 {
		printBullet("Skipped:")
		for _, f := range sum.Failures {
			printWarn(f.Side.String(), fmt.Sprintf("%s: %v", f.Ref, f.Err))
		}
	}
	fmt.Println()
	printInfo("", fmt.Sprintf("run %s", sum.RunID))
	printOK("", fmt.Sprintf("%d sequence(s) exported, %d frame(s) written to %s", sum.Exported, sum.Frames, cfg.OutRoot))
	if len(sum.Failures) > 0 {
		printWarn("", fmt.Sprintf("%d sequence(s) skipped", len(sum.Failures)))
	}

	if metricsPath != "" {
		if err := ex.Metrics().WriteTextfile(metricsPath); err != nil {
			printErr("", fmt.Sprintf("cannot write metrics: %v", err))
		} else {
			printOK("", fmt.Sprintf("Metrics written: %s", metricsPath))
		}
	}

	if sum.Cancelled || errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("export interrupted after %d sequence(s)", sum.Exported)
	}
	return runErr
}
