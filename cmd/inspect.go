package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kamusis/dexkit/internal/sequence"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <subject/sequence>",
	Short: "Parse one sequence and show its summary",
	Long: `Parse a sequence (meta.yml, MANO calibration and pose.npz) and print
what the exporter would see: hand side, grasped object, candidate objects,
frame count and joint order.

The argument is relative to the dataset root, or an absolute path.

Example:
  dexkit inspect 20200709-subject-01/20200709_141754
  dexkit inspect 20200709-subject-01/20200709_141754 --frame 0`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

var (
	flagInspectFrame    int
	flagInspectNoJoints bool
)

func init() {
	inspectCmd.Flags().IntVar(&flagInspectFrame, "frame", -1, "Also print this frame's record as JSON")
	inspectCmd.Flags().BoolVar(&flagInspectNoJoints, "no-joints", false, "Skip the hand-model evaluator")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if _, err := requireDataRoot(cfg); err != nil {
		return err
	}
	if flagInspectNoJoints {
		cfg.Evaluator.Kind = ""
	}
	log, sync, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer sync()

	loader, err := newLoader(cfg, log)
	if err != nil {
		return err
	}
	rec, err := loader.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printRecord(rec)
	if flagInspectFrame >= 0 {
		return printFrame(os.Stdout, rec, flagInspectFrame)
	}
	return nil
}

func printRecord(rec *sequence.Record) {
	printSection(rec.Key)
	printInfo("side", rec.Side.String())
	printInfo("object", fmt.Sprintf("%s (id %d, grasp index %d)", rec.GraspedName, rec.GraspedID, rec.GraspIndex))
	printInfo("frames", fmt.Sprintf("%d", rec.FrameCount))
	printInfo("betas", formatFloats(rec.Betas[:]))

	printBullet("Candidate objects:")
	for i, name := range rec.CandidateNames() {
		if i == rec.GraspIndex {
			printOK(fmt.Sprintf("%d", rec.CandidateIDs[i]), name+" (grasped)")
			continue
		}
		printSkip(fmt.Sprintf("%d", rec.CandidateIDs[i]), name)
	}

	printBullet("Joints:")
	if rec.Joints == nil {
		printMiss("", "not computed (no evaluator configured)")
		return
	}
	printOK("", fmt.Sprintf("%s, %d joints per frame", rec.Order(), rec.Joints.Convention.Size()))
}

func printFrame(w io.Writer, rec *sequence.Record, i int) error {
	fr, err := rec.Frame(i)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fr)
}

func formatFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = fmt.Sprintf("%.4g", f)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
