package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kamusis/dexkit/internal/config"
	"github.com/kamusis/dexkit/internal/hand"
	"github.com/kamusis/dexkit/internal/splits"
	"github.com/kamusis/dexkit/internal/ycb"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run pre-flight environment checks",
	Long: `Check that dexkit's configuration, dataset root, split index and
hand-model evaluator are usable. Run this before a long export.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	printSection("dexkit doctor")
	fmt.Println()

	cfg, err := loadSettings()
	fmt.Println("[ Config ]")
	if err != nil {
		printErr("", err.Error())
		fmt.Println()
		fmt.Fprintln(os.Stderr, "✗  Config could not be loaded; remaining checks skipped.")
		return fmt.Errorf("doctor found issues")
	}
	printOK("", "configuration is valid")
	fmt.Println()

	if !runChecks(cfg) {
		fmt.Fprintln(os.Stderr, "✗  One or more checks failed. See details above.")
		return fmt.Errorf("doctor found issues")
	}
	fmt.Println("✓  All checks passed. dexkit is ready to use.")
	return nil
}

// runChecks prints one block per check and reports whether all passed.
func runChecks(cfg *config.Config) bool {
	allOK := true
	failD := func(format string, args ...any) {
		printErr("", fmt.Sprintf(format, args...))
		allOK = false
	}

	// ── Dataset root ─────────────────────────────────────────────────────────
	fmt.Println("[ Dataset root ]")
	rootOK := false
	switch info, err := os.Stat(cfg.DataRoot); {
	case cfg.DataRoot == "":
		failD("data_root is empty — set it in dexkit.yaml or export %s", config.EnvDataRoot)
	case err != nil:
		failD("cannot access %s: %v", cfg.DataRoot, err)
	case !info.IsDir():
		failD("%s is not a directory", cfg.DataRoot)
	default:
		printOK("", cfg.DataRoot)
		rootOK = true
	}
	fmt.Println()

	// ── Calibration ──────────────────────────────────────────────────────────
	fmt.Println("[ MANO calibration ]")
	if rootOK {
		n := countCalibrations(filepath.Join(cfg.DataRoot, "calibration"))
		if n == 0 {
			failD("no calibration/mano_* directories under %s", cfg.DataRoot)
		} else {
			printOK("", fmt.Sprintf("%d subject calibration(s)", n))
		}
	} else {
		printWarn("", "skipped (dataset root unavailable)")
	}
	fmt.Println()

	// ── Split index ──────────────────────────────────────────────────────────
	fmt.Println("[ Split index ]")
	manifestPath := cfg.ManifestPath()
	if m, err := splits.LoadManifest(manifestPath); err != nil {
		printMiss("", fmt.Sprintf("%v (run 'dexkit split')", err))
		allOK = false
	} else {
		printOK("", manifestPath)
		if rootOK && !samePath(m.DataRoot, cfg.DataRoot) {
			printWarn("", fmt.Sprintf("manifest data_root %s differs from configured %s", m.DataRoot, cfg.DataRoot))
		}
		for _, side := range hand.Sides {
			refs, err := splits.Load(manifestPath, side, false)
			if err != nil {
				failD("[%s] %v", side, err)
				continue
			}
			printInfo(side.String(), fmt.Sprintf("%d sequence(s)", len(refs)))
		}
	}
	fmt.Println()

	// ── Evaluator ────────────────────────────────────────────────────────────
	fmt.Println("[ Hand-model evaluator ]")
	switch {
	case cfg.Evaluator.Kind == "" || cfg.Evaluator.Kind == "none":
		printSkip("", "none configured — exported frames will have no joints")
	case len(cfg.Evaluator.Command) == 0:
		failD("evaluator command is empty")
	default:
		bin := cfg.Evaluator.Command[0]
		if p, err := exec.LookPath(bin); err != nil {
			failD("%s not found on PATH", bin)
		} else {
			printOK("", fmt.Sprintf("%s (%s)", p, strings.Join(cfg.Evaluator.Command[1:], " ")))
		}
	}
	fmt.Println()

	// ── Objects ──────────────────────────────────────────────────────────────
	fmt.Println("[ YCB objects ]")
	printOK("", fmt.Sprintf("%d objects registered", ycb.Default().Len()))
	fmt.Println()

	fmt.Println("===================")
	return allOK
}

func countCalibrations(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), "mano_") {
			n++
		}
	}
	return n
}

func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return a == b
	}
	return aa == bb
}
