package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kamusis/dexkit/internal/config"
	"github.com/kamusis/dexkit/internal/export"
	"github.com/kamusis/dexkit/internal/hand"
	"github.com/kamusis/dexkit/internal/sequence"
	"github.com/kamusis/dexkit/internal/splits"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which listed sequences have been exported",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var flagStatusVerbose bool

func init() {
	statusCmd.Flags().BoolVarP(&flagStatusVerbose, "verbose", "v", false, "List every pending sequence")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	_, err = exportStatus(os.Stdout, cfg, flagStatusVerbose)
	return err
}

// sideStatus counts listed sequences by export state.
type sideStatus struct {
	Side     hand.Side
	Exported []string
	Pending  []string
}

// exportStatus compares the split listings with the output tree. Only
// existence of frame files is checked; frames are not re-parsed.
func exportStatus(w io.Writer, cfg *config.Config, verbose bool) ([]sideStatus, error) {
	ex, err := export.New(sequence.NewLoader(cfg.DataRoot), export.Options{OutRoot: cfg.OutRoot, Format: cfg.Format})
	if err != nil {
		return nil, err
	}
	ext := "." + strings.ToLower(cfg.Format)
	manifest := cfg.ManifestPath()

	fmt.Fprintln(w, "=== Export Status ===")
	var out []sideStatus
	for _, side := range hand.Sides {
		refs, err := splits.Load(manifest, side, false)
		if err != nil {
			return nil, err
		}
		st := sideStatus{Side: side}
		for _, ref := range refs {
			if hasFrames(ex.OutDir(side, ref), ext) {
				st.Exported = append(st.Exported, ref)
			} else {
				st.Pending = append(st.Pending, ref)
			}
		}
		out = append(out, st)

		fmt.Fprintf(w, "\n● %s: %d listed\n", side, len(refs))
		fmt.Fprintf(w, "  ✓  %d exported\n", len(st.Exported))
		if len(st.Pending) == 0 {
			continue
		}
		fmt.Fprintf(w, "  -  %d pending  (run: dexkit export --side %s)\n", len(st.Pending), side)
		if verbose {
			for _, ref := range st.Pending {
				fmt.Fprintf(w, "       %s\n", ref)
			}
		}
	}
	return out, nil
}

func hasFrames(dir, ext string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ext {
			return true
		}
	}
	return false
}
