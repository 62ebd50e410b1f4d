package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kamusis/dexkit/internal/ycb"
	"github.com/spf13/cobra"
)

var objectsCmd = &cobra.Command{
	Use:   "objects [query...]",
	Short: "List the YCB objects DexYCB uses",
	Long: `Print the YCB object registry as "<id>  <name>".

With a query, only objects matching every word are shown. Words match
parts of the name or the exact id.

Example:
  dexkit objects
  dexkit objects large clamp`,
	RunE: runObjects,
}

func init() {
	rootCmd.AddCommand(objectsCmd)
}

func runObjects(_ *cobra.Command, args []string) error {
	return listObjects(os.Stdout, ycb.Default(), strings.Join(args, " "))
}

func listObjects(w io.Writer, r *ycb.Registry, query string) error {
	objs := r.Objects()
	if strings.TrimSpace(query) != "" {
		objs = r.Search(query)
		if len(objs) == 0 {
			return fmt.Errorf("no YCB object matches %q", query)
		}
	}
	for _, o := range objs {
		fmt.Fprintf(w, "%2d  %s\n", o.ID, o.Name)
	}
	return nil
}
