package sequence

import (
	"path/filepath"
	"testing"

	"github.com/kamusis/dexkit/internal/dextest"
)

func writeFile(t *testing.T, p, s string) { dextest.WriteFile(t, p, s) }

const testBetas = "betas: [0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0]\n"

// fixture is a dataset root with a single sequence.
type fixture struct {
	root string
	key  string
	dir  string
}

func newFixture(t *testing.T, meta string) fixture {
	t.Helper()
	root := t.TempDir()
	key := "20200709-subject-01/20200709_141754"
	dir := filepath.Join(root, filepath.FromSlash(key))
	writeFile(t, filepath.Join(dir, MetaFile), meta)
	writeFile(t, filepath.Join(root, "calibration", "mano_20200709-subject-01_right", "mano.yml"), testBetas)
	return fixture{root: root, key: key, dir: dir}
}

func (f fixture) writePoses(t *testing.T, entries map[string]dextest.Array) {
	t.Helper()
	dextest.WriteNPZ(t, filepath.Join(f.dir, PoseFile), entries)
}

const sampleMeta = `serials: ['836212060125', '839512060362']
num_frames: 2
ycb_ids: [5, 9]
ycb_grasp_ind: 1
mano_sides: [right]
mano_calib: [20200709-subject-01_right]
`
