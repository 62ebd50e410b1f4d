// Package dextest writes small synthetic DexYCB trees for tests.
package dextest

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Array is a float64 array to be stored as a .npy entry.
type Array struct {
	Shape []int
	Data  []float64
}

// NPY encodes a as a little-endian float64 .npy (format 1.0) file.
func NPY(a Array) []byte {
	dims := make([]string, len(a.Shape))
	for i, d := range a.Shape {
		dims[i] = fmt.Sprint(d)
	}
	tuple := strings.Join(dims, ", ")
	if len(a.Shape) == 1 {
		tuple += ","
	}
	header := fmt.Sprintf("{'descr': '<f8', 'fortran_order': False, 'shape': (%s), }", tuple)
	// magic(6) + version(2) + length(2) + header + '\n' is padded to 64 bytes
	pad := (64 - (10+len(header)+1)%64) % 64
	header += strings.Repeat(" ", pad) + "\n"

	var buf bytes.Buffer
	buf.WriteString("\x93NUMPY")
	buf.Write([]byte{1, 0})
	_ = binary.Write(&buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)
	_ = binary.Write(&buf, binary.LittleEndian, a.Data)
	return buf.Bytes()
}

// WriteNPZ writes entries as <name>.npy members of a zip archive.
func WriteNPZ(tb testing.TB, path string, entries map[string]Array) {
	tb.Helper()
	MkdirAll(tb, filepath.Dir(path))
	f, err := os.Create(path)
	if err != nil {
		tb.Fatal(err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	for name, a := range entries {
		w, err := zw.Create(name + ".npy")
		if err != nil {
			tb.Fatal(err)
		}
		if _, err := w.Write(NPY(a)); err != nil {
			tb.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		tb.Fatal(err)
	}
}

// HandFrames builds a (T, 1, 51) pose_m array. Frame t has pose
// coefficients t+0.01*k and translation (t, t+1, t+2).
func HandFrames(T int) Array {
	data := make([]float64, 0, T*51)
	for t := 0; t < T; t++ {
		for k := 0; k < 48; k++ {
			data = append(data, float64(t)+0.01*float64(k))
		}
		data = append(data, float64(t), float64(t+1), float64(t+2))
	}
	return Array{Shape: []int{T, 1, 51}, Data: data}
}

// ObjectFrames builds a (T, O, 7) pose_y array. Object o at frame t is
// rotated (t+1)*0.1 rad about x and translated to (o, t, 0).
func ObjectFrames(T, O int) Array {
	data := make([]float64, 0, T*O*7)
	for t := 0; t < T; t++ {
		half := float64(t+1) * 0.05
		for o := 0; o < O; o++ {
			data = append(data, math.Cos(half), math.Sin(half), 0, 0, float64(o), float64(t), 0)
		}
	}
	return Array{Shape: []int{T, O, 7}, Data: data}
}

// Betas is the calibration written by WriteCalibration.
var Betas = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}

// WriteCalibration writes <root>/calibration/mano_<id>/mano.yml.
func WriteCalibration(tb testing.TB, root, id string) {
	tb.Helper()
	parts := make([]string, len(Betas))
	for i, b := range Betas {
		parts[i] = fmt.Sprint(b)
	}
	WriteFile(tb, filepath.Join(root, "calibration", "mano_"+id, "mano.yml"), "betas: ["+strings.Join(parts, ", ")+"]\n")
}

// Sequence describes one synthetic sequence.
type Sequence struct {
	Key        string // subject/sequence
	Sides      []string
	YCBIDs     []int
	GraspIndex int
	Frames     int
	CalibID    string
}

// Meta renders the sequence's meta.yml.
func (s Sequence) Meta() string {
	ids := make([]string, len(s.YCBIDs))
	for i, id := range s.YCBIDs {
		ids[i] = fmt.Sprint(id)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "serials: ['836212060125']\n")
	fmt.Fprintf(&b, "num_frames: %d\n", s.Frames)
	fmt.Fprintf(&b, "ycb_ids: [%s]\n", strings.Join(ids, ", "))
	fmt.Fprintf(&b, "ycb_grasp_ind: %d\n", s.GraspIndex)
	fmt.Fprintf(&b, "mano_sides: [%s]\n", strings.Join(s.Sides, ", "))
	fmt.Fprintf(&b, "mano_calib: [%s]\n", s.CalibID)
	return b.String()
}

// WriteSequence writes meta.yml, pose.npz and the calibration for s under
// root and returns the sequence directory.
func WriteSequence(tb testing.TB, root string, s Sequence) string {
	tb.Helper()
	if s.CalibID == "" {
		s.CalibID = "test_" + strings.ReplaceAll(s.Key, "/", "_")
	}
	dir := filepath.Join(root, filepath.FromSlash(s.Key))
	WriteFile(tb, filepath.Join(dir, "meta.yml"), s.Meta())
	WriteCalibration(tb, root, s.CalibID)
	WriteNPZ(tb, filepath.Join(dir, "pose.npz"), map[string]Array{
		"pose_m": HandFrames(s.Frames),
		"pose_y": ObjectFrames(s.Frames, len(s.YCBIDs)),
	})
	return dir
}

// WriteFile writes content to p, creating parent directories.
func WriteFile(tb testing.TB, p, content string) {
	tb.Helper()
	MkdirAll(tb, filepath.Dir(p))
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		tb.Fatal(err)
	}
}

func MkdirAll(tb testing.TB, dir string) {
	tb.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		tb.Fatal(err)
	}
}
