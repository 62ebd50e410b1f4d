package sequence

import (
	"archive/zip"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sbinet/npyio/npy"
)

// ndarray is a float64 copy of one .npy entry, row-major.
type ndarray struct {
	shape []int
	data  []float64
}

func (a ndarray) dim(i int) int { return a.shape[i] }

// readNPZ loads the named float arrays from an .npz archive. Entries that
// are absent are simply missing from the result map.
func readNPZ(p string, names ...string) (map[string]ndarray, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPoseArchiveNotFound, p)
		}
		if _, statErr := os.Stat(p); statErr != nil {
			return nil, fmt.Errorf("cannot open %s: %w", p, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrPoseArchiveMalformed, p, err)
	}
	defer zr.Close()

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	out := make(map[string]ndarray, len(names))
	for _, f := range zr.File {
		name := strings.TrimSuffix(f.Name, ".npy")
		if !want[name] {
			continue
		}
		arr, err := readNPYEntry(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %s: %v", ErrPoseArchiveMalformed, p, name, err)
		}
		out[name] = arr
	}
	return out, nil
}

func readNPYEntry(f *zip.File) (ndarray, error) {
	rc, err := f.Open()
	if err != nil {
		return ndarray{}, err
	}
	defer rc.Close()

	r, err := npy.NewReader(rc)
	if err != nil {
		return ndarray{}, err
	}
	hdr := r.Header.Descr
	if hdr.Fortran {
		return ndarray{}, errors.New("fortran-ordered arrays are not supported")
	}
	shape := append([]int(nil), hdr.Shape...)

	switch hdr.Type {
	case "<f8", "f8", "float64":
		var data []float64
		if err := r.Read(&data); err != nil {
			return ndarray{}, err
		}
		return ndarray{shape: shape, data: data}, nil
	case "<f4", "f4", "float32":
		var data32 []float32
		if err := r.Read(&data32); err != nil {
			return ndarray{}, err
		}
		data := make([]float64, len(data32))
		for i, v := range data32 {
			data[i] = float64(v)
		}
		return ndarray{shape: shape, data: data}, nil
	default:
		return ndarray{}, fmt.Errorf("unsupported dtype %q", hdr.Type)
	}
}
