// Package sequence reads one DexYCB sequence (meta.yml, MANO calibration and
// pose.npz) into a validated frame table.
//
// Parsing runs in strict stages, each consuming the previous one's result:
//
//	loc, err := sequence.Resolve(root, "20200709-subject-01/20200709_141754")
//	meta, err := sequence.ReadMetadata(loc, ycb.Default())
//	poses, err := sequence.ReadPoseArchive(loc, meta)
//	rec := sequence.Assemble(meta, poses)
//
// Loader chains them and optionally runs a hand-model evaluator.
package sequence

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	MetaFile    = "meta.yml"
	PoseFile    = "pose.npz"
	calibDir    = "calibration"
	calibFile   = "mano.yml"
	calibPrefix = "mano_"
)

// Location is a resolved sequence directory.
type Location struct {
	Root string // dataset root
	Key  string // slash-separated key, relative to Root when possible
	Dir  string // absolute sequence directory
}

// Resolve joins root and key and checks that the directory exists. key may be
// relative to root (the usual "subject/sequence" form) or absolute.
func Resolve(root, key string) (Location, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Location{}, fail(key, StageResolve, fmt.Errorf("%w: empty sequence key", ErrSequenceNotFound))
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Location{}, fail(key, StageResolve, fmt.Errorf("cannot resolve dataset root %s: %w", root, err))
	}

	var dir string
	native := filepath.FromSlash(key)
	if filepath.IsAbs(native) {
		dir = filepath.Clean(native)
		if rel, err := filepath.Rel(absRoot, dir); err == nil && !strings.HasPrefix(rel, "..") {
			key = filepath.ToSlash(rel)
		} else {
			key = filepath.ToSlash(dir)
		}
	} else {
		dir = filepath.Join(absRoot, native)
		key = path.Clean(filepath.ToSlash(key))
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Location{}, fail(key, StageResolve, fmt.Errorf("%w: %s", ErrSequenceNotFound, dir))
		}
		return Location{}, fail(key, StageResolve, fmt.Errorf("cannot stat %s: %w", dir, err))
	}
	if !info.IsDir() {
		return Location{}, fail(key, StageResolve, fmt.Errorf("%w: %s is not a directory", ErrSequenceNotFound, dir))
	}
	return Location{Root: absRoot, Key: key, Dir: dir}, nil
}

// MetaPath returns the sequence's meta.yml path.
func (l Location) MetaPath() string { return filepath.Join(l.Dir, MetaFile) }

// PosePath returns the sequence's pose.npz path.
func (l Location) PosePath() string { return filepath.Join(l.Dir, PoseFile) }

// CalibrationPath returns the MANO calibration file for calibration id cid.
func (l Location) CalibrationPath(cid string) string {
	return filepath.Join(l.Root, calibDir, calibPrefix+cid, calibFile)
}

// SubjectSequence returns the last two components of the key
// ("subject/sequence"), or the last one when the key has a single component.
func (l Location) SubjectSequence() string {
	parts := strings.Split(strings.Trim(l.Key, "/"), "/")
	if len(parts) >= 2 {
		return parts[len(parts)-2] + "/" + parts[len(parts)-1]
	}
	return parts[len(parts)-1]
}
