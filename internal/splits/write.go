package splits

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"time"

	"github.com/kamusis/dexkit/internal/fsutil"
	"github.com/kamusis/dexkit/internal/hand"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// PersistOptions controls Persist.
type PersistOptions struct {
	// LockTimeout bounds the wait for another writer of outDir.
	// Zero means fsutil.DefaultLockTimeout.
	LockTimeout time.Duration
	Logger      *zap.Logger
}

// Persist writes one listing per side and the manifest into outDir,
// replacing any previous files. It returns the manifest path.
func Persist(s Splits, dataRoot, outDir string, opts PersistOptions) (string, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	timeout := opts.LockTimeout
	if timeout == 0 {
		timeout = fsutil.DefaultLockTimeout
	}

	absRoot, err := filepath.Abs(dataRoot)
	if err != nil {
		return "", fmt.Errorf("cannot resolve %s: %w", dataRoot, err)
	}
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return "", fmt.Errorf("cannot resolve %s: %w", outDir, err)
	}

	unlock, err := fsutil.LockDir(absOut, timeout)
	if err != nil {
		return "", err
	}
	defer unlock()

	for _, side := range hand.Sides {
		b, err := encodeListing(s.Side(side))
		if err != nil {
			return "", err
		}
		p := filepath.Join(absOut, listingName(side))
		if err := fsutil.WriteFileAtomic(p, b, 0o644); err != nil {
			return "", fmt.Errorf("cannot write listing: %w", err)
		}
	}

	m := Manifest{DataRoot: absRoot, Left: LeftListing, Right: RightListing}
	mb, err := yaml.Marshal(m)
	if err != nil {
		return "", err
	}
	manifestPath := filepath.Join(absOut, ManifestFile)
	if err := fsutil.WriteFileAtomic(manifestPath, mb, 0o644); err != nil {
		return "", fmt.Errorf("cannot write manifest: %w", err)
	}

	log.Info("wrote split manifest",
		zap.String("manifest", manifestPath),
		zap.Int("left", len(s.Left)),
		zap.Int("right", len(s.Right)),
	)
	return manifestPath, nil
}

// encodeListing writes one single-field CSV row per path. Plain paths come
// out unquoted, one per line.
func encodeListing(paths []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, p := range paths {
		if err := w.Write([]string{p}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
