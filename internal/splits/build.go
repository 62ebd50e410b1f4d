package splits

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kamusis/dexkit/internal/dexerr"
	"github.com/kamusis/dexkit/internal/hand"
	"github.com/kamusis/dexkit/internal/sequence"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ScanOptions controls Scan.
type ScanOptions struct {
	// Absolute stores absolute sequence paths instead of root-relative
	// fragments.
	Absolute bool
	Logger   *zap.Logger
}

// sidesOnly is the part of meta.yml Scan needs.
type sidesOnly struct {
	ManoSides []string `yaml:"mano_sides"`
}

// Scan walks root for meta.yml files and files each sequence under every
// side its mano_sides lists. Sequences with no recognised side are left out.
func Scan(root string, opts ScanOptions) (Splits, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Splits{}, fmt.Errorf("cannot resolve %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return Splits{}, fmt.Errorf("%w: dataset root %s", dexerr.ErrNotFound, absRoot)
		}
		return Splits{}, fmt.Errorf("cannot stat dataset root %s: %w", absRoot, err)
	}
	if !info.IsDir() {
		return Splits{}, fmt.Errorf("dataset root is not a directory: %s", absRoot)
	}

	left := map[string]struct{}{}
	right := map[string]struct{}{}
	var metas, unsided int

	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != sequence.MetaFile {
			return nil
		}
		metas++

		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", path, err)
		}
		var m sidesOnly
		if err := yaml.Unmarshal(b, &m); err != nil {
			return fmt.Errorf("%w: %s: %v", sequence.ErrMetadataInvalid, path, err)
		}

		seqDir := filepath.Dir(path)
		frag := seqDir
		if !opts.Absolute {
			rel, err := filepath.Rel(absRoot, seqDir)
			if err != nil {
				return err
			}
			frag = filepath.ToSlash(rel)
		}

		sided := false
		for _, s := range m.ManoSides {
			side, err := hand.ParseSide(s)
			if err != nil {
				log.Debug("ignoring unknown hand side", zap.String("meta", path), zap.String("side", s))
				continue
			}
			sided = true
			if side == hand.Left {
				left[frag] = struct{}{}
			} else {
				right[frag] = struct{}{}
			}
		}
		if !sided {
			unsided++
		}
		return nil
	}

	start := time.Now()
	if err := filepath.WalkDir(absRoot, walkFn); err != nil {
		return Splits{}, fmt.Errorf("cannot scan %s: %w", absRoot, err)
	}

	s := Splits{Left: sortedKeys(left), Right: sortedKeys(right)}
	log.Info("scanned dataset",
		zap.String("root", absRoot),
		zap.Int("meta_files", metas),
		zap.Int("left", len(s.Left)),
		zap.Int("right", len(s.Right)),
		zap.Int("unsided", unsided),
		zap.Duration("took", time.Since(start)),
	)
	return s, nil
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// BuildOptions controls Build.
type BuildOptions struct {
	Absolute    bool
	LockTimeout time.Duration
	Logger      *zap.Logger
}

// Build scans root and persists the result under outDir. It returns the
// splits and the manifest path.
func Build(root, outDir string, opts BuildOptions) (Splits, string, error) {
	if strings.TrimSpace(root) == "" {
		return Splits{}, "", fmt.Errorf("dataset root is required")
	}
	if strings.TrimSpace(outDir) == "" {
		return Splits{}, "", fmt.Errorf("out dir is required")
	}
	s, err := Scan(root, ScanOptions{Absolute: opts.Absolute, Logger: opts.Logger})
	if err != nil {
		return Splits{}, "", err
	}
	p, err := Persist(s, root, outDir, PersistOptions{LockTimeout: opts.LockTimeout, Logger: opts.Logger})
	if err != nil {
		return Splits{}, "", err
	}
	return s, p, nil
}
