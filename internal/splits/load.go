package splits

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kamusis/dexkit/internal/hand"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"
)

// manifestDoc accepts both key spellings of the dataset root.
type manifestDoc struct {
	DataRoot      string  `yaml:"data_root"`
	DataRootCamel string  `yaml:"dataRoot"`
	Left          *string `yaml:"left"`
	Right         *string `yaml:"right"`
}

// LoadManifest reads the manifest at path. Missing keys are left empty;
// Load reports them.
func LoadManifest(path string) (Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return Manifest{}, fmt.Errorf("cannot read manifest %s: %w", path, err)
	}
	var doc manifestDoc
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return Manifest{}, fmt.Errorf("%w: %s: %v", ErrManifestIncomplete, path, err)
	}
	m := Manifest{DataRoot: doc.DataRoot}
	if m.DataRoot == "" {
		m.DataRoot = doc.DataRootCamel
	}
	if doc.Left != nil {
		m.Left = *doc.Left
	}
	if doc.Right != nil {
		m.Right = *doc.Right
	}
	return m, nil
}

// Load returns the sequences listed for side in the manifest at
// manifestPath. With absolute set, relative entries are joined with the
// manifest's data_root.
func Load(manifestPath string, side hand.Side, absolute bool) ([]string, error) {
	side, err := hand.ParseSide(string(side))
	if err != nil {
		return nil, err
	}
	absManifest, err := filepath.Abs(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve %s: %w", manifestPath, err)
	}
	m, err := LoadManifest(absManifest)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(m.DataRoot) == "" {
		return nil, fmt.Errorf("%w: %s has no data_root", ErrManifestIncomplete, absManifest)
	}
	ref := strings.TrimSpace(m.Listing(side))
	if ref == "" {
		return nil, fmt.Errorf("%w: %s has no %s listing", ErrManifestIncomplete, absManifest, side)
	}

	listing := filepath.FromSlash(ref)
	if !filepath.IsAbs(listing) {
		listing = filepath.Join(filepath.Dir(absManifest), listing)
	}
	entries, err := readListing(listing)
	if err != nil {
		return nil, err
	}
	if !absolute {
		return entries, nil
	}

	root := filepath.Clean(m.DataRoot)
	out := make([]string, len(entries))
	for i, e := range entries {
		p := filepath.FromSlash(e)
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		out[i] = p
	}
	return out, nil
}

func readListing(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrListingNotFound, path)
		}
		return nil, fmt.Errorf("cannot open listing %s: %w", path, err)
	}
	defer f.Close()

	// A leading BOM picks the decoding; anything else is read as UTF-8.
	r := transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	out := []string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, `"`) {
			row, err := csv.NewReader(strings.NewReader(line)).Read()
			if err != nil {
				return nil, fmt.Errorf("invalid listing row in %s: %w", path, err)
			}
			line = strings.TrimSpace(row[0])
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read listing %s: %w", path, err)
	}
	return out, nil
}
