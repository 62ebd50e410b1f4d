// Package splits indexes a DexYCB tree by recorded hand side and persists
// the result as a relocatable manifest plus one listing per side.
package splits

import "github.com/kamusis/dexkit/internal/hand"

const (
	ManifestFile = "hand_splits.yaml"
	LeftListing  = "left_side.csv"
	RightListing = "right_side.csv"
)

// Splits holds the sorted, deduplicated sequence fragments per side.
type Splits struct {
	Left  []string
	Right []string
}

// Side returns the fragments recorded for side.
func (s Splits) Side(side hand.Side) []string {
	if side == hand.Left {
		return s.Left
	}
	return s.Right
}

// Manifest is the hand_splits.yaml document. Listing paths are relative to
// the manifest's directory.
type Manifest struct {
	DataRoot string `yaml:"data_root"`
	Left     string `yaml:"left"`
	Right    string `yaml:"right"`
}

// Listing returns the listing reference for side.
func (m Manifest) Listing(side hand.Side) string {
	if side == hand.Left {
		return m.Left
	}
	return m.Right
}

func listingName(side hand.Side) string {
	if side == hand.Left {
		return LeftListing
	}
	return RightListing
}
