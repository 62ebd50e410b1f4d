// Package hand holds the hand-side vocabulary shared by the sequence parser,
// the split index and the exporter.
package hand

import (
	"fmt"
	"strings"

	"github.com/kamusis/dexkit/internal/dexerr"
)

// Side is the hand recorded in a sequence.
type Side string

const (
	Left  Side = "left"
	Right Side = "right"
)

// Sides lists both sides in manifest order.
var Sides = []Side{Left, Right}

// ErrInvalidSide indicates a side other than left or right.
var ErrInvalidSide = fmt.Errorf("%w: hand side must be left or right", dexerr.ErrValidation)

// ParseSide accepts "left" or "right", ignoring case and surrounding space.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case Left:
		return Left, nil
	case Right:
		return Right, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidSide, s)
	}
}

// ParseSelection expands "left", "right" or "both" into sides.
func ParseSelection(s string) ([]Side, error) {
	if strings.EqualFold(strings.TrimSpace(s), "both") {
		return []Side{Left, Right}, nil
	}
	side, err := ParseSide(s)
	if err != nil {
		return nil, fmt.Errorf("%w (or both)", err)
	}
	return []Side{side}, nil
}

func (s Side) String() string { return string(s) }
