package hand

import (
	"errors"
	"testing"

	"github.com/kamusis/dexkit/internal/dexerr"
)

func TestParseSide(t *testing.T) {
	for in, want := range map[string]Side{"left": Left, " Right ": Right, "LEFT": Left} {
		got, err := ParseSide(in)
		if err != nil || got != want {
			t.Errorf("ParseSide(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	for _, in := range []string{"", "both", "centre"} {
		_, err := ParseSide(in)
		if !errors.Is(err, ErrInvalidSide) || !errors.Is(err, dexerr.ErrValidation) {
			t.Errorf("ParseSide(%q) err = %v", in, err)
		}
	}
}

func TestParseSelection(t *testing.T) {
	sides, err := ParseSelection("Both")
	if err != nil || len(sides) != 2 || sides[0] != Left || sides[1] != Right {
		t.Errorf("ParseSelection(both) = %v, %v", sides, err)
	}
	sides, err = ParseSelection("right")
	if err != nil || len(sides) != 1 || sides[0] != Right {
		t.Errorf("ParseSelection(right) = %v, %v", sides, err)
	}
	if _, err := ParseSelection("none"); !errors.Is(err, ErrInvalidSide) {
		t.Errorf("ParseSelection(none) err = %v", err)
	}
}
