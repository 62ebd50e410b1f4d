package ycb

import (
	"errors"
	"testing"

	"github.com/kamusis/dexkit/internal/dexerr"
)

func TestDefault_RoundTrip(t *testing.T) {
	r := Default()
	if r.Len() != 21 {
		t.Fatalf("expected 21 objects, got %d", r.Len())
	}
	for _, o := range r.Objects() {
		id, err := r.NameToID(o.Name)
		if err != nil {
			t.Fatalf("NameToID(%q): %v", o.Name, err)
		}
		name, err := r.IDToName(id)
		if err != nil {
			t.Fatalf("IDToName(%d): %v", id, err)
		}
		if name != o.Name {
			t.Fatalf("round trip mismatch: %q -> %d -> %q", o.Name, id, name)
		}
	}
}

func TestDefault_KnownEntries(t *testing.T) {
	r := Default()
	cases := map[int]string{
		1:  "002_master_chef_can",
		9:  "010_potted_meat_can",
		21: "061_foam_brick",
	}
	for id, want := range cases {
		got, err := r.IDToName(id)
		if err != nil || got != want {
			t.Fatalf("IDToName(%d)=%q,%v want %q", id, got, err, want)
		}
	}
}

func TestUnknownKeys(t *testing.T) {
	r := Default()
	if _, err := r.IDToName(0); !errors.Is(err, ErrUnknownObject) || !errors.Is(err, dexerr.ErrUnknownKey) {
		t.Fatalf("expected unknown key error for id 0, got %v", err)
	}
	if _, err := r.NameToID("999_spoon"); !errors.Is(err, dexerr.ErrUnknownKey) {
		t.Fatalf("expected unknown key error for name, got %v", err)
	}
	if r.HasID(22) || !r.HasName("025_mug") {
		t.Fatalf("unexpected membership results")
	}
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	if _, err := NewRegistry([]Object{{1, "a"}, {1, "b"}}); !errors.Is(err, dexerr.ErrConfiguration) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
	if _, err := NewRegistry([]Object{{1, "a"}, {2, "a"}}); !errors.Is(err, dexerr.ErrConfiguration) {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
}
