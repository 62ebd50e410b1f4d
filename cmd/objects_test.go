package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kamusis/dexkit/internal/ycb"
)

func TestListObjects(t *testing.T) {
	var buf bytes.Buffer
	if err := listObjects(&buf, ycb.Default(), ""); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 21 {
		t.Fatalf("got %d objects, want 21", len(lines))
	}
	if lines[0] != " 1  002_master_chef_can" {
		t.Errorf("first line = %q", lines[0])
	}

	buf.Reset()
	if err := listObjects(&buf, ycb.Default(), "mustard"); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "5  006_mustard_bottle" {
		t.Errorf("filtered = %q", got)
	}

	if err := listObjects(&buf, ycb.Default(), "spoon"); err == nil {
		t.Error("expected an error when nothing matches")
	}
}
