package main

import (
	"strings"
	"testing"
)

func TestCurrentBuild(t *testing.T) {
	t.Parallel()

	b := currentBuild()
	if b.Version == "" || b.Commit == "" || b.Date == "" {
		t.Errorf("expected every field to be filled, got %+v", b)
	}
	if len(b.Commit) > 7 {
		t.Errorf("expected a short commit, got %q", b.Commit)
	}
}

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range []string{"solvecheck version", "commit:", "built:", "go:"} {
		if !strings.Contains(out, s) {
			t.Errorf("expected output to contain %q, got %q", s, out)
		}
	}
}
