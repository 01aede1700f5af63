package main

import (
	"strings"
	"testing"

	"github.com/nao1215/solvecheck/internal/model"
)

func TestSubjectsCmd(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, "subjects")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(model.Subjects()) {
		t.Fatalf("expected %d subjects, got %d:\n%s", len(model.Subjects()), len(lines), out)
	}
	if !strings.HasPrefix(lines[0], string(model.SubjectAlgebra)) {
		t.Errorf("expected algebra first, got %q", lines[0])
	}
	if !strings.Contains(out, string(model.SubjectLinearAlgebra)) {
		t.Errorf("expected %q in output", model.SubjectLinearAlgebra)
	}
}
