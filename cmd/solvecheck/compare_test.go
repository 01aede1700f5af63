package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/solvecheck/internal/database"
	"github.com/nao1215/solvecheck/internal/model"
)

// saveTwoRuns stores a run with one wrong answer followed by a run where it
// is fixed, and returns the database directory.
func saveTwoRuns(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	first := writeFile(t, dir, "first.jsonl", linearProblems)
	second := writeFile(t, dir, "second.jsonl", linearProblemsFixed)
	for _, f := range []string{first, second} {
		if _, err := runCLI(t, "verify", "--save", "--db-dir", dir, f); err != nil {
			t.Fatalf("verify %s: %v", f, err)
		}
	}
	return dir
}

func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	dir := saveTwoRuns(t)

	t.Run("lists runs", func(t *testing.T) {
		t.Parallel()

		out, err := runCLI(t, "history", "--db-dir", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Stored runs (2)") {
			t.Errorf("expected two runs, got\n%s", out)
		}
	})

	t.Run("problem history", func(t *testing.T) {
		t.Parallel()

		out, err := runCLI(t, "history", "--db-dir", dir, "lin-ok")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "History for lin-ok (2 verdicts)") {
			t.Errorf("expected two verdicts, got\n%s", out)
		}
	})

	t.Run("unknown problem", func(t *testing.T) {
		t.Parallel()

		_, err := runCLI(t, "history", "--db-dir", dir, "missing")
		if !errors.Is(err, database.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("print a run", func(t *testing.T) {
		t.Parallel()

		db, err := database.Open(dir, database.Options{})
		if err != nil {
			t.Fatalf("failed to open: %v", err)
		}
		ids, err := db.LatestRunIDs(t.Context(), 1)
		_ = db.Close()
		if err != nil || len(ids) != 1 {
			t.Fatalf("expected a run id, got %v (%v)", ids, err)
		}

		out, err := runCLI(t, "history", "--db-dir", dir, "--run", ids[0])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Run ID:    "+ids[0]) || !strings.Contains(out, "[MATCH] lin-bad") {
			t.Errorf("expected the stored report, got\n%s", out)
		}
	})

	t.Run("missing database", func(t *testing.T) {
		t.Parallel()

		_, err := runCLI(t, "history", "--db-dir", t.TempDir())
		if !errors.Is(err, database.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCompareCmd(t *testing.T) {
	t.Parallel()

	dir := saveTwoRuns(t)

	t.Run("latest two runs as text", func(t *testing.T) {
		t.Parallel()

		out, err := runCLI(t, "compare", "--db-dir", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, s := range []string{"RUN COMPARISON", "IMPROVED", "[+] lin-bad: MISMATCH -> MATCH", "Only in previous run: essay"} {
			if !strings.Contains(out, s) {
				t.Errorf("expected output to contain %q\n%s", s, out)
			}
		}
	})

	t.Run("json output", func(t *testing.T) {
		t.Parallel()

		out, err := runCLI(t, "compare", "--db-dir", dir, "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var c model.Comparison
		if err := json.Unmarshal([]byte(out), &c); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if c.Direction != model.DirectionImproved || len(c.Fixed) != 1 {
			t.Errorf("expected one fix and an improvement, got %+v", c)
		}
	})

	t.Run("same run twice", func(t *testing.T) {
		t.Parallel()

		_, err := runCLI(t, "compare", "--db-dir", dir, "--run", "x", "--with", "x")
		if err == nil {
			t.Error("expected an error comparing a run with itself")
		}
	})

	t.Run("unknown run", func(t *testing.T) {
		t.Parallel()

		_, err := runCLI(t, "compare", "--db-dir", dir, "--run", "nope")
		if !errors.Is(err, database.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
