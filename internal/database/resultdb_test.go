package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/solvecheck/internal/model"
)

// setupTestDB opens a database in a temporary directory.
func setupTestDB(t *testing.T) *ResultDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newResult(id, final string, status model.AnswerStatus, subject model.Subject) *model.Result {
	res := model.NewResult(&model.Problem{ID: id, Question: "Solve 2x + 3 = 11", Final: final})
	res.Status = status
	res.Subject = subject
	res.VerifiedAt = time.Now()
	return res
}

func newReport(runID string, started time.Time, results ...*model.Result) *model.Report {
	r := model.NewReport(runID)
	r.StartedAt = started
	r.FinishedAt = started.Add(time.Second)
	r.Results = results
	return r
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "nested", "dir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); err != nil {
			t.Errorf("expected database file, got %v", err)
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("expected path %q, got %q", filepath.Join(dbDir, FileName), db.Path())
		}
	})

	t.Run("missing database without create", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("reopens an existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		if err := db.SaveReport(context.Background(), newReport("r1", time.Now(),
			newResult("p", "x=4", model.StatusMatches, model.SubjectAlgebra))); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		_ = db.Close()

		again, err := Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen: %v", err)
		}
		defer again.Close()
		if _, err := again.LoadRun(context.Background(), "r1"); err != nil {
			t.Errorf("expected stored run after reopen, got %v", err)
		}
	})
}

func TestSaveAndLoadRun(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	report := newReport("run-1", started,
		newResult("b", "x=4", model.StatusMatches, model.SubjectAlgebra),
		newResult("a", "x=5", model.StatusMismatch, model.SubjectAlgebra),
		newResult("c", "x=6", model.StatusNotApplicable, ""),
	)
	report.Results[2].Error = "no plugin"
	if err := db.SaveReport(ctx, report); err != nil {
		t.Fatalf("failed to save report: %v", err)
	}

	loaded, err := db.LoadRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("failed to load run: %v", err)
	}

	ids := make([]string, len(loaded.Results))
	for i, res := range loaded.Results {
		ids[i] = res.ProblemID
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, ids); diff != "" {
		t.Errorf("result order mismatch (-want +got):\n%s", diff)
	}
	want := model.Summary{
		Total: 3, Matches: 1, Mismatches: 1, Unverified: 1, Errors: 1,
		BySubject: map[model.Subject]int{model.SubjectAlgebra: 2},
	}
	if diff := cmp.Diff(want, loaded.Summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
	if !loaded.StartedAt.Equal(started) {
		t.Errorf("expected start %v, got %v", started, loaded.StartedAt)
	}
	if loaded.Results[0].Problem == nil || loaded.Results[0].Problem.Final != "x=4" {
		t.Errorf("expected problem round trip, got %+v", loaded.Results[0].Problem)
	}

	if _, err := db.LoadRun(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveResultReplacesSameProblem(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	first := newResult("p", "x=4", model.StatusMismatch, model.SubjectAlgebra)
	second := newResult("p", "x=4", model.StatusMatches, model.SubjectAlgebra)
	for _, res := range []*model.Result{first, second} {
		if err := db.SaveResult(ctx, "run", res); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
	}

	loaded, err := db.LoadRun(ctx, "run")
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if len(loaded.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(loaded.Results))
	}
	if loaded.Results[0].Status != model.StatusMatches {
		t.Errorf("expected latest status %q, got %q", model.StatusMatches, loaded.Results[0].Status)
	}
}

func TestConcurrentSaveResult(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := newResult("p", string(rune('a'+i)), model.StatusMatches, model.SubjectAlgebra)
			errs <- db.SaveResult(ctx, "run", res)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	loaded, err := db.LoadRun(ctx, "run")
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if len(loaded.Results) != 20 {
		t.Errorf("expected 20 results, got %d", len(loaded.Results))
	}
}

func TestListRunsAndHistory(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	older := newReport("old", base, newResult("hw-1", "x=5", model.StatusMismatch, model.SubjectAlgebra))
	newer := newReport("new", base.Add(time.Hour), newResult("hw-1", "x=5", model.StatusMatches, model.SubjectAlgebra))
	for _, r := range []*model.Report{older, newer} {
		if err := db.SaveReport(ctx, r); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
	}

	ids, err := db.LatestRunIDs(ctx, 0)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if diff := cmp.Diff([]string{"new", "old"}, ids); diff != "" {
		t.Errorf("run order mismatch (-want +got):\n%s", diff)
	}

	runs, err := db.ListRuns(ctx, 1)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(runs) != 1 || runs[0].Summary.Matches != 1 {
		t.Errorf("expected newest run with 1 match, got %+v", runs)
	}

	history, err := db.History(ctx, "hw-1")
	if err != nil {
		t.Fatalf("failed to get history: %v", err)
	}
	statuses := make([]model.AnswerStatus, len(history))
	for i, h := range history {
		statuses[i] = h.Status
	}
	if diff := cmp.Diff([]model.AnswerStatus{model.StatusMatches, model.StatusMismatch}, statuses); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}

	byFingerprint, err := db.History(ctx, history[0].Fingerprint)
	if err != nil || len(byFingerprint) != 2 {
		t.Errorf("expected lookup by fingerprint to find 2 entries, got %d (%v)", len(byFingerprint), err)
	}

	if _, err := db.History(ctx, "unknown"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestNewRunID(t *testing.T) {
	t.Parallel()

	a, b := NewRunID(), NewRunID()
	if a == b {
		t.Error("expected distinct run IDs")
	}
	if len(a) != 36 {
		t.Errorf("expected a 36 character UUID, got %q", a)
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected time.Time
	}{
		{"2026-01-02T03:04:05.5Z", time.Date(2026, 1, 2, 3, 4, 5, 5e8, time.UTC)},
		{"2026-01-02T03:04:05Z", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2026-01-02 03:04:05", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"", time.Time{}},
		{"garbage", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := parseTimestamp(tt.input); !got.Equal(tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}
