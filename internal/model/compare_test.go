package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func resultWith(id string, final string, status AnswerStatus) *Result {
	res := NewResult(&Problem{ID: id, Question: "Solve 2x+3=11", Final: final})
	res.Status = status
	return res
}

func TestCompareReports(t *testing.T) {
	t.Parallel()

	previous := NewReport("run-a")
	previous.Results = []*Result{
		resultWith("fixed", "x=1", StatusMismatch),
		resultWith("regressed", "x=2", StatusMatches),
		resultWith("same", "x=3", StatusMatches),
		resultWith("gone", "x=4", StatusMismatch),
		resultWith("lost", "x=5", StatusMismatch),
	}
	current := NewReport("run-b")
	current.Results = []*Result{
		resultWith("fixed", "x=1", StatusMatches),
		resultWith("regressed", "x=2", StatusMismatch),
		resultWith("same", "x=3", StatusMatches),
		resultWith("lost", "x=5", StatusNotApplicable),
		resultWith("new", "x=6", StatusMatches),
	}

	c := CompareReports(previous, current)

	ids := func(cs []StatusChange) []string {
		out := make([]string, 0, len(cs))
		for _, s := range cs {
			out = append(out, s.ProblemID)
		}
		return out
	}
	if diff := cmp.Diff([]string{"fixed"}, ids(c.Fixed)); diff != "" {
		t.Errorf("fixed mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"regressed"}, ids(c.Regressed)); diff != "" {
		t.Errorf("regressed mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"lost"}, ids(c.Changed)); diff != "" {
		t.Errorf("changed mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"new"}, c.Added); diff != "" {
		t.Errorf("added mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"gone"}, c.Removed); diff != "" {
		t.Errorf("removed mismatch (-want +got):\n%s", diff)
	}
	if c.UnchangedCount != 1 {
		t.Errorf("expected 1 unchanged, got %d", c.UnchangedCount)
	}
	// 3 mismatches before, 1 after.
	if c.Direction != DirectionImproved || c.MismatchDelta != -2 {
		t.Errorf("expected improved by 2, got %s %d", c.Direction, c.MismatchDelta)
	}
	if !c.HasChanges() {
		t.Error("expected HasChanges to be true")
	}
}

func TestCompareReportsIdentical(t *testing.T) {
	t.Parallel()

	a := NewReport("a")
	a.Results = []*Result{resultWith("p", "x=4", StatusMatches)}
	b := NewReport("b")
	// An edited final under the same ID is still the same problem.
	b.Results = []*Result{resultWith("p", "x = 4", StatusMatches)}

	c := CompareReports(a, b)
	if c.HasChanges() {
		t.Errorf("expected no changes, got %+v", c)
	}
	if c.Direction != DirectionUnchanged {
		t.Errorf("expected %q, got %q", DirectionUnchanged, c.Direction)
	}
}
