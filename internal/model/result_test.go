package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestProblemFingerprint(t *testing.T) {
	t.Parallel()

	a := &Problem{ID: "one", Question: "Solve 2x+3=11", Final: "x=4"}
	b := &Problem{ID: "two", Question: "Solve 2x+3=11", Final: "x=4"}
	c := &Problem{ID: "one", Question: "Solve 2x+3=11", Final: "x=5"}

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("expected fingerprint to ignore the ID")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("expected different content to yield a different fingerprint")
	}
	if got := len(a.Fingerprint()); got != 64 {
		t.Errorf("expected 64 hex characters, got %d", got)
	}
}

func TestProblemDisplayID(t *testing.T) {
	t.Parallel()

	p := &Problem{Question: "q"}
	if got := p.DisplayID(); got != p.Fingerprint()[:12] {
		t.Errorf("expected fingerprint prefix, got %q", got)
	}
	p.ID = "hw-7"
	if got := p.DisplayID(); got != "hw-7" {
		t.Errorf("expected %q, got %q", "hw-7", got)
	}
}

func TestReportSummarize(t *testing.T) {
	t.Parallel()

	pass := NewVerification(SubjectAlgebra, "m", []Check{NewCheck("a", true, 1, 1, "")})
	fail := NewVerification(SubjectPhysics, "m", []Check{FailedCheck("a", "x")})

	r := NewReport("run-1")
	for i, v := range []*Verification{pass, pass, fail, nil} {
		res := NewResult(&Problem{Question: string(rune('a' + i))})
		res.SetVerification(v)
		r.Results = append(r.Results, res)
	}
	r.Results[3].Error = "storage failed"
	r.Summarize()

	want := Summary{
		Total:      4,
		Matches:    2,
		Mismatches: 1,
		Unverified: 1,
		Errors:     1,
		BySubject:  map[Subject]int{SubjectAlgebra: 2, SubjectPhysics: 1},
	}
	if diff := cmp.Diff(want, r.Summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
	if !r.HasMismatches() {
		t.Error("expected HasMismatches to be true")
	}
	if got := len(r.ResultsByStatus(StatusMatches)); got != 2 {
		t.Errorf("expected 2 matching results, got %d", got)
	}

	counts := r.Summary.SubjectCounts()
	wantCounts := []SubjectCount{{SubjectAlgebra, 2}, {SubjectPhysics, 1}}
	if diff := cmp.Diff(wantCounts, counts); diff != "" {
		t.Errorf("subject counts mismatch (-want +got):\n%s", diff)
	}
}
