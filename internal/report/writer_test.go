package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/solvecheck/internal/model"
)

// createTestReport builds a run with one match, one mismatch and one
// unverified problem.
func createTestReport() *model.Report {
	r := model.NewReport("run-1234")
	r.StartedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r.FinishedAt = r.StartedAt.Add(1500 * time.Millisecond)

	ok := model.NewResult(&model.Problem{ID: "alg-1", Question: "Solve 2x + 3 = 11", Final: "x = 4"})
	ok.SetVerification(model.NewVerification(model.SubjectAlgebra, "substitution",
		[]model.Check{model.NewCheck("x=4", true, 11, 11, "")}))

	bad := model.NewResult(&model.Problem{ID: "ckt-1", Question: "V = 10 V, R = 2 ohm. Find I", Final: "I = 4 A"})
	bad.SetVerification(model.NewVerification(model.SubjectCircuits, "ohm's law",
		[]model.Check{model.NewCheck("current", false, 5, 4, "value differs")}))

	none := model.NewResult(&model.Problem{ID: "essay", Question: "Describe a river"})

	r.Results = []*model.Result{ok, bad, none}
	return r
}

func createTestComparison() *model.Comparison {
	return &model.Comparison{
		Previous:       model.RunInfo{RunID: "run-a", Summary: model.Summary{Total: 2, Mismatches: 2}},
		Current:        model.RunInfo{RunID: "run-b", Summary: model.Summary{Total: 2, Matches: 1, Mismatches: 1}},
		Fixed:          []model.StatusChange{{ProblemID: "p1", Before: model.StatusMismatch, After: model.StatusMatches}},
		Added:          []string{"p9"},
		UnchangedCount: 1,
		Direction:      model.DirectionImproved,
		MismatchDelta:  -1,
	}
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		opts        []SimpleWriterOption
		contains    []string
		notContains []string
	}{
		{
			name: "default lists only problems needing attention",
			contains: []string{
				"SOLVECHECK REPORT",
				"Run ID:    run-1234",
				"MATCH:      1",
				"MISMATCH:   1",
				"UNVERIFIED: 1",
				"TOTAL:      3 problems",
				"[MISMATCH] ckt-1 (circuits)",
				"FAIL current  expected=5 got=4  (value differs)",
				"[UNVERIFIED] essay (-)",
			},
			notContains: []string{"[MATCH] alg-1", "ERRORS:"},
		},
		{
			name:     "show all and verbose",
			opts:     []SimpleWriterOption{WithShowAll(true), WithVerbose(true)},
			contains: []string{"[MATCH] alg-1 (algebra)", "Method:   substitution", "ok   x=4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			n, err := NewSimpleWriter(&buf, tt.opts...).Write(createTestReport())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n != buf.Len() {
				t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
			}
			out := buf.String()
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("expected output to contain %q\n%s", s, out)
				}
			}
			for _, s := range tt.notContains {
				if strings.Contains(out, s) {
					t.Errorf("expected output not to contain %q", s)
				}
			}
		})
	}
}

func TestSimpleWriterComparison(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewSimpleWriter(&buf).WriteComparison(createTestComparison()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, s := range []string{
		"RUN COMPARISON",
		"Status: IMPROVED (fewer mismatches)",
		"Fixed (1):",
		"[+] p1: MISMATCH -> MATCH",
		"Only in current run: p9",
		"Unchanged: 1 problems",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("expected output to contain %q\n%s", s, out)
		}
	}
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact report round trips", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("expected single-line compact output")
		}

		var got model.Report
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		want := model.Summary{
			Total: 3, Matches: 1, Mismatches: 1, Unverified: 1,
			BySubject: map[model.Subject]int{model.SubjectAlgebra: 1, model.SubjectCircuits: 1},
		}
		if diff := cmp.Diff(want, got.Summary); diff != "" {
			t.Errorf("summary mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).WriteComparison(createTestComparison()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"direction\": \"improved\"") {
			t.Errorf("expected indented direction field, got %s", buf.String())
		}
	})

	t.Run("full writer wraps with version", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewFullJSONWriter(&buf, "1.2.3", WithIndent("", "\t")).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var got JSONReport
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Version != "1.2.3" {
			t.Errorf("expected version 1.2.3, got %q", got.Version)
		}
		if got.Report == nil || len(got.Report.Results) != 3 {
			t.Errorf("expected 3 results in wrapped report, got %+v", got.Report)
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, s := range []string{
		"# Solvecheck Report",
		"## Summary",
		"```mermaid",
		"pie",
		"Answer Status",
		"## By Subject",
		"## Results",
		"`ckt-1`",
		"current: expected 5, got 4 (value differs)",
		"[!CAUTION]",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("expected markdown to contain %q\n%s", s, out)
		}
	}
}

func TestMarkdownWriterEmptyReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(model.NewReport("empty")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "```mermaid") {
		t.Error("expected no pie chart for an empty run")
	}
	if !strings.Contains(out, "No problems were verified.") {
		t.Errorf("expected empty notice, got\n%s", out)
	}
}

func TestMarkdownWriterComparison(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).WriteComparison(createTestComparison()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, s := range []string{"# Run Comparison", "IMPROVED", "## Fixed (1)", "`p1`: MISMATCH → MATCH", "p9"} {
		if !strings.Contains(out, s) {
			t.Errorf("expected markdown to contain %q\n%s", s, out)
		}
	}
}

// failingWriter fails every write.
type failingWriter struct{}

func (failingWriter) Write(*model.Report) (int, error) { return 0, errors.New("write failed") }

func (failingWriter) WriteComparison(*model.Comparison) (int, error) {
	return 0, errors.New("write failed")
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes every format", func(t *testing.T) {
		t.Parallel()

		var text, js bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))
		n, err := mw.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != text.Len()+js.Len() {
			t.Errorf("expected %d total bytes, got %d", text.Len()+js.Len(), n)
		}
		if text.Len() == 0 || js.Len() == 0 {
			t.Error("expected both writers to receive output")
		}
	})

	t.Run("stops at the first error", func(t *testing.T) {
		t.Parallel()

		var after bytes.Buffer
		mw := NewMultiWriter(failingWriter{}, NewSimpleWriter(&after))
		if _, err := mw.WriteComparison(createTestComparison()); err == nil {
			t.Fatal("expected an error")
		}
		if after.Len() != 0 {
			t.Error("expected later writers to be skipped")
		}
	})
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is long", 8, "this ..."},
		{"abcdef", 2, "ab"},
		{"ΔT = 5 K", 5, "ΔT..."},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := truncateString(tt.input, tt.maxLen); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
