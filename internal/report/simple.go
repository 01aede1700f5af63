package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/solvecheck/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs human-readable text reports.
//
// Design decision: plain ASCII without ANSI colors so output pipes cleanly
// into files and other tools.
type SimpleWriter struct {
	baseWriter

	// showAll lists matching results too, not only mismatches and unverified.
	showAll bool

	// verbose prints every check instead of only failed ones.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowAll lists every result, including matching ones.
func WithShowAll(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showAll = show
	}
}

// WithVerbose prints every check of each listed result.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the run report.
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	report.Summarize()

	var sb strings.Builder
	w.writeBanner(&sb, "SOLVECHECK REPORT")
	fmt.Fprintf(&sb, "Run ID:    %s\n", report.RunID)
	fmt.Fprintf(&sb, "Started:   %s\n", report.StartedAt.Format(timeLayout))
	if !report.FinishedAt.IsZero() {
		fmt.Fprintf(&sb, "Elapsed:   %s\n", report.FinishedAt.Sub(report.StartedAt).Round(1e6))
	}
	sb.WriteString("\n")

	w.writeSection(&sb, "SUMMARY")
	s := report.Summary
	fmt.Fprintf(&sb, "  MATCH:      %d\n", s.Matches)
	fmt.Fprintf(&sb, "  MISMATCH:   %d\n", s.Mismatches)
	fmt.Fprintf(&sb, "  UNVERIFIED: %d\n", s.Unverified)
	if s.Errors > 0 {
		fmt.Fprintf(&sb, "  ERRORS:     %d\n", s.Errors)
	}
	fmt.Fprintf(&sb, "\n  TOTAL:      %d problems\n\n", s.Total)

	if counts := s.SubjectCounts(); len(counts) > 0 {
		w.writeSection(&sb, "BY SUBJECT")
		for _, c := range counts {
			fmt.Fprintf(&sb, "  %-16s %d\n", c.Subject, c.Count)
		}
		sb.WriteString("\n")
	}

	w.writeResults(&sb, report)

	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeResults(sb *strings.Builder, report *model.Report) {
	var listed []*model.Result
	for _, res := range report.Results {
		if res == nil {
			continue
		}
		if w.showAll || res.Status != model.StatusMatches || res.Error != "" {
			listed = append(listed, res)
		}
	}
	if len(listed) == 0 {
		return
	}

	w.writeSection(sb, "RESULTS")
	for _, res := range listed {
		subject := string(res.Subject)
		if subject == "" {
			subject = "-"
		}
		fmt.Fprintf(sb, "[%s] %s (%s)\n", statusLabel(res.Status), res.ProblemID, subject)
		if q := questionOf(res); q != "" {
			fmt.Fprintf(sb, "    Question: %s\n", truncateString(q, 60))
		}
		if res.Problem != nil && res.Problem.Final != "" {
			fmt.Fprintf(sb, "    Final:    %s\n", truncateString(res.Problem.Final, 60))
		}
		if res.Error != "" {
			fmt.Fprintf(sb, "    Error:    %s\n", res.Error)
		}
		if res.Verification != nil {
			if w.verbose {
				fmt.Fprintf(sb, "    Method:   %s\n", res.Verification.Method)
			}
			for _, c := range res.Verification.Checks {
				if !w.verbose && c.OK {
					continue
				}
				w.writeCheck(sb, c)
			}
		}
		sb.WriteString("\n")
	}
}

func (w *SimpleWriter) writeCheck(sb *strings.Builder, c model.Check) {
	mark := "ok"
	if !c.OK {
		mark = "FAIL"
	}
	fmt.Fprintf(sb, "    - %-4s %s", mark, c.Label)
	if c.LHS != nil || c.RHS != nil {
		fmt.Fprintf(sb, "  expected=%s got=%s", formatValue(c.LHS), formatValue(c.RHS))
	}
	if c.Reason != "" {
		fmt.Fprintf(sb, "  (%s)", c.Reason)
	}
	sb.WriteString("\n")
}

// WriteComparison outputs the comparison of two runs.
func (w *SimpleWriter) WriteComparison(c *model.Comparison) (int, error) {
	var sb strings.Builder
	w.writeBanner(&sb, "RUN COMPARISON")
	fmt.Fprintf(&sb, "Previous run: %s (%s)\n", c.Previous.RunID, c.Previous.StartedAt.Format(timeLayout))
	fmt.Fprintf(&sb, "Current run:  %s (%s)\n", c.Current.RunID, c.Current.StartedAt.Format(timeLayout))
	fmt.Fprintf(&sb, "\nStatus: %s\n\n", directionText(c.Direction))

	w.writeSection(&sb, "SUMMARY")
	fmt.Fprintf(&sb, "  %-12s  %-9s  %-9s  %s\n", "Status", "Previous", "Current", "Change")
	rows := []struct {
		name      string
		prev, cur int
	}{
		{"Match", c.Previous.Summary.Matches, c.Current.Summary.Matches},
		{"Mismatch", c.Previous.Summary.Mismatches, c.Current.Summary.Mismatches},
		{"Unverified", c.Previous.Summary.Unverified, c.Current.Summary.Unverified},
		{"Total", c.Previous.Summary.Total, c.Current.Summary.Total},
	}
	for _, r := range rows {
		fmt.Fprintf(&sb, "  %-12s  %-9d  %-9d  %s\n", r.name, r.prev, r.cur, formatDelta(r.cur-r.prev))
	}
	sb.WriteString("\n")

	writeChanges := func(title, marker string, cs []model.StatusChange) {
		if len(cs) == 0 {
			return
		}
		fmt.Fprintf(&sb, "%s (%d):\n", title, len(cs))
		for _, ch := range cs {
			fmt.Fprintf(&sb, "  [%s] %s: %s -> %s\n", marker, ch.ProblemID, statusLabel(ch.Before), statusLabel(ch.After))
		}
		sb.WriteString("\n")
	}
	writeChanges("Fixed", "+", c.Fixed)
	writeChanges("Regressed", "-", c.Regressed)
	writeChanges("Changed", "~", c.Changed)

	if len(c.Added) > 0 {
		fmt.Fprintf(&sb, "Only in current run: %s\n", strings.Join(c.Added, ", "))
	}
	if len(c.Removed) > 0 {
		fmt.Fprintf(&sb, "Only in previous run: %s\n", strings.Join(c.Removed, ", "))
	}
	fmt.Fprintf(&sb, "Unchanged: %d problems\n", c.UnchangedCount)
	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeBanner(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	pad := (ruleWidth - len(title)) / 2
	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
}

func (w *SimpleWriter) writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

// directionText renders a comparison direction.
func directionText(d model.Direction) string {
	switch d {
	case model.DirectionImproved:
		return "IMPROVED (fewer mismatches)"
	case model.DirectionWorsened:
		return "WORSENED (more mismatches)"
	default:
		return "UNCHANGED"
	}
}
