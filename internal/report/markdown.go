package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/solvecheck/internal/model"
)

// MarkdownWriter outputs reports in Markdown for sharing, for example as a
// pull request comment on a problem set.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the run report.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	report.Summarize()
	md := markdown.NewMarkdown(w.output)

	md.H1("Solvecheck Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + report.RunID + "`"},
			{"Started", report.StartedAt.Format(timeLayout)},
			{"Problems", strconv.Itoa(report.Summary.Total)},
		},
	})
	md.PlainText("")

	w.writeSummary(md, report.Summary)
	w.writeSubjects(md, report.Summary)
	w.writeResults(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, s model.Summary) {
	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows: [][]string{
			{"✅ Match", strconv.Itoa(s.Matches)},
			{"❌ Mismatch", strconv.Itoa(s.Mismatches)},
			{"⚪ Unverified", strconv.Itoa(s.Unverified)},
			{"**Total**", "**" + strconv.Itoa(s.Total) + "**"},
		},
	})
	md.PlainText("")

	if s.Total > 0 {
		w.writePieChart(md, s)
	}

	switch {
	case s.Errors > 0:
		md.Warningf("%d problem(s) hit an error while being processed.", s.Errors)
	case s.Mismatches > 0:
		md.Cautionf("%d answer(s) do not match the recomputed result.", s.Mismatches)
	case s.Matches > 0 && s.Unverified == 0:
		md.Tip("Every answer matches.")
	default:
		md.Note("Some problems could not be verified by any subject.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Answer Status"),
		piechart.WithShowData(true),
	)
	if s.Matches > 0 {
		chart.LabelAndIntValue("Match", uint64(s.Matches))
	}
	if s.Mismatches > 0 {
		chart.LabelAndIntValue("Mismatch", uint64(s.Mismatches))
	}
	if s.Unverified > 0 {
		chart.LabelAndIntValue("Unverified", uint64(s.Unverified))
	}
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeSubjects(md *markdown.Markdown, s model.Summary) {
	counts := s.SubjectCounts()
	if len(counts) == 0 {
		return
	}
	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{string(c.Subject), strconv.Itoa(c.Count)}
	}
	md.H2("By Subject")
	md.PlainText("")
	md.Table(markdown.TableSet{Header: []string{"Subject", "Verified"}, Rows: rows})
	md.PlainText("")
}

func (w *MarkdownWriter) writeResults(md *markdown.Markdown, report *model.Report) {
	md.H2("Results")
	md.PlainText("")
	if len(report.Results) == 0 {
		md.PlainText("No problems were verified.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(report.Results))
	for _, res := range report.Results {
		if res == nil {
			continue
		}
		subject := string(res.Subject)
		if subject == "" {
			subject = "-"
		}
		final := "-"
		if res.Problem != nil && res.Problem.Final != "" {
			final = truncateString(res.Problem.Final, 40)
		}
		rows = append(rows, []string{
			"`" + res.ProblemID + "`",
			statusIcon(res.Status) + " " + statusLabel(res.Status),
			subject,
			escapeCell(final),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Problem", "Status", "Subject", "Final"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, res := range report.ResultsByStatus(model.StatusMismatch) {
		md.Details(res.ProblemID, failedChecksText(res))
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by solvecheck*")
}

// WriteComparison outputs the comparison of two runs.
func (w *MarkdownWriter) WriteComparison(c *model.Comparison) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Run Comparison")
	md.PlainText("")
	md.PlainTextf("**Status:** %s", directionText(c.Direction))
	md.PlainText("")

	p, q := c.Previous.Summary, c.Current.Summary
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Previous", "Current", "Change"},
		Rows: [][]string{
			{"Run", "`" + c.Previous.RunID + "`", "`" + c.Current.RunID + "`", "-"},
			{"Match", strconv.Itoa(p.Matches), strconv.Itoa(q.Matches), formatDelta(q.Matches - p.Matches)},
			{"Mismatch", strconv.Itoa(p.Mismatches), strconv.Itoa(q.Mismatches), formatDelta(q.Mismatches - p.Mismatches)},
			{"Unverified", strconv.Itoa(p.Unverified), strconv.Itoa(q.Unverified), formatDelta(q.Unverified - p.Unverified)},
			{"**Total**", strconv.Itoa(p.Total), strconv.Itoa(q.Total), formatDelta(q.Total - p.Total)},
		},
	})
	md.PlainText("")

	writeChanges := func(title string, cs []model.StatusChange) {
		if len(cs) == 0 {
			return
		}
		items := make([]string, len(cs))
		for i, ch := range cs {
			items[i] = "`" + ch.ProblemID + "`: " + statusLabel(ch.Before) + " → " + statusLabel(ch.After)
		}
		md.H2(fmt.Sprintf("%s (%d)", title, len(cs)))
		md.PlainText("")
		md.BulletList(items...)
		md.PlainText("")
	}
	writeChanges("Fixed", c.Fixed)
	writeChanges("Regressed", c.Regressed)
	writeChanges("Changed", c.Changed)

	if len(c.Added) > 0 {
		md.PlainTextf("*Only in current run:* %s", strings.Join(c.Added, ", "))
		md.PlainText("")
	}
	if len(c.Removed) > 0 {
		md.PlainTextf("*Only in previous run:* %s", strings.Join(c.Removed, ", "))
		md.PlainText("")
	}
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*%d problems unchanged*", c.UnchangedCount)

	return len(md.String()), md.Build()
}

func statusIcon(s model.AnswerStatus) string {
	switch s {
	case model.StatusMatches:
		return "✅"
	case model.StatusMismatch:
		return "❌"
	default:
		return "⚪"
	}
}

// failedChecksText lists the failed checks of a result, one per line.
func failedChecksText(res *model.Result) string {
	if res.Verification == nil {
		return "no verification"
	}
	var sb strings.Builder
	for _, c := range res.Verification.FailedChecks() {
		sb.WriteString("- ")
		sb.WriteString(c.Label)
		if c.LHS != nil || c.RHS != nil {
			sb.WriteString(": expected " + formatValue(c.LHS) + ", got " + formatValue(c.RHS))
		}
		if c.Reason != "" {
			sb.WriteString(" (" + c.Reason + ")")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// escapeCell keeps table cells on one row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
