package report

import (
	"io"
	"strconv"

	"github.com/nao1215/solvecheck/internal/model"
)

// Writer renders run reports and comparisons.
type Writer interface {
	// Write outputs a run report.
	Write(report *model.Report) (int, error)

	// WriteComparison outputs the difference between two runs.
	WriteComparison(comparison *model.Comparison) (int, error)
}

// MultiWriter writes to several Writers in order.
//
// Design decision: a separate type rather than io.MultiWriter because each
// destination may render a different format.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to every writer, stopping at the first error.
func (m *MultiWriter) Write(report *model.Report) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteComparison outputs the comparison to every writer.
func (m *MultiWriter) WriteComparison(comparison *model.Comparison) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteComparison(comparison)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// timeLayout is used for every timestamp in text and Markdown output.
const timeLayout = "2006-01-02 15:04:05 MST"

// formatValue renders a check side, "-" when absent.
func formatValue(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'g', 8, 64)
}

// formatDelta renders a signed count change.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}

// statusLabel renders an answer status for people.
func statusLabel(s model.AnswerStatus) string {
	switch s {
	case model.StatusMatches:
		return "MATCH"
	case model.StatusMismatch:
		return "MISMATCH"
	default:
		return "UNVERIFIED"
	}
}

// truncateString clamps s to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// questionOf returns the problem question or raw text for display.
func questionOf(res *model.Result) string {
	if res.Problem == nil {
		return ""
	}
	if res.Problem.Question != "" {
		return res.Problem.Question
	}
	return res.Problem.RawText
}
