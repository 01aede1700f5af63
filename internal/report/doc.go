// Package report renders verification runs and run comparisons.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown with a mermaid pie chart of answer statuses
//
// Design decision: report data lives in the model package and rendering
// lives here, so a new output format never touches the verification types.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed with MultiWriter.
package report
