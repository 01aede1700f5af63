// Package input loads problem records for batch verification.
//
// Three formats are accepted, chosen by file extension:
//   - .json: a single record or an array of records
//   - .jsonl / .ndjson: one record per line (blank lines are skipped)
//   - .yaml / .yml: a single record, a sequence of records, or several
//     "---" separated documents
//
// The field names are those of model.Problem: id, type, question,
// raw_text, steps (before, after, text, action) and final.
package input
