package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/solvecheck/internal/config"
	"github.com/nao1215/solvecheck/internal/database"
	"github.com/nao1215/solvecheck/internal/input"
	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/report"
)

func TestVerifyCmdOutputs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		flags    []string
		contains []string
	}{
		{
			name:     "text report lists the mismatch",
			contains: []string{"SOLVECHECK REPORT", "MISMATCH:   1", "[MISMATCH] lin-bad (algebra)", "[UNVERIFIED] essay"},
		},
		{
			name:     "show all lists matches",
			flags:    []string{"--all"},
			contains: []string{"[MATCH] lin-ok (algebra)"},
		},
		{
			name:     "markdown report",
			flags:    []string{"--markdown"},
			contains: []string{"# Solvecheck Report", "```mermaid", "`lin-bad`"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			file := writeFile(t, dir, "set.jsonl", linearProblems)
			args := append([]string{"verify", "--db-dir", dir}, tt.flags...)
			out, err := runCLI(t, append(args, file)...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("expected output to contain %q\n%s", s, out)
				}
			}
			if _, err := os.Stat(filepath.Join(dir, database.FileName)); err == nil {
				t.Error("expected no database without --save")
			}
		})
	}
}

func TestVerifyCmdJSONToFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := writeFile(t, dir, "set.yaml", `- id: lin-ok
  question: Solve 2x + 3 = 11
  final: x = 4
- id: lin-bad
  question: Solve 3x - 2 = 7
  final: x = 2
`)
	reportPath := filepath.Join(dir, "out", "report.json")

	out, err := runCLI(t, "verify", "--json", "-o", reportPath, "-b", "1", file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("expected nothing on stdout, got %q", out)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	var got report.JSONReport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Report == nil || got.Report.Summary.Matches != 1 || got.Report.Summary.Mismatches != 1 {
		t.Fatalf("expected 1 match and 1 mismatch, got %+v", got.Report)
	}
	if got.Report.Results[1].Status != model.StatusMismatch {
		t.Errorf("expected input order with lin-bad second, got %q", got.Report.Results[1].ProblemID)
	}
}

func TestVerifyCmdDisable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := writeFile(t, dir, "set.jsonl", linearProblems)
	out, err := runCLI(t, "verify", "--disable", "algebra", "--json", file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got report.JSONReport
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Report.Summary.BySubject[model.SubjectAlgebra] != 0 {
		t.Errorf("expected no algebra verdicts, got %v", got.Report.Summary.BySubject)
	}
}

func TestVerifyCmdErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeFile(t, dir, "set.jsonl", linearProblems)
	csv := writeFile(t, dir, "set.csv", "a,b\n")
	badConfig := writeFile(t, dir, "bad.yaml", "disabledSubjects: [astrology]\n")

	tests := []struct {
		name     string
		args     []string
		expected error
	}{
		{"no input", []string{"verify"}, config.ErrNoInput},
		{"conflicting formats", []string{"verify", "--json", "--markdown", good}, config.ErrConflictingReportFormats},
		{"bad batch size", []string{"verify", "-b", "0", good}, config.ErrInvalidBatchSize},
		{"bad timeout", []string{"verify", "-t", "0s", good}, config.ErrInvalidTimeout},
		{"unknown subject flag", []string{"verify", "--disable", "astrology", good}, config.ErrUnknownSubject},
		{"unknown subject in file", []string{"verify", "-c", badConfig, good}, config.ErrUnknownSubject},
		{"missing explicit config", []string{"verify", "-c", filepath.Join(dir, "nope.yaml"), good}, config.ErrConfigNotFound},
		{"unsupported format", []string{"verify", csv}, input.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := runCLI(t, tt.args...)
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestVerifyCmdConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dbDir := filepath.Join(dir, "db")
	conf := writeFile(t, dir, "conf.yaml", "saveResults: true\ndbDir: "+dbDir+"\n")
	file := writeFile(t, dir, "set.jsonl", linearProblems)

	if _, err := runCLI(t, "verify", "-c", conf, file); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dbDir, database.FileName)); err != nil {
		t.Errorf("expected the config file to enable saving into %s: %v", dbDir, err)
	}
}
