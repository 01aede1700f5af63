package input

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/solvecheck/internal/model"
)

func TestFormatOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		expected Format
		err      error
	}{
		{"a.json", FormatJSON, nil},
		{"a.JSONL", FormatJSONL, nil},
		{"a.ndjson", FormatJSONL, nil},
		{"dir/a.yml", FormatYAML, nil},
		{"a.yaml", FormatYAML, nil},
		{"-", FormatJSONL, nil},
		{"a.csv", "", ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, err := FormatOf(tt.path)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected error %v, got %v", tt.err, err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestRead(t *testing.T) {
	t.Parallel()

	want := []*model.Problem{
		{ID: "p1", Question: "Solve 2x+3=11", Final: "x=4"},
		{ID: "p2", Type: "circuits", Question: "V=10, R=2", Final: "I=5A", Steps: []model.Step{{Text: "I = V/R"}}},
	}

	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{
			name:   "json array",
			format: FormatJSON,
			input: `[{"id":"p1","question":"Solve 2x+3=11","final":"x=4"},
			         {"id":"p2","type":"circuits","question":"V=10, R=2","steps":[{"text":"I = V/R"}],"final":"I=5A"}]`,
		},
		{
			name:   "json lines",
			format: FormatJSONL,
			input: `{"id":"p1","question":"Solve 2x+3=11","final":"x=4"}

{"id":"p2","type":"circuits","question":"V=10, R=2","steps":[{"text":"I = V/R"}],"final":"I=5A"}
`,
		},
		{
			name:   "yaml sequence",
			format: FormatYAML,
			input: `- id: p1
  question: Solve 2x+3=11
  final: x=4
- id: p2
  type: circuits
  question: V=10, R=2
  steps:
    - text: I = V/R
  final: I=5A
`,
		},
		{
			name:   "yaml documents",
			format: FormatYAML,
			input: `id: p1
question: Solve 2x+3=11
final: x=4
---
id: p2
type: circuits
question: V=10, R=2
steps:
  - text: I = V/R
final: I=5A
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Read(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("problems mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadSingleJSONObject(t *testing.T) {
	t.Parallel()

	got, err := Read(strings.NewReader(`{"question":"q","final":"1"}`), FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Final != "1" {
		t.Errorf("expected one problem, got %+v", got)
	}
}

func TestReadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		format   Format
		input    string
		expected error
		contains string
	}{
		{"empty json", FormatJSON, "  ", ErrEmptyInput, ""},
		{"empty array", FormatJSON, "[]", ErrEmptyInput, ""},
		{"empty jsonl", FormatJSONL, "\n\n", ErrEmptyInput, ""},
		{"bad jsonl line", FormatJSONL, "{\"final\":\"1\"}\n{oops", nil, "line 2"},
		{"bad yaml", FormatYAML, "question: [", nil, "document 1"},
		{"unknown format", Format("csv"), "a,b", ErrUnsupportedFormat, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Read(strings.NewReader(tt.input), tt.format)
			if err == nil {
				t.Fatal("expected an error, got nil")
			}
			if tt.expected != nil && !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
			if tt.contains != "" && !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("expected error mentioning %q, got %v", tt.contains, err)
			}
		})
	}
}

func TestLoadAll(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "a.json")
	yamlPath := filepath.Join(dir, "b.yaml")
	if err := os.WriteFile(jsonPath, []byte(`[{"id":"a","final":"1"}]`), 0600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if err := os.WriteFile(yamlPath, []byte("id: b\nfinal: \"2\"\n"), 0600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	got, err := LoadAll([]string{jsonPath, yamlPath})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := make([]string, len(got))
	for i, p := range got {
		ids[i] = p.ID
	}
	if diff := cmp.Diff([]string{"a", "b"}, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	if _, err := LoadAll([]string{filepath.Join(dir, "missing.json")}); err == nil {
		t.Error("expected an error for a missing file")
	}
	if _, err := LoadAll(nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}
