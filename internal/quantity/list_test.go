package quantity

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractNumberList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		label    []string
		expected []float64
		ok       bool
	}{
		{"bracketed", "data [2,4,4,4,5,5,7,9] mean?", nil, []float64{2, 4, 4, 4, 5, 5, 7, 9}, true},
		{"braced with negatives", "flows {-1000, 300, 300}", nil, []float64{-1000, 300, 300}, true},
		{"labeled bracket", "r = 10%, cash flows: [-1000, 300, 300, 300, 300]", []string{"cash flows"}, []float64{-1000, 300, 300, 300, 300}, true},
		{"labeled run", "data: 3, 5, 7 and 9. Find the mean", []string{"data"}, []float64{3, 5, 7, 9}, true},
		{"nested is not flat", "[[1,2],[3,4]]", nil, nil, false},
		{"none", "nothing here", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got []float64
			var ok bool
			if tt.label != nil {
				got, ok = ExtractNumberList(tt.text, Label(nil, tt.label))
			} else {
				got, ok = ExtractNumberList(tt.text, nil)
			}
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v (%v)", tt.ok, ok, got)
			}
			if diff := cmp.Diff(tt.expected, got); ok && diff != "" {
				t.Errorf("list mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractMatrix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		expected [][]float64
		ok       bool
	}{
		{"nested", "A = [[1, 2], [3, 4]]", [][]float64{{1, 2}, {3, 4}}, true},
		{"semicolon rows", "A = [2 0; 0 3]", [][]float64{{2, 0}, {0, 3}}, true},
		{"braces", "{{1,0,0},{0,1,0},{0,0,1}}", [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, true},
		{"ragged", "[[1,2],[3]]", nil, false},
		{"vector is not a matrix", "[1, 2, 3]", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ExtractMatrix(tt.text, nil)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if diff := cmp.Diff(tt.expected, got); ok && diff != "" {
				t.Errorf("matrix mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
