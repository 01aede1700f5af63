package candidate

import (
	"math"
	"sort"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		final    string
		expected []Clause
	}{
		{"bare number", "4", []Clause{{Values: []Value{{4, 0, ""}}}}},
		{"labeled", "x = 4", []Clause{{Label: "x", Values: []Value{{4, 0, ""}}}}},
		{"decimals kept", "npv = -49.18", []Clause{{Label: "npv", Values: []Value{{-49.18, 2, ""}}}}},
		{"unit ignored", "I = 5A", []Clause{{Label: "i", Values: []Value{{5, 0, "A"}}}}},
		{"unit word ignored", "I = 5 amps", []Clause{{Label: "i", Values: []Value{{5, 0, "amps"}}}}},
		{"alternatives", "x = 2 or x = -3", []Clause{
			{Label: "x", Values: []Value{{2, 0, ""}}},
			{Label: "x", Values: []Value{{-3, 0, ""}}},
		}},
		{"comma alternatives", "x = 2, -3", []Clause{{Label: "x", Values: []Value{{2, 0, ""}, {-3, 0, ""}}}}},
		{"plus minus", "x = 3 ± 0.5", []Clause{{Label: "x", Values: []Value{{3.5, 1, ""}, {2.5, 1, ""}}}}},
		{"two labels", "x = 1, y = 2", []Clause{
			{Label: "x", Values: []Value{{1, 0, ""}}},
			{Label: "y", Values: []Value{{2, 0, ""}}},
		}},
		{"and before label", "x = 2 m and y = 3", []Clause{
			{Label: "x", Values: []Value{{2, 0, "m"}}},
			{Label: "y", Values: []Value{{3, 0, ""}}},
		}},
		{"multi-word label", "The net present value = -49.18", []Clause{{Label: "net present value", Values: []Value{{-49.18, 2, ""}}}}},
		{"expression value", "x = 3/4", []Clause{{Label: "x", Values: []Value{{0.75, 0, ""}}}}},
		{"sqrt with unit", "d = √2 m", []Clause{{Label: "d", Values: []Value{{math.Sqrt2, 0, ""}}}}},
		{"tuple", "(3, 4)", []Clause{{Vector: []float64{3, 4}}}},
		{"tuple alternatives", "(0, 0) or (5, 7)", []Clause{{Vector: []float64{0, 0}}, {Vector: []float64{5, 7}}}},
		{"vector", "v = [1, 2, 3]", []Clause{{Label: "v", Vector: []float64{1, 2, 3}}}},
		{"matrix", "[[1, 0], [0, 1]]", []Clause{{Matrix: [][]float64{{1, 0}, {0, 1}}}}},
		{"broken operators", "x = 4 +* 2", []Clause{{Label: "x", Malformed: true}}},
		{"broken brackets", "x = 4)/(", []Clause{{Label: "x", Malformed: true}}},
		{"unit with operators salvaged", "a = 9.8 m/s^2", []Clause{{Label: "a", Values: []Value{{9.8, 1, "m/s^2"}}}}},
		{"sentence", "The answer is 12.5 N", []Clause{{Values: []Value{{12.5, 1, ""}}}}},
		{"scientific", "c = 3 x 10^8 m/s", []Clause{{Label: "c", Values: []Value{{3e8, 0, "m/s"}}}}},
	}

	approx := cmp.Comparer(func(a, b float64) bool { return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(a)) })
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Parse(tt.final).Clauses
			if diff := cmp.Diff(tt.expected, got, approx, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("clauses mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	f := Parse("The NPV = -49.18 and IRR = 7.7%")
	vs, ok := f.Lookup("npv")
	if !ok || vs[0].Num != -49.18 {
		t.Errorf("expected npv -49.18, got %v (ok=%v)", vs, ok)
	}
	vs, ok = f.Lookup("irr")
	if !ok || math.Abs(vs[0].Num-0.077) > 1e-12 {
		t.Errorf("expected irr 0.077, got %v (ok=%v)", vs, ok)
	}
	if _, ok := f.Lookup("mirr"); ok {
		t.Error("expected no mirr")
	}
	if _, ok := f.Bare(); ok {
		t.Error("expected labeled answer not to be bare")
	}

	bare := Parse("4.5")
	if vs, ok := bare.Bare(); !ok || vs[0].Num != 4.5 {
		t.Errorf("expected bare 4.5, got %v", vs)
	}
}

func assignments(cs []Candidate) []map[string]float64 {
	out := make([]map[string]float64, 0, len(cs))
	for _, c := range cs {
		if c.Values != nil {
			out = append(out, c.Assignment())
		}
	}
	return out
}

func TestFromFinal(t *testing.T) {
	t.Parallel()

	sortByX := cmpopts.SortSlices(func(a, b map[string]float64) bool {
		ka, kb := keys(a), keys(b)
		return ka < kb
	})

	tests := []struct {
		name      string
		final     string
		variables []string
		expected  []map[string]float64
	}{
		{"bare binds to only variable", "4", []string{"x"}, []map[string]float64{{"x": 4}}},
		{"labeled", "x = 4", []string{"x"}, []map[string]float64{{"x": 4}}},
		{"two roots", "x = 2 or x = -3", []string{"x"}, []map[string]float64{{"x": 2}, {"x": -3}}},
		{"tuple binds in order", "(1, 2)", []string{"x", "y"}, []map[string]float64{{"x": 1, "y": 2}}},
		{"unlabeled pair binds in order", "1, 2", []string{"x", "y"}, []map[string]float64{{"x": 1, "y": 2}}},
		{"cartesian product", "x = 1 or 2, y = 3 or 4", []string{"x", "y"}, []map[string]float64{
			{"x": 1, "y": 3}, {"x": 1, "y": 4}, {"x": 2, "y": 3}, {"x": 2, "y": 4},
		}},
		{"duplicates removed", "x = 2, x = 2.0", []string{"x"}, []map[string]float64{{"x": 2}}},
		{"label bound by last word", "the value of x = 7", []string{"x"}, []map[string]float64{{"x": 7}}},
		{"no variables", "12", nil, []map[string]float64{{"": 12}}},
		{"tuples stay joint", "(0, 0) or (1, 1)", []string{"x", "y"}, []map[string]float64{{"x": 0, "y": 0}, {"x": 1, "y": 1}}},
		{"malformed binds nothing", "x = 4 +* 2", []string{"x"}, []map[string]float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := assignments(FromFinal(tt.final, tt.variables))
			if diff := cmp.Diff(tt.expected, got, sortByX); diff != "" {
				t.Errorf("candidates mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		final    string
		expected bool
	}{
		{"x = 4 +* 2", true},
		{"x = 4)/(", true},
		{"x = 4", false},
		{"I = 5 mA", false},
		{"The answer is 12.5 N", false},
		{"f'(x) = 2x + 3", false},
	}
	for _, tt := range tests {
		t.Run(tt.final, func(t *testing.T) {
			t.Parallel()
			if got := Parse(tt.final).Malformed(); got != tt.expected {
				t.Errorf("expected Malformed()=%v, got %v", tt.expected, got)
			}
		})
	}
}

func TestFromFinalVectorAndMatrix(t *testing.T) {
	t.Parallel()

	cs := FromFinal("[1, 2, 3]", nil)
	if len(cs) != 1 || len(cs[0].Vector) != 3 {
		t.Fatalf("expected one vector candidate, got %+v", cs)
	}
	cs = FromFinal("[[2, 0], [0, 2]]", nil)
	if len(cs) != 1 || len(cs[0].Matrix) != 2 {
		t.Fatalf("expected one matrix candidate, got %+v", cs)
	}
}

func keys(m map[string]float64) string {
	ks := make([]string, 0, len(m))
	for k, v := range m {
		ks = append(ks, k+"="+strconv.FormatFloat(v, 'g', -1, 64))
	}
	sort.Strings(ks)
	out := ""
	for _, k := range ks {
		out += k + ";"
	}
	return out
}
