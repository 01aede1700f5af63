package quantity

import (
	"math"
	"testing"
)

func TestParseNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"42", 42, true},
		{"-3.5 m", -3.5, true},
		{"value is 1.2e3", 1200, true},
		{"6.02*10^23", 6.02e23, true},
		{"3 x 10^(-4) m", 3e-4, true},
		{"10^(-3)", 1e-3, true},
		{"x-1", 1, true},
		{"R2 = 6", 6, true},
		{"no digits", 0, false},
		{".5", 0.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseNumber(tt.input)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && math.Abs(got-tt.expected) > 1e-12*math.Max(1, math.Abs(tt.expected)) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestParsePercentOrNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected float64
	}{
		{"10%", 0.1},
		{"7.5 %", 0.075},
		{"5 percent", 0.05},
		{"0.08", 0.08},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, ok := ParsePercentOrNumber(tt.input)
			if !ok || math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("expected %v, got %v (ok=%v)", tt.expected, got, ok)
			}
		})
	}
}

func TestDecimals(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"4":       0,
		"-49.18":  2,
		"3.0":     1,
		"1.250e3": 3,
		"5.":      0,
	}
	for in, want := range tests {
		if got := Decimals(in); got != want {
			t.Errorf("Decimals(%q): expected %d, got %d", in, want, got)
		}
	}
}
