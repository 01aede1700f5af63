package verify

import (
	"math"
	"testing"
)

func TestIRRZeroesNPV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flows []float64
	}{
		{"level inflows", []float64{-1000, 300, 300, 300, 300}},
		{"uneven inflows", []float64{-100, 50, 60}},
		{"single late inflow", []float64{-500, 0, 0, 800}},
		{"negative rate", []float64{-100, 50, 40}},
		{"long small inflows", []float64{-10, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
		{"two outflows", []float64{-1000, -500, 900, 900}},
		{"rate above ten", []float64{-1, 100}},
		{"rate above a thousand", []float64{-1, 5000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := irr(tt.flows)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v := npv(r, tt.flows); math.Abs(v) > 1e-6 {
				t.Errorf("expected |NPV| <= 1e-6 at %v, got %v", r, v)
			}
		})
	}
}

func TestIRRLargeRate(t *testing.T) {
	t.Parallel()

	r, err := irr([]float64{-1, 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(r-99) > 1e-6 {
		t.Errorf("expected 99, got %v", r)
	}
}

func TestIRRNoSignChange(t *testing.T) {
	t.Parallel()

	if r, err := irr([]float64{100, 50, 50}); err == nil {
		t.Errorf("expected an error, got %v", r)
	}
}
