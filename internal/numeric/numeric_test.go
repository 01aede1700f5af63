package numeric

import (
	"errors"
	"math"
	"testing"
)

func TestToleranceEqual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tol      Tolerance
		a, b     float64
		expected bool
	}{
		{"tight exact", Tight, 11, 11, true},
		{"tight off", Tight, 11, 11.001, false},
		{"tight near zero", Tight, 0, 1e-10, true},
		{"reported rounding", Reported, 3.14159, 3.14, true},
		{"loose npv", Loose, -49.04, -49.18, true},
		{"nan never equal", Loose, math.NaN(), math.NaN(), false},
		{"inf never equal", Loose, math.Inf(1), math.Inf(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.tol.Equal(tt.a, tt.b); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRoundingSlack(t *testing.T) {
	t.Parallel()

	if got := RoundingSlack(2); math.Abs(got-0.005) > 1e-15 {
		t.Errorf("expected 0.005, got %v", got)
	}
	if got := RoundingSlack(0); got != 0.5 {
		t.Errorf("expected 0.5, got %v", got)
	}
	if got := Tight.WithAbs(0.01); got.Abs != 0.01 || got.Rel != Tight.Rel {
		t.Errorf("expected widened abs, got %+v", got)
	}
}

func pure(f func(float64) float64) Func {
	return func(x float64) (float64, error) { return f(x), nil }
}

func TestSimpson(t *testing.T) {
	t.Parallel()

	got, err := Simpson(pure(func(x float64) float64 { return x * x }), 0, 3, SimpsonIntervals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-9) > 1e-9 {
		t.Errorf("expected 9, got %v", got)
	}

	got, _ = Simpson(pure(math.Sin), 0, math.Pi, 199)
	if math.Abs(got-2) > 1e-6 {
		t.Errorf("expected 2, got %v", got)
	}
}

func TestDerivatives(t *testing.T) {
	t.Parallel()

	f := pure(func(x float64) float64 { return x*x*x - 2*x })
	d, _ := Derivative(f, 2)
	if !Sampled.Equal(d, 10) {
		t.Errorf("expected f'(2)=10, got %v", d)
	}
	d2, _ := SecondDerivative(f, 2)
	if !Sampled.Equal(d2, 12) {
		t.Errorf("expected f''(2)=12, got %v", d2)
	}
}

func TestLimit(t *testing.T) {
	t.Parallel()

	sinc := func(x float64) (float64, error) {
		if x == 0 {
			return 0, errors.New("undefined")
		}
		return math.Sin(x) / x, nil
	}
	got, err := Limit(sinc, 0)
	if err != nil || !Sampled.Equal(got, 1) {
		t.Errorf("expected 1, got %v (%v)", got, err)
	}

	step := pure(func(x float64) float64 {
		if x < 0 {
			return -1
		}
		return 1
	})
	if _, err := Limit(step, 0); !errors.Is(err, ErrNoLimit) {
		t.Errorf("expected ErrNoLimit for a jump, got %v", err)
	}

	inf, err := LimitAtInfinity(pure(func(x float64) float64 { return (3*x + 1) / (x - 2) }), 1)
	if err != nil || !Sampled.Equal(inf, 3) {
		t.Errorf("expected 3, got %v (%v)", inf, err)
	}
}

func TestFindRoot(t *testing.T) {
	t.Parallel()

	f := pure(func(x float64) float64 { return x*x - 2 })
	x, err := FindRoot(f, 1, 0, 10, 1e-12)
	if err != nil || math.Abs(x-math.Sqrt2) > 1e-9 {
		t.Errorf("expected sqrt(2), got %v (%v)", x, err)
	}

	// Newton diverges from 0 on a flat start; bisection must take over.
	g := pure(func(x float64) float64 { return math.Atan(x - 5) })
	x, err = FindRoot(g, 0, -10, 20, 1e-12)
	if err != nil || math.Abs(x-5) > 1e-9 {
		t.Errorf("expected 5, got %v (%v)", x, err)
	}

	if _, err := FindRoot(pure(func(x float64) float64 { return x*x + 1 }), 0, -5, 5, 1e-9); !errors.Is(err, ErrNoRoot) {
		t.Errorf("expected ErrNoRoot, got %v", err)
	}
}

func TestChooseSymmetry(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 60; n++ {
		for k := 0; k <= n; k++ {
			if Choose(n, k) != Choose(n, n-k) {
				t.Fatalf("C(%d,%d)=%v != C(%d,%d)=%v", n, k, Choose(n, k), n, n-k, Choose(n, n-k))
			}
		}
	}
	if got := Choose(10, 3); got != 120 {
		t.Errorf("expected 120, got %v", got)
	}
	if got := Permutations(10, 3); got != 720 {
		t.Errorf("expected 720, got %v", got)
	}
	if got := Factorial(10); got != 3628800 {
		t.Errorf("expected 3628800, got %v", got)
	}
	if got := Choose(5, 7); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
	if !math.IsInf(Factorial(1000), 1) {
		t.Error("expected 1000! to overflow to +Inf")
	}
}

func TestBinomialPMFSumsToOne(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		n int
		p float64
	}{{10, 0.3}, {1, 0.5}, {50, 0.9}, {200, 0.01}, {5, 0}, {5, 1}} {
		s := 0.0
		for k := 0; k <= tc.n; k++ {
			s += BinomialPMF(tc.n, k, tc.p)
		}
		if math.Abs(s-1) > 1e-6 {
			t.Errorf("n=%d p=%v: expected sum 1, got %v", tc.n, tc.p, s)
		}
	}
	if got := BinomialCDF(10, 10, 0.3); got != 1 {
		t.Errorf("expected CDF at n to be 1, got %v", got)
	}
}

func TestPoisson(t *testing.T) {
	t.Parallel()

	if got := PoissonPMF(2, 3); math.Abs(got-0.22404180765538775) > 1e-12 {
		t.Errorf("expected 0.2240, got %v", got)
	}
	if got := PoissonCDF(100, 3); math.Abs(got-1) > 1e-9 {
		t.Errorf("expected 1, got %v", got)
	}
}

func TestDistributions(t *testing.T) {
	t.Parallel()

	if got := NormalCDF(1.96); math.Abs(got-0.9750021) > 1e-6 {
		t.Errorf("expected 0.975, got %v", got)
	}
	if got := NormalInv(0.975); math.Abs(got-1.959964) > 1e-5 {
		t.Errorf("expected 1.96, got %v", got)
	}
	if got := StudentTCDF(0, 7); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("expected 0.5, got %v", got)
	}
	// t(0.975, 10) = 2.228
	if got := StudentTCDF(2.228, 10); math.Abs(got-0.975) > 1e-4 {
		t.Errorf("expected 0.975, got %v", got)
	}
	if got := StudentTInv(0.975, 10); math.Abs(got-2.228) > 1e-3 {
		t.Errorf("expected 2.228, got %v", got)
	}
	if got := RegIncBeta(2, 3, 0.4); math.Abs(got-0.5248) > 1e-9 {
		t.Errorf("expected 0.5248, got %v", got)
	}
}

func TestCriticalValues(t *testing.T) {
	t.Parallel()

	if got := ZCritical(0.95); got != 1.960 {
		t.Errorf("expected 1.960, got %v", got)
	}
	if got := ZCritical(0.93); math.Abs(got-1.8119) > 1e-3 {
		t.Errorf("expected 1.812, got %v", got)
	}
	if got := TCritical(0.95, 9); got != 2.262 {
		t.Errorf("expected 2.262, got %v", got)
	}
	if got := TCritical(0.95, 35); math.Abs(got-2.030) > 1e-3 {
		t.Errorf("expected 2.030, got %v", got)
	}
}

func TestLinearAlgebra(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 6; n++ {
		d, err := Determinant(Identity(n))
		if err != nil || d != 1 {
			t.Errorf("det(I%d): expected 1, got %v (%v)", n, d, err)
		}
	}
	if r := Rank(Zeros(3, 4)); r != 0 {
		t.Errorf("expected rank 0, got %d", r)
	}
	if r := Rank([][]float64{{1, 2}, {2, 4}}); r != 1 {
		t.Errorf("expected rank 1, got %d", r)
	}

	a := [][]float64{{2, 1}, {1, 3}}
	d, _ := Determinant(a)
	if math.Abs(d-5) > 1e-12 {
		t.Errorf("expected det 5, got %v", d)
	}
	x, err := Solve(a, []float64{3, 5})
	if err != nil || math.Abs(x[0]-0.8) > 1e-12 || math.Abs(x[1]-1.4) > 1e-12 {
		t.Errorf("expected [0.8 1.4], got %v (%v)", x, err)
	}
	inv, err := Inverse(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]float64{{0.6, -0.2}, {-0.2, 0.4}}
	for i := range want {
		for j := range want[i] {
			if math.Abs(inv[i][j]-want[i][j]) > 1e-12 {
				t.Errorf("inv[%d][%d]: expected %v, got %v", i, j, want[i][j], inv[i][j])
			}
		}
	}
	if _, err := Inverse([][]float64{{1, 2}, {2, 4}}); !errors.Is(err, ErrSingular) {
		t.Errorf("expected ErrSingular, got %v", err)
	}

	l1, l2, isReal, _ := Eigen2x2([][]float64{{2, 0}, {0, 3}})
	if !isReal || l1 != 3 || l2 != 2 {
		t.Errorf("expected eigenvalues 3, 2; got %v, %v (real=%v)", l1, l2, isReal)
	}

	c, _ := Cross([]float64{1, 0, 0}, []float64{0, 1, 0})
	if c[0] != 0 || c[1] != 0 || c[2] != 1 {
		t.Errorf("expected [0 0 1], got %v", c)
	}
	if Norm([]float64{3, 4}) != 5 {
		t.Error("expected norm 5")
	}
}
