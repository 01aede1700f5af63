package numeric

import (
	"errors"
	"math"
)

const (
	// NewtonIterations bounds Newton's method.
	NewtonIterations = 30

	// BisectionSteps bounds the bisection fallback.
	BisectionSteps = 300

	// bracketSamples is how many points are sampled to find a sign change.
	bracketSamples = 400
)

// ErrNoRoot is returned when no root could be located.
var ErrNoRoot = errors.New("no root found")

// Newton runs at most NewtonIterations Newton steps from x0 using a central
// difference derivative. It reports success when |f(x)| <= tol.
func Newton(f Func, x0, tol float64) (float64, error) {
	x := x0
	for i := 0; i < NewtonIterations; i++ {
		y, err := f(x)
		if err != nil {
			return 0, err
		}
		if math.Abs(y) <= tol {
			return x, nil
		}
		d, err := Derivative(f, x)
		if err != nil {
			return 0, err
		}
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return 0, ErrNoRoot
		}
		nx := x - y/d
		if math.IsNaN(nx) || math.IsInf(nx, 0) {
			return 0, ErrNoRoot
		}
		x = nx
	}
	if y, err := f(x); err == nil && math.Abs(y) <= tol {
		return x, nil
	}
	return 0, ErrNoRoot
}

// Bisect finds a root of f in [lo, hi], which must bracket a sign change.
func Bisect(f Func, lo, hi float64) (float64, error) {
	flo, err := f(lo)
	if err != nil {
		return 0, err
	}
	fhi, err := f(hi)
	if err != nil {
		return 0, err
	}
	if flo == 0 {
		return lo, nil
	}
	if fhi == 0 {
		return hi, nil
	}
	if math.Signbit(flo) == math.Signbit(fhi) {
		return 0, ErrNoRoot
	}
	for i := 0; i < BisectionSteps; i++ {
		mid := (lo + hi) / 2
		fm, err := f(mid)
		if err != nil {
			return 0, err
		}
		if fm == 0 || hi-lo < 1e-15*math.Max(1, math.Abs(mid)) {
			return mid, nil
		}
		if math.Signbit(fm) == math.Signbit(flo) {
			lo, flo = mid, fm
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}

// FindRoot tries Newton's method from guess and falls back to bisection on
// the first sign-changing bracket found by sampling [lo, hi].
func FindRoot(f Func, guess, lo, hi, tol float64) (float64, error) {
	if x, err := Newton(f, guess, tol); err == nil && x >= lo && x <= hi {
		return x, nil
	}
	a, b, ok := FindBracket(f, lo, hi)
	if !ok {
		return 0, ErrNoRoot
	}
	return Bisect(f, a, b)
}

// FindBracket samples [lo, hi] and returns the first sub-interval over
// which f changes sign. Points where f fails are skipped.
func FindBracket(f Func, lo, hi float64) (float64, float64, bool) {
	step := (hi - lo) / bracketSamples
	px := lo
	py, perr := f(px)
	for i := 1; i <= bracketSamples; i++ {
		x := lo + float64(i)*step
		y, err := f(x)
		if err != nil {
			perr = err
			continue
		}
		if perr == nil && (y == 0 || math.Signbit(y) != math.Signbit(py)) {
			return px, x, true
		}
		px, py, perr = x, y, nil
	}
	return 0, 0, false
}
