package numeric

import (
	"errors"
	"math"
)

// Func is a real function that may fail, for example with a domain error
// from the expression evaluator.
type Func func(x float64) (float64, error)

// SimpsonIntervals is the fixed number of Simpson sub-intervals.
const SimpsonIntervals = 200

// ErrNoLimit is returned when a limit estimate does not settle.
var ErrNoLimit = errors.New("limit does not converge")

// Simpson integrates f over [a, b] with composite Simpson's rule on n
// sub-intervals. n is rounded up to an even number.
func Simpson(f Func, a, b float64, n int) (float64, error) {
	if n < 2 {
		n = 2
	}
	if n%2 == 1 {
		n++
	}
	h := (b - a) / float64(n)
	fa, err := f(a)
	if err != nil {
		return 0, err
	}
	fb, err := f(b)
	if err != nil {
		return 0, err
	}
	sum := fa + fb
	for i := 1; i < n; i++ {
		y, err := f(a + float64(i)*h)
		if err != nil {
			return 0, err
		}
		if i%2 == 1 {
			sum += 4 * y
		} else {
			sum += 2 * y
		}
	}
	return sum * h / 3, nil
}

// step returns the central difference step for x.
func step(x float64) float64 {
	return 1e-5 * math.Max(1, math.Abs(x))
}

// Derivative estimates f'(x) by a central difference.
func Derivative(f Func, x float64) (float64, error) {
	h := step(x)
	a, err := f(x + h)
	if err != nil {
		return 0, err
	}
	b, err := f(x - h)
	if err != nil {
		return 0, err
	}
	return (a - b) / (2 * h), nil
}

// SecondDerivative estimates the second derivative of f at x by a central
// second difference.
func SecondDerivative(f Func, x float64) (float64, error) {
	h := 1e-3 * math.Max(1, math.Abs(x))
	a, err := f(x + h)
	if err != nil {
		return 0, err
	}
	m, err := f(x)
	if err != nil {
		return 0, err
	}
	b, err := f(x - h)
	if err != nil {
		return 0, err
	}
	return (a - 2*m + b) / (h * h), nil
}

// Limit estimates the two-sided limit of f at x by sampling both sides with
// a shrinking offset. It fails when the sides disagree or the samples do
// not settle.
func Limit(f Func, x float64) (float64, error) {
	var left, right []float64
	for _, h := range []float64{1e-2, 1e-3, 1e-4, 1e-5, 1e-6} {
		d := h * math.Max(1, math.Abs(x))
		r, err := f(x + d)
		if err != nil {
			continue
		}
		l, err := f(x - d)
		if err != nil {
			continue
		}
		right = append(right, r)
		left = append(left, l)
	}
	if len(left) < 2 {
		return 0, ErrNoLimit
	}
	lv, rv := left[len(left)-1], right[len(right)-1]
	scale := math.Max(1, math.Max(math.Abs(lv), math.Abs(rv)))
	if math.Abs(lv-rv) > 1e-3*scale {
		return 0, ErrNoLimit
	}
	if math.Abs(left[len(left)-1]-left[len(left)-2]) > 1e-2*scale {
		return 0, ErrNoLimit
	}
	return (lv + rv) / 2, nil
}

// LimitAtInfinity estimates the limit of f as x tends to +inf (sign > 0)
// or -inf (sign < 0).
func LimitAtInfinity(f Func, sign float64) (float64, error) {
	var ys []float64
	for _, x := range []float64{1e3, 1e4, 1e5, 1e6, 1e7} {
		y, err := f(math.Copysign(x, sign))
		if err != nil {
			continue
		}
		ys = append(ys, y)
	}
	if len(ys) < 2 {
		return 0, ErrNoLimit
	}
	last, prev := ys[len(ys)-1], ys[len(ys)-2]
	if math.Abs(last-prev) > 1e-3*math.Max(1, math.Abs(last)) {
		return 0, ErrNoLimit
	}
	return last, nil
}
