package numeric

import "math"

// Tolerance is a combined relative and absolute tolerance. Two values are
// equal when |a-b| <= max(Abs, Rel*max(|a|, |b|)).
type Tolerance struct {
	Rel float64
	Abs float64
}

// Tolerance classes.
var (
	// Tight is for algebraic identities evaluated exactly.
	Tight = Tolerance{Rel: 1e-6, Abs: 1e-9}

	// Reported is for closed-form recomputation compared with a rounded
	// human-written answer.
	Reported = Tolerance{Rel: 5e-3, Abs: 1e-6}

	// Loose is for iterative methods and money amounts.
	Loose = Tolerance{Rel: 1e-2, Abs: 1e-3}

	// Sampled is for sampled derivative and antiderivative checks.
	Sampled = Tolerance{Rel: 1e-3, Abs: 1e-4}
)

// Equal reports whether a and b are equal within the tolerance. NaN and
// infinities never compare equal.
func (t Tolerance) Equal(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) {
		return false
	}
	return math.Abs(a-b) <= t.Bound(a, b)
}

// Bound returns the allowed difference between a and b.
func (t Tolerance) Bound(a, b float64) float64 {
	return math.Max(t.Abs, t.Rel*math.Max(math.Abs(a), math.Abs(b)))
}

// WithAbs returns a copy whose absolute part is at least abs.
func (t Tolerance) WithAbs(abs float64) Tolerance {
	if abs > t.Abs {
		t.Abs = abs
	}
	return t
}

// RoundingSlack returns half a unit in the last written decimal place:
// 0.005 for a value written with two decimals. Integers get 0.5.
func RoundingSlack(decimals int) float64 {
	return 0.5 * math.Pow(10, -float64(decimals))
}
