package numeric

import (
	"errors"
	"math"
)

// ErrSingular is returned when a matrix has no inverse.
var ErrSingular = errors.New("matrix is singular")

// ErrShape is returned for mismatched or non-square dimensions.
var ErrShape = errors.New("matrix dimensions do not match")

// pivotEpsilon is the magnitude below which a pivot counts as zero,
// relative to the largest entry.
const pivotEpsilon = 1e-10

// Identity returns the n×n identity matrix.
func Identity(n int) [][]float64 {
	m := Zeros(n, n)
	for i := range m {
		m[i][i] = 1
	}
	return m
}

// Zeros returns an r×c zero matrix.
func Zeros(r, c int) [][]float64 {
	m := make([][]float64, r)
	for i := range m {
		m[i] = make([]float64, c)
	}
	return m
}

// Clone returns a deep copy of a.
func Clone(a [][]float64) [][]float64 {
	out := make([][]float64, len(a))
	for i, row := range a {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

func isSquare(a [][]float64) bool {
	for _, row := range a {
		if len(row) != len(a) {
			return false
		}
	}
	return len(a) > 0
}

func scaleOf(a [][]float64) float64 {
	s := 0.0
	for _, row := range a {
		for _, v := range row {
			s = math.Max(s, math.Abs(v))
		}
	}
	return s
}

// Determinant computes det(a) by Gaussian elimination with partial pivoting.
func Determinant(a [][]float64) (float64, error) {
	if !isSquare(a) {
		return 0, ErrShape
	}
	m := Clone(a)
	n := len(m)
	det := 1.0
	for col := 0; col < n; col++ {
		p := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[p][col]) {
				p = r
			}
		}
		if m[p][col] == 0 {
			return 0, nil
		}
		if p != col {
			m[p], m[col] = m[col], m[p]
			det = -det
		}
		det *= m[col][col]
		for r := col + 1; r < n; r++ {
			f := m[r][col] / m[col][col]
			for c := col; c < n; c++ {
				m[r][c] -= f * m[col][c]
			}
		}
	}
	return det, nil
}

// Rank computes the rank of a by row reduction with partial pivoting.
func Rank(a [][]float64) int {
	if len(a) == 0 {
		return 0
	}
	m := Clone(a)
	rows, cols := len(m), len(m[0])
	eps := pivotEpsilon * math.Max(1, scaleOf(m))
	rank := 0
	for col := 0; col < cols && rank < rows; col++ {
		p := rank
		for r := rank + 1; r < rows; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[p][col]) {
				p = r
			}
		}
		if math.Abs(m[p][col]) <= eps {
			continue
		}
		m[p], m[rank] = m[rank], m[p]
		for r := rank + 1; r < rows; r++ {
			f := m[r][col] / m[rank][col]
			for c := col; c < cols; c++ {
				m[r][c] -= f * m[rank][c]
			}
		}
		rank++
	}
	return rank
}

// Solve solves a·x = b by Gaussian elimination with partial pivoting.
func Solve(a [][]float64, b []float64) ([]float64, error) {
	if !isSquare(a) || len(b) != len(a) {
		return nil, ErrShape
	}
	n := len(a)
	m := Clone(a)
	x := append([]float64(nil), b...)
	eps := pivotEpsilon * math.Max(1, scaleOf(m))
	for col := 0; col < n; col++ {
		p := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[p][col]) {
				p = r
			}
		}
		if math.Abs(m[p][col]) <= eps {
			return nil, ErrSingular
		}
		m[p], m[col] = m[col], m[p]
		x[p], x[col] = x[col], x[p]
		for r := col + 1; r < n; r++ {
			f := m[r][col] / m[col][col]
			for c := col; c < n; c++ {
				m[r][c] -= f * m[col][c]
			}
			x[r] -= f * x[col]
		}
	}
	for r := n - 1; r >= 0; r-- {
		s := x[r]
		for c := r + 1; c < n; c++ {
			s -= m[r][c] * x[c]
		}
		x[r] = s / m[r][r]
	}
	return x, nil
}

// Inverse computes a⁻¹ by Gauss-Jordan elimination.
func Inverse(a [][]float64) ([][]float64, error) {
	if !isSquare(a) {
		return nil, ErrShape
	}
	n := len(a)
	m := Clone(a)
	inv := Identity(n)
	eps := pivotEpsilon * math.Max(1, scaleOf(m))
	for col := 0; col < n; col++ {
		p := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[p][col]) {
				p = r
			}
		}
		if math.Abs(m[p][col]) <= eps {
			return nil, ErrSingular
		}
		m[p], m[col] = m[col], m[p]
		inv[p], inv[col] = inv[col], inv[p]
		pv := m[col][col]
		for c := 0; c < n; c++ {
			m[col][c] /= pv
			inv[col][c] /= pv
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			f := m[r][col]
			for c := 0; c < n; c++ {
				m[r][c] -= f * m[col][c]
				inv[r][c] -= f * inv[col][c]
			}
		}
	}
	return inv, nil
}

// Trace returns the sum of the diagonal.
func Trace(a [][]float64) float64 {
	s := 0.0
	for i := 0; i < len(a) && i < len(a[i]); i++ {
		s += a[i][i]
	}
	return s
}

// MulVec returns a·v.
func MulVec(a [][]float64, v []float64) ([]float64, error) {
	out := make([]float64, len(a))
	for i, row := range a {
		if len(row) != len(v) {
			return nil, ErrShape
		}
		out[i] = Dot(row, v)
	}
	return out, nil
}

// Dot returns the dot product of equal-length vectors.
func Dot(a, b []float64) float64 {
	s := 0.0
	for i := 0; i < len(a) && i < len(b); i++ {
		s += a[i] * b[i]
	}
	return s
}

// Norm returns the Euclidean norm.
func Norm(a []float64) float64 {
	return math.Sqrt(Dot(a, a))
}

// Cross returns the cross product of two 3-vectors.
func Cross(a, b []float64) ([]float64, error) {
	if len(a) != 3 || len(b) != 3 {
		return nil, ErrShape
	}
	return []float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}, nil
}

// Eigen2x2 returns the eigenvalues of a 2×2 matrix from its characteristic
// quadratic λ² - tr·λ + det = 0. ok is false for complex eigenvalues, whose
// real part and imaginary magnitude are returned instead.
func Eigen2x2(a [][]float64) (l1, l2 float64, ok bool, err error) {
	if len(a) != 2 || len(a[0]) != 2 || len(a[1]) != 2 {
		return 0, 0, false, ErrShape
	}
	tr := a[0][0] + a[1][1]
	det := a[0][0]*a[1][1] - a[0][1]*a[1][0]
	disc := tr*tr - 4*det
	if disc < 0 {
		return tr / 2, math.Sqrt(-disc) / 2, false, nil
	}
	s := math.Sqrt(disc)
	return (tr + s) / 2, (tr - s) / 2, true, nil
}
