package verify

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/nao1215/solvecheck/internal/candidate"
	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/numeric"
	"github.com/nao1215/solvecheck/internal/quantity"
)

// LinalgVerifier checks matrix and vector answers: determinants, ranks,
// traces, inverses, products, linear systems, eigenvalues and the vector
// operations.
//
// Design decision: eigenvalues of matrices larger than 2x2 are not
// computed up front. Each reported eigenvalue is instead refined to the
// nearest root of det(A - λI) and compared with that root, which checks
// real eigenvalues of any size without a general eigen solver.
type LinalgVerifier struct{}

// NewLinalgVerifier creates a LinalgVerifier.
func NewLinalgVerifier() *LinalgVerifier { return &LinalgVerifier{} }

// Subject returns model.SubjectLinearAlgebra.
func (l *LinalgVerifier) Subject() model.Subject { return model.SubjectLinearAlgebra }

// Keywords returns the routing vocabulary.
func (l *LinalgVerifier) Keywords() []string {
	return []string{
		"matrix", "matrices", "determinant", "inverse", "eigen", "rank", "trace", "vector",
		"dot product", "cross product", "magnitude", "norm", "projection", "transpose",
		"orthogonal", "unit vector", "linear system",
	}
}

// Matches reports whether the problem talks about matrices or vectors.
func (l *LinalgVerifier) Matches(p *Problem) bool {
	return p.mentions(l.Keywords()...)
}

// Run checks structured answers first, then scalar ones.
func (l *LinalgVerifier) Run(p *Problem) (*model.Verification, error) {
	if a, ok := matrixOf(p, lblMatrixA); ok {
		if checks := eigenChecks(p, a); len(checks) > 0 {
			return verification(model.SubjectLinearAlgebra, methodNumerical, checks), nil
		}
		for _, c := range []func(*Problem, [][]float64) []model.Check{inverseChecks, productChecks, systemChecks, transposeChecks} {
			if checks := c(p, a); len(checks) > 0 {
				return verification(model.SubjectLinearAlgebra, methodClosedForm, checks), nil
			}
		}
		if checks := resolve(p, matrixTargets(p, a)); len(checks) > 0 {
			return verification(model.SubjectLinearAlgebra, methodClosedForm, checks), nil
		}
	}
	vs := vectorsOf(p)
	if len(vs) == 0 {
		return nil, nil
	}
	for _, c := range []func(*Problem, [][]float64) []model.Check{crossChecks, projectionChecks, unitVectorChecks, sumChecks} {
		if checks := c(p, vs); len(checks) > 0 {
			return verification(model.SubjectLinearAlgebra, methodClosedForm, checks), nil
		}
	}
	return verification(model.SubjectLinearAlgebra, methodClosedForm, resolve(p, vectorTargets(p, vs))), nil
}

var (
	lblMatrixA = label("A M", "matrix", "matrix a", "the matrix")
	lblMatrixB = label("B", "matrix b")
	lblRHS     = label("b", "right-hand side", "vector b")

	// namedVector matches "u = (1, 2, 3)" and "v = <1, -2>".
	namedVector = regexp.MustCompile(`\b([A-Za-z])(?:_?\d)?\s*=\s*[(<\[]\s*(-?\d+(?:\.\d+)?(?:\s*,\s*-?\d+(?:\.\d+)?)+)\s*[)>\]]`)

	// tupleVector matches an unnamed "(1, 2, 3)" or "<1, 2>".
	tupleVector = regexp.MustCompile(`[(<]\s*(-?\d+(?:\.\d+)?(?:\s*,\s*-?\d+(?:\.\d+)?)+)\s*[)>]`)

	// componentVector matches "3i + 4j - k".
	componentVector = regexp.MustCompile(`(?:^|[\s=(,])((?:[+-]?\s*\d*(?:\.\d+)?\s*[ijk]\b\s*){2,3})`)
	component       = regexp.MustCompile(`([+-]?)\s*(\d*(?:\.\d+)?)\s*([ijk])`)
)

// matrixOf reads a labeled matrix, or the first matrix of the statement
// when it has none.
func matrixOf(p *Problem, l *regexp.Regexp) ([][]float64, bool) {
	if m, ok := quantity.ExtractMatrix(p.Statement, l); ok && len(m) > 1 {
		return m, true
	}
	if l != lblMatrixA {
		return nil, false
	}
	m, ok := quantity.ExtractMatrix(p.Statement, nil)
	return m, ok && len(m) > 1
}

func parseComponents(s string) []float64 {
	var out []float64
	for _, f := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil
		}
		out = append(out, v)
	}
	return out
}

// vectorsOf returns the vectors of the statement in order of appearance.
// Named vectors win over unnamed tuples and i/j/k notation.
func vectorsOf(p *Problem) [][]float64 {
	var vs [][]float64
	for _, m := range namedVector.FindAllStringSubmatch(p.Statement, -1) {
		if v := parseComponents(m[2]); v != nil {
			vs = append(vs, v)
		}
	}
	if len(vs) > 0 {
		return vs
	}
	for _, m := range tupleVector.FindAllStringSubmatch(p.Statement, -1) {
		if v := parseComponents(m[1]); v != nil {
			vs = append(vs, v)
		}
	}
	if len(vs) > 0 {
		return vs
	}
	for _, m := range componentVector.FindAllStringSubmatch(p.Statement, -1) {
		if v, ok := unitComponents(m[1]); ok {
			vs = append(vs, v)
		}
	}
	return vs
}

// unitComponents parses "3i + 4j - k" into a 3-vector.
func unitComponents(s string) ([]float64, bool) {
	v := make([]float64, 3)
	n := 0
	for _, m := range component.FindAllStringSubmatch(s, -1) {
		c := 1.0
		if m[2] != "" {
			f, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				return nil, false
			}
			c = f
		}
		if m[1] == "-" {
			c = -c
		}
		v[strings.Index("ijk", m[3])] += c
		n++
	}
	return v, n >= 2
}

func flatten(m [][]float64) []float64 {
	var out []float64
	for _, r := range m {
		out = append(out, r...)
	}
	return out
}

// matrixCheck compares a reported matrix with an expected one.
func matrixCheck(label string, expected [][]float64, p *Problem) []model.Check {
	got, ok := p.Final().Matrix()
	if !ok {
		return nil
	}
	if len(got) != len(expected) || len(got[0]) != len(expected[0]) {
		return []model.Check{model.FailedCheck(label, fmt.Sprintf("expected a %dx%d matrix, got %dx%d", len(expected), len(expected[0]), len(got), len(got[0])))}
	}
	return vectorChecks(label, flatten(expected), flatten(got), numeric.Reported)
}

func inverseChecks(p *Problem, a [][]float64) []model.Check {
	if !p.asks("inverse") {
		return nil
	}
	inv, err := numeric.Inverse(a)
	if err != nil {
		if _, ok := p.Final().Matrix(); ok {
			return []model.Check{model.FailedCheck("inverse", "matrix is singular")}
		}
		return nil
	}
	return matrixCheck("inverse", inv, p)
}

func transposeChecks(p *Problem, a [][]float64) []model.Check {
	if !p.asks("transpose") {
		return nil
	}
	t := numeric.Zeros(len(a[0]), len(a))
	for i := range a {
		for j := range a[i] {
			t[j][i] = a[i][j]
		}
	}
	return matrixCheck("transpose", t, p)
}

func productChecks(p *Problem, a [][]float64) []model.Check {
	if !p.asks("product", "multiply") {
		return nil
	}
	b, ok := matrixOf(p, lblMatrixB)
	if !ok || len(a[0]) != len(b) {
		return nil
	}
	out := numeric.Zeros(len(a), len(b[0]))
	for i := range a {
		for j := range b[0] {
			for k := range b {
				out[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return matrixCheck("product AB", out, p)
}

var unknownNames = [][]string{{"x", "x1", "x_1"}, {"y", "x2", "x_2"}, {"z", "x3", "x_3"}, {"w", "x4", "x_4"}}

// systemChecks solves Ax = b and compares the reported solution.
func systemChecks(p *Problem, a [][]float64) []model.Check {
	b, ok := p.list(lblRHS)
	if !ok || len(b) != len(a) {
		return nil
	}
	x, err := numeric.Solve(a, b)
	if err != nil {
		return nil
	}
	f := p.Final()
	if got, ok := f.LookupVector("x", "solution"); ok {
		return vectorChecks("solution of Ax = b", x, got, numeric.Reported)
	}
	if len(x) > len(unknownNames) {
		return nil
	}
	ts := make([]target, len(x))
	for i := range x {
		ts[i] = target{label: fmt.Sprintf("%s of Ax = b", unknownNames[i][0]), names: unknownNames[i], value: x[i]}
	}
	checks := resolve(p, ts)
	if len(checks) != len(x) {
		return nil
	}
	return checks
}

// reportedEigenvalues collects eigenvalues from "lambda1 = 2, lambda2 = 3",
// "eigenvalues: 2, 3" or "[2, 3]".
func reportedEigenvalues(f *candidate.Final) []float64 {
	var out []float64
	for _, c := range f.Clauses {
		if c.Label != "" && !strings.HasPrefix(c.Label, "lambda") && !strings.Contains(c.Label, "eigenvalue") {
			continue
		}
		if c.Vector != nil {
			out = append(out, c.Vector...)
			continue
		}
		for _, v := range c.Values {
			out = append(out, v.Num)
		}
	}
	return out
}

func characteristic(a [][]float64) numeric.Func {
	return func(lambda float64) (float64, error) {
		m := numeric.Clone(a)
		for i := range m {
			m[i][i] -= lambda
		}
		return numeric.Determinant(m)
	}
}

func eigenChecks(p *Problem, a [][]float64) []model.Check {
	if !p.asks("eigen") || len(a) != len(a[0]) {
		return nil
	}
	got := reportedEigenvalues(p.Final())
	if len(got) == 0 {
		return nil
	}
	sort.Float64s(got)
	if len(a) == 2 {
		l1, l2, isReal, err := numeric.Eigen2x2(a)
		if err != nil {
			return nil
		}
		if !isReal {
			return []model.Check{model.FailedCheck("eigenvalues", fmt.Sprintf("eigenvalues are complex: %s ± %si", format(l1), format(l2)))}
		}
		want := []float64{l2, l1}
		if len(got) == 1 && l1 == l2 {
			want = want[:1]
		}
		return vectorChecks("eigenvalue", want, got, numeric.Reported)
	}
	f := characteristic(a)
	checks := make([]model.Check, 0, len(got))
	for i, g := range got {
		lbl := fmt.Sprintf("eigenvalue[%d] root of det(A - λI)", i)
		root, err := numeric.Newton(f, g, 1e-9)
		if err != nil {
			checks = append(checks, model.FailedCheck(lbl, fmt.Sprintf("no eigenvalue near %s", format(g))))
			continue
		}
		ok := numeric.Reported.Equal(root, g)
		reason := ""
		if !ok {
			reason = fmt.Sprintf("expected %s, got %s", format(root), format(g))
		}
		checks = append(checks, model.NewCheck(lbl, ok, root, g, reason))
	}
	return checks
}

func matrixTargets(p *Problem, a [][]float64) []target {
	var ts []target
	if len(a) == len(a[0]) {
		if d, err := numeric.Determinant(a); err == nil {
			ts = append(ts, target{label: "determinant", names: []string{"det", "determinant", "det(a)", "|a|", "d"}, asks: asks(`determinant|\bdet\b`), value: d})
		}
		ts = append(ts, target{label: "trace", names: []string{"trace", "tr", "tr(a)"}, asks: asks(`trace`), value: numeric.Trace(a)})
	}
	ts = append(ts, target{label: "rank", names: []string{"rank", "rank(a)", "r"}, asks: asks(`rank`), value: float64(numeric.Rank(a)), tol: numeric.Tight})
	return ts
}

// angleBetween returns the angle between two vectors in radians.
func angleBetween(u, v []float64) float64 {
	c := numeric.Dot(u, v) / (numeric.Norm(u) * numeric.Norm(v))
	return math.Acos(math.Max(-1, math.Min(1, c)))
}

func vectorTargets(p *Problem, vs [][]float64) []target {
	u := vs[0]
	ts := []target{{label: "magnitude |u|", names: []string{"magnitude", "norm", "length", "|u|", "||u||", "|v|", "|a|"}, asks: asks(`magnitude|norm|length`), value: numeric.Norm(u)}}
	if len(vs) < 2 || len(vs[1]) != len(u) {
		return ts
	}
	v := vs[1]
	dot := numeric.Dot(u, v)
	ts = append([]target{
		{label: "dot product u·v", names: []string{"dot product", "u.v", "u·v", "a.b", "a·b", "dot", "inner product"}, asks: asks(`dot product|inner product|scalar product`), value: dot},
		{label: "angle between u and v", names: []string{"angle", "theta"}, asks: asks(`angle`), value: angleBetween(u, v) * 180 / math.Pi, alts: []float64{angleBetween(u, v)}},
		{label: "scalar projection u·v/|v|", names: []string{"scalar projection", "component", "comp"}, asks: asks(`scalar projection|component of`), value: dot / numeric.Norm(v)},
		{label: "distance |u - v|", names: []string{"distance"}, asks: asks(`distance`), value: distance(u, v)},
	}, ts...)
	return ts
}

func distance(u, v []float64) float64 {
	d := make([]float64, len(u))
	for i := range u {
		d[i] = u[i] - v[i]
	}
	return numeric.Norm(d)
}

func reportedVector(p *Problem, names ...string) ([]float64, bool) {
	if got, ok := p.Final().LookupVector(names...); ok {
		return got, true
	}
	return reportedComponents(p)
}

// reportedComponents reads a final answer written as "3i + 4j - k".
func reportedComponents(p *Problem) ([]float64, bool) {
	m := componentVector.FindStringSubmatch(p.Final().Raw)
	if m == nil {
		return nil, false
	}
	return unitComponents(m[1])
}

func crossChecks(p *Problem, vs [][]float64) []model.Check {
	if !p.asks("cross product", "u x v", "a x b", "normal vector", "perpendicular to both") || len(vs) < 2 {
		return nil
	}
	want, err := numeric.Cross(vs[0], vs[1])
	if err != nil {
		return nil
	}
	got, ok := reportedVector(p, "cross product", "u x v", "a x b", "n")
	if !ok {
		return nil
	}
	return vectorChecks("cross product", want, got, numeric.Reported)
}

func projectionChecks(p *Problem, vs [][]float64) []model.Check {
	if !p.asks("projection") || p.asks("scalar projection") || len(vs) < 2 || len(vs[0]) != len(vs[1]) {
		return nil
	}
	u, v := vs[0], vs[1]
	nv := numeric.Dot(v, v)
	if nv == 0 {
		return nil
	}
	k := numeric.Dot(u, v) / nv
	want := make([]float64, len(v))
	for i := range v {
		want[i] = k * v[i]
	}
	got, ok := reportedVector(p, "projection", "proj")
	if !ok {
		return nil
	}
	return vectorChecks("projection of u onto v", want, got, numeric.Reported)
}

func unitVectorChecks(p *Problem, vs [][]float64) []model.Check {
	if !p.asks("unit vector") {
		return nil
	}
	n := numeric.Norm(vs[0])
	if n == 0 {
		return nil
	}
	want := make([]float64, len(vs[0]))
	for i, x := range vs[0] {
		want[i] = x / n
	}
	got, ok := reportedVector(p, "unit vector", "u_hat", "uhat")
	if !ok {
		return nil
	}
	return vectorChecks("unit vector", want, got, numeric.Reported)
}

func sumChecks(p *Problem, vs [][]float64) []model.Check {
	if len(vs) < 2 || len(vs[0]) != len(vs[1]) {
		return nil
	}
	sign := 0.0
	switch {
	case p.asks("u + v", "a + b", "sum of", "add the vectors", "resultant"):
		sign = 1
	case p.asks("u - v", "a - b", "difference"):
		sign = -1
	default:
		return nil
	}
	want := make([]float64, len(vs[0]))
	for i := range want {
		want[i] = vs[0][i] + sign*vs[1][i]
	}
	got, ok := reportedVector(p)
	if !ok {
		return nil
	}
	return vectorChecks("vector sum", want, got, numeric.Reported)
}
