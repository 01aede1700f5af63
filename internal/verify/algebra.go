package verify

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/nao1215/solvecheck/internal/candidate"
	"github.com/nao1215/solvecheck/internal/expr"
	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/numeric"
)

// AlgebraVerifier substitutes every candidate answer into every equation
// of the problem and checks that the residual vanishes.
//
// Design decision: a detected domain issue (division by zero, sqrt of a
// negative, log of a non-positive) fails the check on its own, whatever
// the residual would have been. A NaN residual must never be compared.
type AlgebraVerifier struct{}

// NewAlgebraVerifier creates an AlgebraVerifier.
func NewAlgebraVerifier() *AlgebraVerifier { return &AlgebraVerifier{} }

// Subject returns model.SubjectAlgebra.
func (a *AlgebraVerifier) Subject() model.Subject { return model.SubjectAlgebra }

// Keywords returns the routing vocabulary.
func (a *AlgebraVerifier) Keywords() []string {
	return []string{"solve", "equation", "root", "quadratic", "linear", "system", "factor", "simplify", "x =", "x="}
}

// Matches reports whether the problem contains an equation.
func (a *AlgebraVerifier) Matches(p *Problem) bool {
	return len(p.Equations()) > 0
}

// Run checks every candidate against every equation.
func (a *AlgebraVerifier) Run(p *Problem) (*model.Verification, error) {
	eqs := p.Equations()
	if len(eqs) == 0 {
		return nil, nil
	}
	parsed := make([][2]*expr.Expr, 0, len(eqs))
	vars := make(map[string]bool)
	for _, eq := range eqs {
		l, err := expr.Parse(eq.LHS)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", eq.LHS, err)
		}
		r, err := expr.Parse(eq.RHS)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", eq.RHS, err)
		}
		parsed = append(parsed, [2]*expr.Expr{l, r})
		for _, v := range l.Variables() {
			vars[v] = true
		}
		for _, v := range r.Variables() {
			vars[v] = true
		}
	}
	names := make([]string, 0, len(vars))
	for v := range vars {
		names = append(names, v)
	}
	sort.Strings(names)

	var checks []model.Check
	if p.Final().Malformed() {
		checks = append(checks, evalFailure("final answer "+p.Final().Raw, expr.ErrSyntax))
	}
	for _, c := range candidate.FromFinal(p.Record.Final, names) {
		if !binds(c, names) {
			continue
		}
		for i, eq := range eqs {
			checks = append(checks, substitute(eq, parsed[i][0], parsed[i][1], c))
		}
	}
	return verification(model.SubjectAlgebra, methodSubstitution, checks), nil
}

// binds reports whether the candidate assigns every variable.
func binds(c candidate.Candidate, names []string) bool {
	if len(c.Values) == 0 {
		return false
	}
	for _, n := range names {
		if _, ok := c.Values[n]; !ok {
			return false
		}
	}
	return true
}

// substitute evaluates both sides of an equation at a candidate.
func substitute(eq model.Equation, l, r *expr.Expr, c candidate.Candidate) model.Check {
	vars := c.Assignment()
	label := fmt.Sprintf("%s at %s", eq, describe(vars))
	lv, err := l.Eval(vars)
	if err != nil {
		return evalFailure(label, err)
	}
	rv, err := r.Eval(vars)
	if err != nil {
		return evalFailure(label, err)
	}
	res := lv - rv
	tol := numeric.Tight.WithAbs(roundingAllowance(l, r, c))
	if ok := math.Abs(res) <= tol.Bound(lv, rv); ok {
		return model.NewCheck(label, true, lv, rv, "")
	}
	return model.NewCheck(label, false, lv, rv, fmt.Sprintf("non-zero residual %s", format(res)))
}

// evalFailure turns an evaluation error into a failing check.
func evalFailure(label string, err error) model.Check {
	if de, ok := expr.AsDomainError(err); ok {
		return model.FailedCheck(label, de.Error())
	}
	if errors.Is(err, expr.ErrUnboundVariable) {
		return model.FailedCheck(label, err.Error())
	}
	return model.FailedCheck(label, "invalid expression")
}

// roundingAllowance widens the residual tolerance by how far the residual
// moves when each reported value shifts by half a unit in its last written
// decimal place. Integers are taken as exact.
func roundingAllowance(l, r *expr.Expr, c candidate.Candidate) float64 {
	total := 0.0
	for name, v := range c.Values {
		if v.Decimals <= 0 {
			continue
		}
		f := func(x float64) (float64, error) {
			vars := c.Assignment()
			vars[name] = x
			a, err := l.Eval(vars)
			if err != nil {
				return 0, err
			}
			b, err := r.Eval(vars)
			if err != nil {
				return 0, err
			}
			return a - b, nil
		}
		d, err := numeric.Derivative(f, v.Num)
		if err != nil {
			continue
		}
		total += math.Abs(d) * numeric.RoundingSlack(v.Decimals)
	}
	return total
}

// describe renders an assignment as "x=4, y=2".
func describe(vars map[string]float64) string {
	names := make([]string, 0, len(vars))
	for n := range vars {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + "=" + format(vars[n])
	}
	return strings.Join(parts, ", ")
}
