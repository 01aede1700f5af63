package verify

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/nao1215/solvecheck/internal/candidate"
	"github.com/nao1215/solvecheck/internal/expr"
	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/numeric"
)

// CalculusVerifier checks integrals, derivatives, limits and critical
// points numerically. Function answers (a derivative or antiderivative
// written as a formula) are checked by sampling.
type CalculusVerifier struct{}

// NewCalculusVerifier creates a CalculusVerifier.
func NewCalculusVerifier() *CalculusVerifier { return &CalculusVerifier{} }

// Subject returns model.SubjectCalculus.
func (c *CalculusVerifier) Subject() model.Subject { return model.SubjectCalculus }

// Keywords returns the routing vocabulary.
func (c *CalculusVerifier) Keywords() []string {
	return []string{
		"derivative", "differentiate", "integral", "integrate", "antiderivative",
		"limit", "lim", "critical point", "maximum", "minimum", "extrem", "d/dx", "f'(", "dx",
	}
}

// Matches reports whether the problem uses calculus vocabulary.
func (c *CalculusVerifier) Matches(p *Problem) bool {
	return p.mentions("derivative", "differentiat", "integral", "integrate", "antiderivative",
		"limit", "lim ", "lim_", "critical point", "extrem", "d/dx", "f'(", "stationary point")
}

// samplePoints are where function answers are compared.
var samplePoints = []float64{-2.5, -1.5, -0.75, 0.3, 0.8, 1.3, 2.2, 3.1}

// Run picks the sub-case from the question wording.
func (c *CalculusVerifier) Run(p *Problem) (*model.Verification, error) {
	f, v, ok := problemFunction(p)
	if !ok {
		return nil, nil
	}
	fn := asFunc(f, v)
	switch {
	case p.asks("limit", "lim ", "lim_", "approaches"):
		return limitCheck(p, fn)
	case p.asks("critical", "stationary", "maximum", "minimum", "extrem", "local max", "local min"):
		return verification(model.SubjectCalculus, methodNumerical, criticalChecks(p, f, v)), nil
	}
	if a, b, ok := integralBounds(p); ok && p.asks("integra", "area under", "∫") {
		val, err := numeric.Simpson(fn, a, b, numeric.SimpsonIntervals)
		if err != nil {
			return nil, fmt.Errorf("simpson: %w", err)
		}
		checks := resolve(p, []target{{
			label: fmt.Sprintf("Simpson integral of %s on [%s, %s]", f, format(a), format(b)),
			names: []string{"integral", "area", "i", "value", "answer"},
			value: val,
			tol:   numeric.Loose,
		}})
		return verification(model.SubjectCalculus, methodNumerical, checks), nil
	}
	if p.asks("antiderivative", "indefinite", "integra") {
		return sampled(p, "antiderivative", v, func(g numeric.Func, x float64) (float64, float64, error) {
			d, err := numeric.Derivative(g, x)
			if err != nil {
				return 0, 0, err
			}
			want, err := fn(x)
			return want, d, err
		})
	}
	if p.asks("derivative", "differentiat", "d/dx", "f'(", "slope of the tangent", "rate of change") {
		if x0, ok := derivativePoint(p); ok {
			d, err := numeric.Derivative(fn, x0)
			if err != nil {
				return nil, nil
			}
			checks := resolve(p, []target{{
				label: fmt.Sprintf("derivative of %s at %s", f, format(x0)),
				names: []string{"derivative", "slope", "f'", "dy/dx", "answer", "value"},
				value: d,
				tol:   numeric.Sampled,
			}})
			return verification(model.SubjectCalculus, methodNumerical, checks), nil
		}
		return sampled(p, "derivative", v, func(g numeric.Func, x float64) (float64, float64, error) {
			want, err := numeric.Derivative(fn, x)
			if err != nil {
				return 0, 0, err
			}
			got, err := g(x)
			return want, got, err
		})
	}
	return nil, nil
}

var (
	functionDef  = regexp.MustCompile(`\b[a-zA-Z]\s*\(\s*([a-z])\s*\)\s*=\s*`)
	yDef         = regexp.MustCompile(`(?:^|[^A-Za-z0-9_])y\s*=\s*`)
	calcOperand  = regexp.MustCompile(`(?i)(?:integral of|integrate|antiderivative of|derivative of|differentiate|limit of|∫)\s*`)
	trailingDx   = regexp.MustCompile(`\s*\*?\s*d([a-z])$`)
	limitPattern = regexp.MustCompile(`([a-z])\s*(?:->|approaches|tends to|goes to)\s*(-?\s*inf(?:inity)?|[-+]?\d+(?:\.\d+)?|-?pi)`)
	limOperand   = regexp.MustCompile(`(?i)lim(?:_?\{[^}]*\}|\s*\([^)]*\)|\s+[a-z]\s*->\s*\S+)\s*`)
)

// problemFunction returns the function the problem is about and its
// variable.
func problemFunction(p *Problem) (*expr.Expr, string, bool) {
	s := p.Statement
	var srcs []string
	if m := functionDef.FindStringSubmatchIndex(s); m != nil {
		srcs = append(srcs, s[m[1]:])
	}
	if m := limOperand.FindStringIndex(s); m != nil {
		srcs = append(srcs, s[m[1]:])
	}
	if m := calcOperand.FindStringIndex(s); m != nil {
		srcs = append(srcs, s[m[1]:])
	}
	if m := yDef.FindStringIndex(s); m != nil {
		srcs = append(srcs, s[m[1]:])
	}
	for _, src := range srcs {
		body := trailingDx.ReplaceAllString(mathHead(src), "")
		body = strings.TrimPrefix(body, "the function ")
		if body == "" {
			continue
		}
		e, err := expr.Parse(body)
		if err != nil {
			continue
		}
		vars := e.Variables()
		switch len(vars) {
		case 0:
			return e, "x", true
		case 1:
			return e, vars[0], true
		}
	}
	return nil, "", false
}

// asFunc adapts an expression in one variable.
func asFunc(e *expr.Expr, v string) numeric.Func {
	return func(x float64) (float64, error) {
		return e.Eval(map[string]float64{v: x})
	}
}

var (
	fromTo   = regexp.MustCompile(`from\s+(?:[a-z]\s*=\s*)?(\S+)\s+to\s+(?:[a-z]\s*=\s*)?(\S+)`)
	between  = regexp.MustCompile(`between\s+(?:[a-z]\s*=\s*)?(\S+)\s+and\s+(?:[a-z]\s*=\s*)?(\S+)`)
	interval = regexp.MustCompile(`(?:on|over)\s+\[\s*([^,\]]+)\s*,\s*([^\]]+)\]`)
)

// integralBounds reads the limits of a definite integral.
func integralBounds(p *Problem) (float64, float64, bool) {
	for _, re := range []*regexp.Regexp{fromTo, between, interval} {
		m := re.FindStringSubmatch(p.Statement)
		if m == nil {
			continue
		}
		a, ok1 := expr.Evaluate(strings.Trim(m[1], " .,?"), nil)
		b, ok2 := expr.Evaluate(strings.Trim(m[2], " .,?"), nil)
		if ok1 && ok2 {
			return a, b, true
		}
	}
	return 0, 0, false
}

var (
	atPoint    = regexp.MustCompile(`at\s+[a-z]\s*=\s*([-+]?[\d.]+|-?pi(?:/\d+)?)`)
	primeCall  = regexp.MustCompile(`[a-zA-Z]'\(\s*([^)a-z]+)\)`)
	atBareDiff = regexp.MustCompile(`at\s+([-+]?\d+(?:\.\d+)?)\b`)
)

// derivativePoint reads "at x = 2" or "f'(2)".
func derivativePoint(p *Problem) (float64, bool) {
	for _, re := range []*regexp.Regexp{atPoint, primeCall, atBareDiff} {
		if m := re.FindStringSubmatch(p.Statement); m != nil {
			if v, ok := expr.Evaluate(m[1], nil); ok {
				return v, true
			}
		}
	}
	return 0, false
}

func limitCheck(p *Problem, fn numeric.Func) (*model.Verification, error) {
	m := limitPattern.FindStringSubmatch(p.Statement)
	if m == nil {
		return nil, nil
	}
	point := strings.ReplaceAll(m[2], " ", "")
	var (
		val float64
		err error
	)
	switch {
	case strings.HasPrefix(point, "-inf"):
		val, err = numeric.LimitAtInfinity(fn, -1)
	case strings.HasPrefix(point, "inf"):
		val, err = numeric.LimitAtInfinity(fn, 1)
	default:
		a, ok := expr.Evaluate(point, nil)
		if !ok {
			return nil, nil
		}
		val, err = numeric.Limit(fn, a)
	}
	label := fmt.Sprintf("limit as %s -> %s", m[1], point)
	if errors.Is(err, numeric.ErrNoLimit) {
		if saysNoLimit(p.Final().Raw) {
			return verification(model.SubjectCalculus, methodNumerical, []model.Check{{Label: label, OK: true, Reason: "limit does not exist"}}), nil
		}
		if _, ok := p.Final().Bare(); ok {
			return verification(model.SubjectCalculus, methodNumerical, []model.Check{model.FailedCheck(label, "limit does not exist")}), nil
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	checks := resolve(p, []target{{label: label, names: []string{"limit", "l", "answer", "value"}, value: val, tol: numeric.Sampled}})
	return verification(model.SubjectCalculus, methodNumerical, checks), nil
}

func saysNoLimit(final string) bool {
	f := strings.ToLower(final)
	return strings.Contains(f, "does not exist") || strings.Contains(f, "dne") || strings.Contains(f, "undefined") || strings.Contains(f, "no limit")
}

// criticalChecks verifies reported critical points and their
// classification.
func criticalChecks(p *Problem, f *expr.Expr, v string) []model.Check {
	fn := asFunc(f, v)
	var checks []model.Check
	final := strings.ToLower(p.Final().Raw)
	for _, c := range candidate.FromFinal(p.Record.Final, []string{v}) {
		val, ok := c.Values[v]
		if !ok {
			continue
		}
		x := val.Num
		d, err := numeric.Derivative(fn, x)
		if err != nil {
			checks = append(checks, evalFailure(fmt.Sprintf("f'(%s) = 0", format(x)), err))
			continue
		}
		d2, err := numeric.SecondDerivative(fn, x)
		if err != nil {
			d2 = 0
		}
		bound := numeric.Sampled.Abs
		if val.Decimals > 0 {
			bound += math.Abs(d2) * numeric.RoundingSlack(val.Decimals)
		}
		ok = math.Abs(d) <= bound
		reason := ""
		if !ok {
			reason = fmt.Sprintf("derivative is %s, not zero", format(d))
		}
		checks = append(checks, model.NewCheck(fmt.Sprintf("f'(%s) = 0", format(x)), ok, d, 0, reason))

		kind := ""
		switch {
		case strings.Contains(final, "max"):
			kind = "maximum"
		case strings.Contains(final, "min"):
			kind = "minimum"
		}
		if kind == "" {
			continue
		}
		actual := "inconclusive"
		switch {
		case d2 < -numeric.Sampled.Abs:
			actual = "maximum"
		case d2 > numeric.Sampled.Abs:
			actual = "minimum"
		}
		ok = actual == kind
		reason = ""
		if !ok {
			reason = fmt.Sprintf("second derivative %s indicates %s", format(d2), actual)
		}
		checks = append(checks, model.NewCheck(fmt.Sprintf("f''(%s) classification", format(x)), ok, d2, 0, reason))
	}
	return checks
}

// reportedFunction parses a formula answer such as "f'(x) = 2x + 3" or
// "x^3/3 + C".
func reportedFunction(final, v string) (*expr.Expr, bool) {
	s := candidate.Parse(final).Raw
	if i := strings.LastIndexByte(s, '='); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	for _, suffix := range []string{"+ C", "+C", "+ c", "+c"} {
		s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
	}
	if s == "" {
		return nil, false
	}
	e, err := expr.Parse(s)
	if err != nil {
		return nil, false
	}
	for _, name := range e.Variables() {
		if name != v {
			return nil, false
		}
	}
	return e, true
}

// sampled compares a reported formula against the recomputed function at
// the sample points. pair returns the expected and reported values at x.
func sampled(p *Problem, what, v string, pair func(g numeric.Func, x float64) (float64, float64, error)) (*model.Verification, error) {
	g, ok := reportedFunction(p.Record.Final, v)
	if !ok {
		return nil, nil
	}
	gf := asFunc(g, v)
	n := 0
	worstWant, worstGot, worst := 0.0, 0.0, -1.0
	for _, x := range samplePoints {
		want, got, err := pair(gf, x)
		if err != nil {
			continue
		}
		n++
		d := math.Abs(want-got) / numeric.Sampled.Bound(want, got)
		if d > worst {
			worstWant, worstGot, worst = want, got, d
		}
	}
	if n == 0 {
		return nil, nil
	}
	label := fmt.Sprintf("%s %s sampled at %d points", what, g, n)
	ok = worst <= 1
	reason := ""
	if !ok {
		reason = fmt.Sprintf("expected %s, got %s at a sample point", format(worstWant), format(worstGot))
	}
	return verification(model.SubjectCalculus, methodSampling, []model.Check{model.NewCheck(label, ok, worstWant, worstGot, reason)}), nil
}
