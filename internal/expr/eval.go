package expr

import (
	"fmt"
	"math"
)

// zeroDenominator is the magnitude below which a denominator counts as zero.
const zeroDenominator = 1e-12

type node interface {
	eval(vars map[string]float64) (float64, error)
	vars(set map[string]bool)
}

type number struct{ v float64 }

type constant struct{ name string }

type variable struct{ name string }

type negate struct{ x node }

type binary struct {
	op   byte
	l, r node
}

type call struct {
	fn   string
	args []node
}

// Eval evaluates the expression over vars.
func (e *Expr) Eval(vars map[string]float64) (float64, error) {
	v, err := e.root.eval(vars)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, &DomainError{Kind: NonFinite}
	}
	return v, nil
}

// Evaluate parses and evaluates s. It returns false on any parse error,
// unbound variable or domain issue.
func Evaluate(s string, vars map[string]float64) (float64, bool) {
	e, err := Parse(s)
	if err != nil {
		return 0, false
	}
	v, err := e.Eval(vars)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (n *number) eval(map[string]float64) (float64, error) { return n.v, nil }
func (n *number) vars(map[string]bool)                     {}

func (n *constant) eval(map[string]float64) (float64, error) {
	if n.name == "pi" {
		return math.Pi, nil
	}
	return math.E, nil
}
func (n *constant) vars(map[string]bool) {}

func (n *variable) eval(vars map[string]float64) (float64, error) {
	v, ok := vars[n.name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnboundVariable, n.name)
	}
	return v, nil
}
func (n *variable) vars(set map[string]bool) { set[n.name] = true }

func (n *negate) eval(vars map[string]float64) (float64, error) {
	v, err := n.x.eval(vars)
	return -v, err
}
func (n *negate) vars(set map[string]bool) { n.x.vars(set) }

func (n *binary) vars(set map[string]bool) {
	n.l.vars(set)
	n.r.vars(set)
}

func (n *binary) eval(vars map[string]float64) (float64, error) {
	a, err := n.l.eval(vars)
	if err != nil {
		return 0, err
	}
	b, err := n.r.eval(vars)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case '+':
		return a + b, nil
	case '-':
		return a - b, nil
	case '*':
		return a * b, nil
	case '/':
		if math.Abs(b) <= zeroDenominator {
			return 0, &DomainError{Kind: DivisionByZero}
		}
		return a / b, nil
	case '^':
		return power(a, b)
	}
	return 0, fmt.Errorf("%w: operator %q", ErrSyntax, n.op)
}

func power(a, b float64) (float64, error) {
	if math.Abs(a) <= zeroDenominator && b < 0 {
		return 0, &DomainError{Kind: DivisionByZero, Detail: "zero to a negative power"}
	}
	if a < 0 && b != math.Trunc(b) {
		// Odd roots of negatives are real: (-8)^(1/3) = -2.
		if inv := 1 / b; math.Abs(inv-math.Round(inv)) < 1e-9 && int64(math.Round(inv))%2 != 0 {
			return -math.Pow(-a, b), nil
		}
		return 0, &DomainError{Kind: OutOfDomain, Detail: "fractional power of a negative number"}
	}
	return math.Pow(a, b), nil
}

func (n *call) vars(set map[string]bool) {
	for _, a := range n.args {
		a.vars(set)
	}
}

func (n *call) eval(vars map[string]float64) (float64, error) {
	args := make([]float64, len(n.args))
	for i, a := range n.args {
		v, err := a.eval(vars)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	x := args[0]
	switch n.fn {
	case "sqrt":
		if x < 0 {
			return 0, &DomainError{Kind: NegativeSqrt, Detail: fmt.Sprintf("sqrt(%g)", x)}
		}
		return math.Sqrt(x), nil
	case "cbrt":
		return math.Cbrt(x), nil
	case "abs":
		return math.Abs(x), nil
	case "exp":
		return math.Exp(x), nil
	case "ln":
		return logBase(x, math.E)
	case "log":
		if len(args) == 2 {
			return logBase(x, args[1])
		}
		return logBase(x, 10)
	case "log2":
		return logBase(x, 2)
	case "log10":
		return logBase(x, 10)
	case "sin":
		return math.Sin(x), nil
	case "cos":
		return math.Cos(x), nil
	case "tan":
		if math.Abs(math.Cos(x)) <= zeroDenominator {
			return 0, &DomainError{Kind: DivisionByZero, Detail: "tan at an odd multiple of pi/2"}
		}
		return math.Tan(x), nil
	case "asin", "arcsin":
		if x < -1 || x > 1 {
			return 0, &DomainError{Kind: OutOfDomain, Detail: fmt.Sprintf("asin(%g)", x)}
		}
		return math.Asin(x), nil
	case "acos", "arccos":
		if x < -1 || x > 1 {
			return 0, &DomainError{Kind: OutOfDomain, Detail: fmt.Sprintf("acos(%g)", x)}
		}
		return math.Acos(x), nil
	case "atan", "arctan":
		return math.Atan(x), nil
	case "sinh":
		return math.Sinh(x), nil
	case "cosh":
		return math.Cosh(x), nil
	case "tanh":
		return math.Tanh(x), nil
	}
	return 0, fmt.Errorf("%w: unknown function %s", ErrSyntax, n.fn)
}

func logBase(x, base float64) (float64, error) {
	if x <= 0 {
		return 0, &DomainError{Kind: NonPositiveLog, Detail: fmt.Sprintf("log(%g)", x)}
	}
	if base <= 0 || base == 1 {
		return 0, &DomainError{Kind: NonPositiveLog, Detail: fmt.Sprintf("log base %g", base)}
	}
	switch base {
	case 10:
		return math.Log10(x), nil
	case 2:
		return math.Log2(x), nil
	case math.E:
		return math.Log(x), nil
	}
	return math.Log(x) / math.Log(base), nil
}
