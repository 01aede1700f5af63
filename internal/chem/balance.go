package chem

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

var (
	// ErrNotEquation is returned when no reaction arrow separates the sides.
	ErrNotEquation = errors.New("not a chemical equation")

	// ErrUnbalanceable is returned when no unique positive balance exists.
	ErrUnbalanceable = errors.New("equation cannot be balanced uniquely")
)

// Species is one reactant or product with its coefficient.
type Species struct {
	Formula     string
	Coefficient int
	Composition Composition
}

// Equation is a parsed chemical equation.
type Equation struct {
	Reactants []Species
	Products  []Species
}

var (
	arrowPattern = regexp.MustCompile(`<=>|<->|->|=>|=`)
	coefPattern  = regexp.MustCompile(`^(\d+)\s*(.+)$`)
	statePattern = regexp.MustCompile(`\((?:s|l|g|aq)\)`)
	plusPattern  = regexp.MustCompile(`\s*\+\s*`)
)

// ParseEquation parses "2H2 + O2 -> 2H2O". Coefficients default to 1;
// state symbols such as (aq) are ignored.
func ParseEquation(s string) (*Equation, error) {
	s = statePattern.ReplaceAllString(s, "")
	loc := arrowPattern.FindStringIndex(s)
	if loc == nil {
		return nil, ErrNotEquation
	}
	lhs, rhs := s[:loc[0]], s[loc[1]:]
	r, err := parseSide(lhs)
	if err != nil {
		return nil, err
	}
	p, err := parseSide(rhs)
	if err != nil {
		return nil, err
	}
	return &Equation{Reactants: r, Products: p}, nil
}

func parseSide(side string) ([]Species, error) {
	var out []Species
	for _, term := range plusPattern.Split(side, -1) {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		coef := 1
		formula := term
		if m := coefPattern.FindStringSubmatch(term); m != nil {
			// A leading number is a coefficient only when a formula follows.
			lead := m[2][0]
			if n, ok := atoi(m[1]); ok && n > 0 && (lead >= 'A' && lead <= 'Z' || lead == '(' || lead == '[') {
				coef = n
				formula = m[2]
			}
		}
		comp, err := ParseFormula(formula)
		if err != nil {
			return nil, err
		}
		out = append(out, Species{Formula: formula, Coefficient: coef, Composition: comp})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty side", ErrNotEquation)
	}
	return out, nil
}

func atoi(s string) (int, bool) {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
		if n > 1<<30 {
			return 0, false
		}
	}
	return n, true
}

// Species returns reactants followed by products.
func (e *Equation) Species() []Species {
	out := make([]Species, 0, len(e.Reactants)+len(e.Products))
	out = append(out, e.Reactants...)
	return append(out, e.Products...)
}

// IsBalanced reports whether the written coefficients conserve every element.
func (e *Equation) IsBalanced() bool {
	totals := map[string]int{}
	for _, s := range e.Reactants {
		for el, n := range s.Composition {
			totals[el] += n * s.Coefficient
		}
	}
	for _, s := range e.Products {
		for el, n := range s.Composition {
			totals[el] -= n * s.Coefficient
		}
	}
	for _, v := range totals {
		if v != 0 {
			return false
		}
	}
	return true
}

// Balance returns the smallest positive integer coefficients, reactants
// first, that conserve every element.
func (e *Equation) Balance() ([]int64, error) {
	species := e.Species()
	elements := map[string]bool{}
	for _, s := range species {
		for el := range s.Composition {
			elements[el] = true
		}
	}
	els := make([]string, 0, len(elements))
	for el := range elements {
		els = append(els, el)
	}

	cols := len(species)
	m := make([][]*big.Rat, len(els))
	for i, el := range els {
		m[i] = make([]*big.Rat, cols)
		for j, s := range species {
			v := int64(s.Composition[el])
			if j >= len(e.Reactants) {
				v = -v
			}
			m[i][j] = big.NewRat(v, 1)
		}
	}

	pivots := rref(m, cols)
	if cols-len(pivots) != 1 {
		return nil, ErrUnbalanceable
	}
	free := -1
	isPivot := make(map[int]int)
	for r, c := range pivots {
		isPivot[c] = r
	}
	for c := 0; c < cols; c++ {
		if _, ok := isPivot[c]; !ok {
			free = c
			break
		}
	}

	sol := make([]*big.Rat, cols)
	for c := 0; c < cols; c++ {
		if c == free {
			sol[c] = big.NewRat(1, 1)
			continue
		}
		r := isPivot[c]
		sol[c] = new(big.Rat).Neg(m[r][free])
	}

	// Scale to integers by the LCM of the denominators.
	lcm := big.NewInt(1)
	for _, v := range sol {
		d := v.Denom()
		g := new(big.Int).GCD(nil, nil, lcm, d)
		lcm.Mul(lcm, new(big.Int).Quo(d, g))
	}
	ints := make([]*big.Int, cols)
	for i, v := range sol {
		n := new(big.Int).Mul(v.Num(), new(big.Int).Quo(lcm, v.Denom()))
		ints[i] = n
	}
	g := new(big.Int).Abs(ints[0])
	for _, n := range ints[1:] {
		g.GCD(nil, nil, g, new(big.Int).Abs(n))
	}
	if g.Sign() == 0 {
		return nil, ErrUnbalanceable
	}
	sign := ints[0].Sign()
	out := make([]int64, cols)
	for i, n := range ints {
		q := new(big.Int).Quo(n, g)
		if sign < 0 {
			q.Neg(q)
		}
		if q.Sign() <= 0 || !q.IsInt64() {
			return nil, ErrUnbalanceable
		}
		out[i] = q.Int64()
	}
	return out, nil
}

// rref reduces m in place to reduced row echelon form and returns the pivot
// column of each pivot row.
func rref(m [][]*big.Rat, cols int) []int {
	var pivots []int
	row := 0
	for c := 0; c < cols && row < len(m); c++ {
		p := -1
		for r := row; r < len(m); r++ {
			if m[r][c].Sign() != 0 {
				p = r
				break
			}
		}
		if p < 0 {
			continue
		}
		m[row], m[p] = m[p], m[row]
		inv := new(big.Rat).Inv(m[row][c])
		for j := 0; j < cols; j++ {
			m[row][j] = new(big.Rat).Mul(m[row][j], inv)
		}
		for r := 0; r < len(m); r++ {
			if r == row || m[r][c].Sign() == 0 {
				continue
			}
			f := new(big.Rat).Set(m[r][c])
			for j := 0; j < cols; j++ {
				m[r][j] = new(big.Rat).Sub(m[r][j], new(big.Rat).Mul(f, m[row][j]))
			}
		}
		pivots = append(pivots, c)
		row++
	}
	return pivots
}

// String renders the equation with its current coefficients.
func (e *Equation) String() string {
	side := func(ss []Species) string {
		parts := make([]string, len(ss))
		for i, s := range ss {
			if s.Coefficient == 1 {
				parts[i] = s.Formula
			} else {
				parts[i] = fmt.Sprintf("%d%s", s.Coefficient, s.Formula)
			}
		}
		return strings.Join(parts, " + ")
	}
	return side(e.Reactants) + " -> " + side(e.Products)
}
